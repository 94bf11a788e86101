package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a BuildError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *BuildError {
	if err == nil {
		return nil
	}

	// Keep the location of an inner BuildError so the outermost message still points at the file.
	var be *BuildError
	if errors.As(err, &be) {
		return &BuildError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       err,
			Context:     be.Context,
			Target:      be.Target,
			FilePath:    be.FilePath,
			Recoverable: be.Recoverable,
		}
	}

	return &BuildError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeRender,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *BuildError {
	wrapped := Wrap(err, ErrorTypeIO, code, message)
	if wrapped != nil {
		wrapped.Recoverable = code == ErrCodeWriteFailed
	}
	return wrapped
}

// WrapRender wraps an engine failure while rendering a single page
func WrapRender(err error, srcFile string) *BuildError {
	wrapped := Wrap(err, ErrorTypeRender, ErrCodeRenderFailed, "render failed")
	if wrapped != nil {
		wrapped.FilePath = srcFile
		wrapped.Recoverable = true
	}
	return wrapped
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *BuildError {
	return Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
}
