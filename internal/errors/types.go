// Package errors defines the typed errors a build can fail with.
//
// Every failure carries a category, a stable ERR_* code and, where one is
// known, the file and target it relates to. Codes are compared with Is, so
// callers can match on a sentinel such as ErrMissingDest() without caring
// about the message text.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeEngine     ErrorType = "engine"
	ErrorTypeRender     ErrorType = "render"
)

// Common error codes.
const (
	ErrCodeMissingSrc      = "ERR_MISSING_SRC"
	ErrCodeSrcNotFound     = "ERR_SRC_NOT_FOUND"
	ErrCodeMissingDest     = "ERR_MISSING_DEST"
	ErrCodeNoEngine        = "ERR_NO_ENGINE"
	ErrCodeLayoutNotFound  = "ERR_LAYOUT_NOT_FOUND"
	ErrCodeTemplateInvalid = "ERR_TEMPLATE_INVALID"
	ErrCodeDataInvalid     = "ERR_DATA_INVALID"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeWriteFailed     = "ERR_WRITE_FAILED"
	ErrCodeReadFailed      = "ERR_READ_FAILED"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeTargetNotFound  = "ERR_TARGET_NOT_FOUND"
	ErrCodeSubBuildFailed  = "ERR_SUB_BUILD_FAILED"
	ErrCodeNoSubBuilds     = "ERR_NO_SUB_BUILDS"
)

// BuildError is a structured error type with context.
type BuildError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Target      string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Target != "" {
		parts = append(parts, "target:"+e.Target)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code.
func (e *BuildError) Is(target error) bool {
	var t *BuildError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BuildError) WithContext(key string, value interface{}) *BuildError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error relates to.
func (e *BuildError) WithFile(path string) *BuildError {
	e.FilePath = path

	return e
}

// WithTarget records the build target the error happened in.
func (e *BuildError) WithTarget(target string) *BuildError {
	e.Target = target

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *BuildError {
	return &BuildError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *BuildError {
	return &BuildError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewEngineError creates a template compilation error.
func NewEngineError(code, message string, cause error) *BuildError {
	return &BuildError{
		Type:    ErrorTypeEngine,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewRenderError creates a page render error. These can be skipped in force mode.
func NewRenderError(message string, cause error) *BuildError {
	return &BuildError{
		Type:        ErrorTypeRender,
		Code:        ErrCodeRenderFailed,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Recoverable
	}

	return false
}

// HasCode reports whether any BuildError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var be *BuildError
		if !errors.As(err, &be) {
			return false
		}
		if be.Code == code {
			return true
		}
		err = be.Cause
	}

	return false
}

// ErrMissingSrc is returned when a file mapping has no src property.
func ErrMissingSrc() *BuildError {
	return NewValidationError(ErrCodeMissingSrc, "missing src property")
}

// ErrSrcNotFound is returned when src patterns match nothing.
func ErrSrcNotFound(patterns []string) *BuildError {
	return NewValidationError(ErrCodeSrcNotFound, "source files not found").
		WithContext("patterns", patterns)
}

// ErrMissingDest is returned when a file mapping has no dest property.
func ErrMissingDest() *BuildError {
	return NewValidationError(ErrCodeMissingDest, "missing dest property")
}

// ErrNoEngine is returned when no engine can be resolved.
func ErrNoEngine(name string) *BuildError {
	msg := "no compatible engine available"
	if name != "" {
		msg += ": " + name
	}

	return NewValidationError(ErrCodeNoEngine, msg)
}

// ErrLayoutNotFound is returned when the layout file does not exist.
func ErrLayoutNotFound(path string) *BuildError {
	return NewValidationError(ErrCodeLayoutNotFound, "layout file ("+path+") not found").
		WithFile(path)
}

// ErrTargetNotFound is returned for unknown target names.
func ErrTargetNotFound(name string) *BuildError {
	return NewConfigError(ErrCodeTargetNotFound, "target not found: "+name)
}

// ErrSubBuildFailed is returned when a nested configuration fails to build.
func ErrSubBuildFailed(file string, cause error) *BuildError {
	return &BuildError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeSubBuildFailed,
		Message: "error running sub-build " + file,
		Cause:   cause,
		Context: map[string]interface{}{"file": file},
	}
}

// ErrNoSubBuilds is returned when there are no sub-build patterns, or when
// the patterns match no config file.
func ErrNoSubBuilds(patterns []string) *BuildError {
	if len(patterns) == 0 {
		return NewConfigError(ErrCodeNoSubBuilds, "no sub-build patterns given and no subbuilds configured")
	}
	return NewValidationError(ErrCodeNoSubBuilds, "no sub-build files found").
		WithContext("patterns", patterns)
}
