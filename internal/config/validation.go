package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

var engineNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateConfigWithDetails checks the structure of a configuration. Problems
// a build reports on its own (missing src, missing dest, missing layout) are
// left to the build so their messages stay the same from the CLI and the API.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{}

	if len(config.Targets) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:       "targets",
			Message:     "no targets configured",
			Suggestions: []string{"run 'pagesmith init' to scaffold a starter configuration"},
		})
	}

	for _, name := range config.TargetNames() {
		validateTargetDetails(config.Targets[name], result)
	}

	if engine, ok := config.Defaults["engine"].(string); ok && engine != "" && !engineNamePattern.MatchString(engine) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "defaults.engine",
			Value:   engine,
			Message: "engine names are lowercase identifiers",
		})
	}

	for i, pattern := range config.SubBuilds {
		if strings.TrimSpace(pattern) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("subbuilds[%d]", i),
				Message: "empty pattern",
			})
		}
	}

	return result
}

func validateTargetDetails(target Target, result *ValidationResult) {
	field := "targets." + target.Name

	if target.Engine != "" && !engineNamePattern.MatchString(target.Engine) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field + ".engine",
			Value:   target.Engine,
			Message: "engine names are lowercase identifiers",
		})
	}

	if len(target.Files) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:       field + ".files",
			Message:     "target has no file mappings",
			Suggestions: []string{"add a files entry with dest and src"},
		})
	}

	for i, mapping := range target.Files {
		for j, src := range mapping.Src {
			if strings.ContainsRune(src, 0) {
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("%s.files[%d].src[%d]", field, i, j),
					Value:   src,
					Message: "pattern contains a NUL byte",
				})
			}
		}
	}
}
