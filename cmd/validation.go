package cmd

import (
	"fmt"
	"strings"
	"unicode"
)

// validateArgument rejects arguments that cannot name a target or a file:
// empty values, control characters and NUL bytes.
func validateArgument(arg string) error {
	if strings.TrimSpace(arg) == "" {
		return fmt.Errorf("argument is empty")
	}

	for _, r := range arg {
		if r == 0 {
			return fmt.Errorf("contains NUL byte")
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("contains control character %U", r)
		}
	}

	return nil
}

// validateArguments validates a slice of arguments
func validateArguments(args []string) error {
	for _, arg := range args {
		if err := validateArgument(arg); err != nil {
			return fmt.Errorf("invalid argument %q: %w", arg, err)
		}
	}
	return nil
}
