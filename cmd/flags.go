package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Build flags
	Force      bool `flag:"force" desc:"Keep building after a page fails" default:"false"`
	DryRun     bool `flag:"dry-run,n" desc:"Render pages without writing them" default:"false"`
	Production bool `flag:"production,p" desc:"Render with production=true and dev=false" default:"false"`

	// Output flags
	Format string `flag:"format,f" desc:"Output format (table|json|yaml)" default:"table"`
	Quiet  bool   `flag:"quiet,q" desc:"Suppress progress output" default:"false"`
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{Format: "table"}

	for _, flagType := range flagTypes {
		switch flagType {
		case "build":
			addBuildFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		case "quiet":
			addQuietFlag(cmd, flags)
		}
	}

	return flags
}

func addBuildFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().BoolVar(&flags.Force, "force", false, "Keep building after a page fails")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "Render pages without writing them")
	cmd.Flags().BoolVarP(&flags.Production, "production", "p", false, "Render with production=true and dev=false")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "Output format (table|json|yaml)")
}

func addQuietFlag(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress progress output")
}

// Overrides returns the option overrides implied by the build flags.
func (f *StandardFlags) Overrides() map[string]interface{} {
	if !f.Production {
		return nil
	}
	return map[string]interface{}{
		"production": true,
		"dev":        false,
	}
}

// ChildArgs returns the build flags to forward to a child pagesmith process.
func (f *StandardFlags) ChildArgs() []string {
	var args []string
	if f.Force {
		args = append(args, "--force")
	}
	if f.DryRun {
		args = append(args, "--dry-run")
	}
	if f.Production {
		args = append(args, "--production")
	}
	if f.Quiet {
		args = append(args, "--quiet")
	}
	return args
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	originalSet := flag.Value.Set

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateFormatWithSuggestion checks format against the allowed values and
// suggests the closest one on a typo.
func ValidateFormatWithSuggestion(format string, allowed []string) error {
	lower := strings.ToLower(format)
	for _, a := range allowed {
		if lower == a {
			return nil
		}
	}

	msg := fmt.Sprintf("unsupported format %q (supported: %s)", format, strings.Join(allowed, ", "))
	if s := closest(lower, allowed); s != "" {
		msg += fmt.Sprintf("; did you mean %q?", s)
	}
	return errors.New(msg)
}

// closest returns the candidate within edit distance 2 of s, or "".
func closest(s string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(s, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
