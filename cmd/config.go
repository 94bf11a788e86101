package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/brandscale/pagesmith/internal/build"
	"github.com/brandscale/pagesmith/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect pagesmith configuration",
	Long: `Inspect the pagesmith configuration file.

Examples:
  pagesmith config show                 # Effective options of every target
  pagesmith config show docs -f json    # One target as JSON
  pagesmith config validate             # Check the file and every target`,
}

var configShowCmd = &cobra.Command{
	Use:   "show [target...]",
	Short: "Show the effective options of each target",
	Long: `Show the options each target builds with, after the defaults section and
the target's own options have been merged.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file and check that every target can be planned:
each file mapping has src patterns that match files and a dest.`,
	RunE: runConfigValidate,
}

var configShowFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowCmd.Flags().StringVarP(&configShowFormat, "format", "f", "yaml", "Output format (yaml, json)")
	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"yaml", "json"})
	})
}

// shownTarget is the show output for one target.
type shownTarget struct {
	Name    string               `json:"name" yaml:"name"`
	Engine  string               `json:"engine,omitempty" yaml:"engine,omitempty"`
	Options config.Options       `json:"options" yaml:"options"`
	Files   []config.FileMapping `json:"files" yaml:"files"`
	Unknown []string             `json:"unknown_options,omitempty" yaml:"unknown_options,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := validateArguments(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets, err := cfg.Select(args)
	if err != nil {
		return err
	}

	shown := make([]shownTarget, 0, len(targets))
	for _, target := range targets {
		opts, err := cfg.ResolveOptions(target, nil)
		if err != nil {
			return err
		}
		shown = append(shown, shownTarget{
			Name:    target.Name,
			Engine:  target.Engine,
			Options: opts,
			Files:   target.Files,
			Unknown: opts.Unknown,
		})
	}

	return encodeShown(cmd.OutOrStdout(), shown)
}

func encodeShown(w io.Writer, shown []shownTarget) error {
	switch strings.ToLower(configShowFormat) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(shown)
	case "yaml", "":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(shown)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configShowFormat)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result := config.ValidateConfigWithDetails(cfg)
	for _, name := range cfg.TargetNames() {
		if _, err := build.PlanTarget(cfg, cfg.Targets[name], nil); err != nil {
			result.Errors = append(result.Errors, config.ValidationError{
				Field:   "targets." + name,
				Message: err.Error(),
			})
		}
	}

	if result.HasErrors() || result.HasWarnings() {
		fmt.Fprint(out, result.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("configuration %s is invalid", viper.ConfigFileUsed())
	}

	fmt.Fprintf(out, "Configuration %s is valid (%d targets).\n", viper.ConfigFileUsed(), len(cfg.Targets))
	return nil
}
