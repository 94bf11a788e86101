package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brandscale/pagesmith/internal/config"
	"github.com/brandscale/pagesmith/internal/logging"
)

var (
	cfgFile       string
	configReadErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagesmith",
	Short: "Compile Handlebars templates into static HTML pages",
	Long: `pagesmith compiles a tree of Handlebars and Mustache templates into static
HTML. Every page is rendered as the body of a shared layout, with partials and
JSON or YAML data available to all of them.

Quick Start:
  pagesmith init                  Scaffold a starter project
  pagesmith list                  Show the pages each target produces
  pagesmith build                 Build every target
  pagesmith build docs --force    Build one target, skipping broken pages
  pagesmith sub                   Run nested pagesmith projects`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pagesmith.yml, can also use PAGESMITH_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points viper at the config file.
//
// Loading priority (highest to lowest):
//  1. --config flag
//  2. PAGESMITH_CONFIG_FILE environment variable
//  3. .pagesmith.yml in the current directory
//
// A missing or unreadable file is remembered rather than reported here, so
// commands that need no configuration (init, version) still run.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PAGESMITH_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pagesmith")
	}

	// PAGESMITH_LOG_LEVEL and friends; dots in nested keys become underscores.
	viper.SetEnvPrefix("PAGESMITH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	configReadErr = viper.ReadInConfig()
}

// loadConfig returns the decoded configuration or explains why there is none.
func loadConfig() (*config.Config, error) {
	if configReadErr != nil {
		if _, ok := configReadErr.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("no .pagesmith.yml found in the current directory (run 'pagesmith init' or pass --config)")
		}
		return nil, fmt.Errorf("failed to read configuration: %w", configReadErr)
	}
	return config.Load()
}

// commandContext returns the command's context, or Background when it runs
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newLogger builds the logger selected by --log-level and --log-format.
func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(viper.GetString("log-format"))
	if format == "" {
		format = "text"
	}
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("unsupported log format: %s (supported: text, json)", format)
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    format,
		Output:    cmd.ErrOrStderr(),
		Component: "pagesmith",
	}), nil
}
