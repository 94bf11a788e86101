package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brandscale/pagesmith/internal/errors"
	"github.com/brandscale/pagesmith/internal/report"
	"github.com/brandscale/pagesmith/internal/scanner"
)

var subCmd = &cobra.Command{
	Use:   "sub [pattern...]",
	Short: "Build nested pagesmith projects",
	Long: `Run 'pagesmith build' for every nested config file matching the given glob
patterns, or the 'subbuilds' patterns of the current config when none are
given. Each project is built in its own directory, one after another, and
the first failure stops the run.

Examples:
  pagesmith sub                           # Use subbuilds from .pagesmith.yml
  pagesmith sub 'themes/*/.pagesmith.yml' # Explicit pattern
  pagesmith sub --production --force      # Forward build flags`,
	RunE: runSub,
}

var subFlags *StandardFlags

// executable resolves the binary that runs each sub-build.
var executable = os.Executable

func init() {
	rootCmd.AddCommand(subCmd)

	subFlags = AddStandardFlags(subCmd, "build", "quiet")
}

func runSub(cmd *cobra.Command, args []string) error {
	if err := validateArguments(args); err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		patterns = cfg.SubBuilds
	}
	if len(patterns) == 0 {
		return errors.ErrNoSubBuilds(nil)
	}

	files, err := scanner.Expand(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.ErrNoSubBuilds(patterns)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	logger = logger.WithComponent("sub")

	self, err := executable()
	if err != nil {
		return fmt.Errorf("failed to locate pagesmith binary: %w", err)
	}

	reporter := report.New(cmd.OutOrStdout(), subFlags.Quiet)
	ctx := commandContext(cmd)
	for _, file := range files {
		reporter.Heading("Running sub-build " + file)
		logger.Info(ctx, "running sub-build", "file", file)

		if err := runSubBuild(ctx, cmd, self, file); err != nil {
			err = errors.ErrSubBuildFailed(file, err)
			logger.Error(ctx, err, "sub-build failed", "file", file)
			return err
		}
	}

	return nil
}

// runSubBuild runs one nested config as a child process in its own directory.
func runSubBuild(ctx context.Context, cmd *cobra.Command, self, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	args := []string{
		"--config", filepath.Base(abs),
		"--log-level", viper.GetString("log-level"),
		"build",
	}
	args = append(args, subFlags.ChildArgs()...)

	child := exec.CommandContext(ctx, self, args...)
	child.Dir = filepath.Dir(abs)
	child.Stdout = cmd.OutOrStdout()
	child.Stderr = cmd.ErrOrStderr()
	return child.Run()
}
