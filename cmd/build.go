package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/brandscale/pagesmith/internal/build"
	"github.com/brandscale/pagesmith/internal/engine"
	"github.com/brandscale/pagesmith/internal/errors"
	"github.com/brandscale/pagesmith/internal/report"
)

var buildCmd = &cobra.Command{
	Use:     "build [target...]",
	Aliases: []string{"b"},
	Short:   "Render the pages of one or more targets",
	Long: `Render every page of the named targets, or of all targets in name order
when none are given. Each page is rendered as the body of the target's layout
and written to <dest>/<relative dir>/<name>.html.

The build stops at the first failure unless --force is set, in which case
broken pages are skipped and reported together at the end.

Examples:
  pagesmith build                  # Build all targets
  pagesmith build docs blog        # Build two targets
  pagesmith build --production     # Render with production=true, dev=false
  pagesmith build --dry-run        # Render without writing files
  pagesmith build --force -q       # Skip broken pages, no progress output`,
	RunE: runBuild,
}

var buildFlags *StandardFlags

func init() {
	rootCmd.AddCommand(buildCmd)

	buildFlags = AddStandardFlags(buildCmd, "build", "quiet")
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	reporter := report.New(cmd.OutOrStdout(), buildFlags.Quiet)
	builder := build.NewBuilder(cfg, engine.DefaultRegistry(), logger, reporter, build.BuildOptions{
		Force:     buildFlags.Force,
		DryRun:    buildFlags.DryRun,
		Overrides: buildFlags.Overrides(),
	})

	collector := errors.NewErrorCollector()
	for _, target := range targets {
		reporter.Heading(fmt.Sprintf("Running target %q", target.Name))

		_, err := builder.Run(commandContext(cmd), target)
		if err == nil {
			continue
		}
		if !buildFlags.Force {
			return err
		}
		collector.Add(err)
	}

	if len(targets) > 1 {
		m := builder.Metrics()
		reporter.Heading(fmt.Sprintf("%d targets, %d pages, %s total",
			m.Targets, m.Pages, humanize.Bytes(m.Bytes)))
	}

	return collector.Summarize("targets")
}
