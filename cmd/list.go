package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brandscale/pagesmith/internal/build"
)

var listCmd = &cobra.Command{
	Use:     "list [target...]",
	Aliases: []string{"l"},
	Short:   "Show the pages each target would produce",
	Long: `List the pages of the named targets, or of all targets, without rendering
anything. For each page the source template, the destination file and the
assets path it will be rendered with are shown.

Examples:
  pagesmith list                  # Table of all targets
  pagesmith list docs -f json     # One target as JSON
  pagesmith list --format yaml    # All targets as YAML`,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

// listedPage is one row of list output.
type listedPage struct {
	Target string `json:"target" yaml:"target"`
	Src    string `json:"src" yaml:"src"`
	Dest   string `json:"dest" yaml:"dest"`
	Assets string `json:"assets" yaml:"assets"`
	Size   int64  `json:"size" yaml:"size"`
}

func runList(cmd *cobra.Command, args []string) error {
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

	var pages []listedPage
	for _, target := range targets {
		plan, err := build.PlanTarget(cfg, target, nil)
		if err != nil {
			return err
		}
		for _, p := range plan.Pages() {
			var size int64
			if info, err := os.Stat(p.Src); err == nil {
				size = info.Size()
			}
			pages = append(pages, listedPage{
				Target: target.Name,
				Src:    p.Src,
				Dest:   p.Dest,
				Assets: p.Assets,
				Size:   size,
			})
		}
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(out, pages)
	case "yaml":
		return outputListYAML(out, pages)
	case "table", "":
		return outputListTable(out, pages)
	default:
		return fmt.Errorf("unsupported format: %s", listFlags.Format)
	}
}

func outputListJSON(w io.Writer, pages []listedPage) error {
	if pages == nil {
		pages = []listedPage{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(pages)
}

func outputListYAML(w io.Writer, pages []listedPage) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(pages)
}

func outputListTable(w io.Writer, pages []listedPage) error {
	if len(pages) == 0 {
		_, err := fmt.Fprintln(w, "No pages found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSOURCE\tDESTINATION\tASSETS\tSIZE")
	fmt.Fprintln(tw, "------\t------\t-----------\t------\t----")

	var total uint64
	for _, p := range pages {
		assets := p.Assets
		if assets == "" {
			assets = "."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Target, p.Src, p.Dest, assets, humanize.Bytes(uint64(p.Size)))
		total += uint64(p.Size)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d pages, %s of templates\n", len(pages), humanize.Bytes(total))
	return err
}
