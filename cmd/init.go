package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Scaffold a starter pagesmith project",
	Long: `Create a .pagesmith.yml together with a layout, a page, a partial and a
data file, ready for 'pagesmith build'. The project is created in the
current directory unless a directory is given.

Examples:
  pagesmith init                  # Scaffold in the current directory
  pagesmith init my-site          # Scaffold in ./my-site
  pagesmith init --force          # Overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

// scaffold maps project-relative paths to their starter content.
var scaffold = []struct {
	path    string
	content string
}{
	{".pagesmith.yml", `defaults:
  language: en-us
  layout: src/templates/layouts/default.hbs
  partials:
    - src/templates/partials/**/*.hbs
  data:
    - src/data/**/*.{json,yml,yaml}
  assets: dist/assets

targets:
  site:
    files:
      - dest: dist
        src:
          - src/templates/pages/**/*.hbs
`},
	{"src/templates/layouts/default.hbs", `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{site.title}} | {{pageName}}</title>
  <link rel="stylesheet" href="{{assets}}css/site.css">
</head>
<body class="{{layoutName}}">
  {{> header}}
  {{> body}}
</body>
</html>
`},
	{"src/templates/pages/index.hbs", `<main>
  <h1>{{site.title}}</h1>
  <p>{{site.tagline}}</p>
</main>
`},
	{"src/templates/partials/header.hbs", `<header><a href="{{assets}}../index.html">{{site.title}}</a></header>
`},
	{"src/data/data.json", `{
  "site": {
    "title": "My Site",
    "tagline": "Built with pagesmith"
  }
}
`},
	{"dist/assets/css/site.css", `body { font-family: sans-serif; }
`},
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		if err := validateArgument(args[0]); err != nil {
			return fmt.Errorf("invalid directory: %w", err)
		}
		dir = args[0]
	}

	if !initForce {
		if _, err := os.Stat(filepath.Join(dir, ".pagesmith.yml")); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Join(dir, ".pagesmith.yml"))
		}
	}

	out := cmd.OutOrStdout()
	for _, f := range scaffold {
		path := filepath.Join(dir, filepath.FromSlash(f.path))

		if !initForce {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "skipped %s (exists)\n", path)
				continue
			}
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader([]byte(f.content))); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "created %s\n", path)
	}

	fmt.Fprintln(out, "\nRun 'pagesmith build' to render the site.")
	return nil
}
