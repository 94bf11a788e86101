// Package cmd provides the command-line interface for pagesmith.
//
// # Available Commands
//
//   - build: render the pages of one or more targets
//   - list: show the pages a target would produce without rendering
//   - init: scaffold a starter project
//   - sub: build nested pagesmith projects one after another
//   - config: show effective options and validate the configuration
//   - version: print build information
//
// # Configuration
//
// The configuration file is chosen with clear precedence:
//  1. --config flag
//  2. PAGESMITH_CONFIG_FILE environment variable
//  3. .pagesmith.yml in the current directory
//
// Global settings can be overridden with PAGESMITH_ environment variables,
// for example PAGESMITH_LOG_LEVEL=debug.
//
// # Command Examples
//
//	// Scaffold and build a new site
//	pagesmith init my-site
//	cd my-site && pagesmith build
//
//	// Build one target for production, skipping broken pages
//	pagesmith build docs --production --force
//
//	// Inspect what a target produces
//	pagesmith list docs --format yaml
package cmd
