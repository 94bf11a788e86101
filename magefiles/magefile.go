//go:build mage

// Package main provides build targets for pagesmith using Mage.
//
// Usage:
//
//	mage build          Compile the pagesmith binary to bin/
//	mage test           Run all tests
//	mage property       Run the property-based tests
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install pagesmith to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pagesmith"
	binaryDir  = "bin"
	versionPkg = "github.com/brandscale/pagesmith/internal/version"
)

// ldflags stamps version information into the binary.
func ldflags() string {
	commit, err := sh.Output("git", "rev-parse", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	version := os.Getenv("PAGESMITH_VERSION")
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("-X %[1]s.Version=%[2]s -X %[1]s.GitCommit=%[3]s -X %[1]s.BuildTime=%[4]s",
		versionPkg, version, commit, time.Now().UTC().Format(time.RFC3339))
}

// Build compiles the pagesmith binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), ".")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Property runs the gopter property tests.
func Property() error {
	return sh.RunV("go", "test", "-tags", "property", "./internal/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
