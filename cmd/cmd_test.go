package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandscale/pagesmith/internal/errors"
	"github.com/brandscale/pagesmith/internal/testutils"
)

// newTestCommand returns a command whose output is captured.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetContext(context.Background())
	return c, &out
}

// useConfig points the global viper at path the way initConfig does.
func useConfig(t *testing.T, path string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	configReadErr = viper.ReadInConfig()
}

func resetFlags() {
	*buildFlags = StandardFlags{Format: "table", Quiet: true}
	*listFlags = StandardFlags{Format: "table"}
	*subFlags = StandardFlags{Format: "table", Quiet: true}
	initForce = false
	configShowFormat = "yaml"
	versionFormat = "text"
	versionShort = false
}

func setupCmdProject(t *testing.T) string {
	t.Helper()
	resetFlags()
	root := testutils.CreateTempProject(t)
	testutils.Chdir(t, root)
	useConfig(t, ".pagesmith.yml")
	require.NoError(t, configReadErr)
	return root
}

func TestBuildCommand(t *testing.T) {
	root := setupCmdProject(t)
	buildFlags.Quiet = false

	c, out := newTestCommand()
	require.NoError(t, runBuild(c, nil))

	assert.FileExists(t, filepath.Join(root, "dist", "index.html"))
	assert.FileExists(t, filepath.Join(root, "dist", "docs", "api", "v1.html"))
	assert.Contains(t, out.String(), `Running target "project"`)
	assert.Contains(t, out.String(), "File index.html created. ok")
}

func TestBuildCommandProduction(t *testing.T) {
	root := setupCmdProject(t)
	testutils.WriteFile(t, root, "src/templates/pages/index.hbs", `{{#if production}}PROD{{/if}}{{#if dev}}DEV{{/if}}`)
	buildFlags.Production = true

	c, _ := newTestCommand()
	require.NoError(t, runBuild(c, []string{"project"}))

	index := testutils.ReadFile(t, root, "dist/index.html")
	assert.Contains(t, index, "PROD")
	assert.NotContains(t, index, "DEV")
}

func TestBuildCommandErrors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		setupCmdProject(t)
		c, _ := newTestCommand()
		err := runBuild(c, []string{"nope"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeTargetNotFound))
	})

	t.Run("no config file", func(t *testing.T) {
		resetFlags()
		testutils.Chdir(t, t.TempDir())
		viper.Reset()
		t.Cleanup(viper.Reset)
		configReadErr = viper.ConfigFileNotFoundError{}

		c, _ := newTestCommand()
		err := runBuild(c, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .pagesmith.yml found")
	})

	t.Run("broken page stops the build", func(t *testing.T) {
		root := setupCmdProject(t)
		testutils.WriteFile(t, root, "src/templates/pages/about.hbs", `{{> sidebar}}`)

		c, _ := newTestCommand()
		err := runBuild(c, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeRenderFailed))
		assert.NoFileExists(t, filepath.Join(root, "dist", "index.html"))
	})

	t.Run("force keeps going", func(t *testing.T) {
		root := setupCmdProject(t)
		testutils.WriteFile(t, root, "src/templates/pages/about.hbs", `{{> sidebar}}`)
		buildFlags.Force = true

		c, _ := newTestCommand()
		err := runBuild(c, nil)
		require.Error(t, err)
		assert.FileExists(t, filepath.Join(root, "dist", "index.html"))
	})
}

func TestListCommand(t *testing.T) {
	setupCmdProject(t)

	t.Run("json", func(t *testing.T) {
		listFlags.Format = "json"
		c, out := newTestCommand()
		require.NoError(t, runList(c, nil))

		var pages []listedPage
		require.NoError(t, json.Unmarshal(out.Bytes(), &pages))
		require.Len(t, pages, 4)
		assert.Equal(t, "project", pages[0].Target)
		assert.Equal(t, filepath.Join("dist", "about.html"), pages[0].Dest)
		assert.Equal(t, "assets/", pages[0].Assets)
		assert.Equal(t, "../../assets/", pages[1].Assets)
		assert.Positive(t, pages[0].Size)
	})

	t.Run("yaml", func(t *testing.T) {
		listFlags.Format = "yaml"
		c, out := newTestCommand()
		require.NoError(t, runList(c, []string{"project"}))
		assert.Contains(t, out.String(), "target: project")
		assert.Contains(t, out.String(), "assets: ../assets/")
	})

	t.Run("table", func(t *testing.T) {
		listFlags.Format = "table"
		c, out := newTestCommand()
		require.NoError(t, runList(c, nil))
		assert.Contains(t, out.String(), "TARGET")
		assert.Contains(t, out.String(), "Total: 4 pages")
	})

	t.Run("does not render", func(t *testing.T) {
		assert.NoDirExists(t, "dist/docs")
	})
}

func TestInitCommand(t *testing.T) {
	resetFlags()
	testutils.Chdir(t, t.TempDir())

	c, out := newTestCommand()
	require.NoError(t, runInit(c, []string{"site"}))

	for _, f := range scaffold {
		assert.FileExists(t, filepath.Join("site", filepath.FromSlash(f.path)))
	}
	assert.Contains(t, out.String(), "created "+filepath.Join("site", ".pagesmith.yml"))

	err := runInit(c, []string{"site"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initForce = true
	require.NoError(t, runInit(c, []string{"site"}))

	// The scaffold builds as-is.
	testutils.Chdir(t, "site")
	useConfig(t, ".pagesmith.yml")
	require.NoError(t, configReadErr)

	bc, _ := newTestCommand()
	require.NoError(t, runBuild(bc, nil))

	index, err := os.ReadFile(filepath.Join("dist", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<h1>My Site</h1>")
	assert.Contains(t, string(index), `href="assets/css/site.css"`)
	assert.Contains(t, string(index), `<body class="Default">`)
}

// When the test binary is started as a sub-build child it records how it was
// invoked instead of running the tests.
const (
	childRecordEnv = "PAGESMITH_TEST_CHILD_RECORD"
	childExitEnv   = "PAGESMITH_TEST_CHILD_EXIT"
)

func TestMain(m *testing.M) {
	if record := os.Getenv(childRecordEnv); record != "" {
		os.Exit(runRecordingChild(record))
	}
	os.Exit(m.Run())
}

func runRecordingChild(record string) int {
	wd, err := os.Getwd()
	if err != nil {
		return 3
	}
	f, err := os.OpenFile(record, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 3
	}
	defer f.Close()
	fmt.Fprintf(f, "%s\t%s\n", wd, strings.Join(os.Args[1:], " "))

	if os.Getenv(childExitEnv) != "" {
		return 1
	}
	return 0
}

type childCall struct {
	dir  string
	args string
}

// recordChildren makes sub-builds run this test binary and returns a func
// reading back each child invocation.
func recordChildren(t *testing.T, fail bool) func() []childCall {
	t.Helper()
	record := filepath.Join(t.TempDir(), "calls.txt")
	t.Setenv(childRecordEnv, record)
	if fail {
		t.Setenv(childExitEnv, "1")
	}

	self, err := os.Executable()
	require.NoError(t, err)
	orig := executable
	executable = func() (string, error) { return self, nil }
	t.Cleanup(func() { executable = orig })

	return func() []childCall {
		raw, err := os.ReadFile(record)
		if os.IsNotExist(err) {
			return nil
		}
		require.NoError(t, err)

		var calls []childCall
		for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
			dir, args, _ := strings.Cut(line, "\t")
			calls = append(calls, childCall{dir: dir, args: args})
		}
		return calls
	}
}

func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestSubCommand(t *testing.T) {
	root := setupCmdProject(t)
	testutils.WriteFile(t, root, "themes/a/.pagesmith.yml", testutils.StandardConfig)
	testutils.WriteFile(t, root, "themes/b/site.yml", testutils.StandardConfig)
	viper.Set("log-level", "debug")

	t.Run("runs each config in its own directory", func(t *testing.T) {
		calls := recordChildren(t, false)
		subFlags.Force = true
		subFlags.Production = true
		t.Cleanup(resetFlags)

		c, _ := newTestCommand()
		require.NoError(t, runSub(c, []string{"themes/a/.pagesmith.yml", "themes/*/site.yml"}))

		got := calls()
		require.Len(t, got, 2)
		assert.Equal(t, realPath(t, filepath.Join(root, "themes", "a")), got[0].dir)
		assert.Equal(t, "--config .pagesmith.yml --log-level debug build --force --production --quiet", got[0].args)
		assert.Equal(t, realPath(t, filepath.Join(root, "themes", "b")), got[1].dir)
		assert.Equal(t, "--config site.yml --log-level debug build --force --production --quiet", got[1].args)
	})

	t.Run("first failure stops", func(t *testing.T) {
		calls := recordChildren(t, true)
		c, out := newTestCommand()
		subFlags.Quiet = false
		t.Cleanup(resetFlags)

		err := runSub(c, []string{"themes/a/.pagesmith.yml", "themes/*/site.yml"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeSubBuildFailed))
		assert.Contains(t, err.Error(), "error running sub-build "+filepath.Join("themes", "a", ".pagesmith.yml"))
		assert.Contains(t, err.Error(), "exit status 1")
		assert.NotContains(t, out.String(), filepath.Join("themes", "b"))
		assert.Len(t, calls(), 1)
	})

	t.Run("no patterns configured", func(t *testing.T) {
		c, _ := newTestCommand()
		err := runSub(c, nil)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNoSubBuilds))
		assert.Contains(t, err.Error(), "no sub-build patterns")
	})

	t.Run("patterns match nothing", func(t *testing.T) {
		calls := recordChildren(t, false)
		c, _ := newTestCommand()
		err := runSub(c, []string{"missing/*/.pagesmith.yml"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNoSubBuilds))
		assert.False(t, errors.HasCode(err, errors.ErrCodeSrcNotFound))
		assert.Empty(t, calls())
	})
}

func TestConfigCommands(t *testing.T) {
	root := setupCmdProject(t)

	t.Run("show json", func(t *testing.T) {
		configShowFormat = "json"
		c, out := newTestCommand()
		require.NoError(t, runConfigShow(c, nil))

		var shown []shownTarget
		require.NoError(t, json.Unmarshal(out.Bytes(), &shown))
		require.Len(t, shown, 1)
		assert.Equal(t, "project", shown[0].Name)
		assert.Equal(t, "dist/assets", shown[0].Options.Assets)
		assert.Equal(t, "src/templates/layouts/layout-basic.hbs", shown[0].Options.Layout)
		assert.True(t, shown[0].Options.Dev)
	})

	t.Run("validate ok", func(t *testing.T) {
		c, out := newTestCommand()
		require.NoError(t, runConfigValidate(c, nil))
		assert.Contains(t, out.String(), "is valid (1 targets)")
	})

	t.Run("validate reports unbuildable targets", func(t *testing.T) {
		testutils.WriteFile(t, root, "broken.yml", `targets:
  empty:
    files:
      - dest: dist
        src: [nothing/*.hbs]
`)
		useConfig(t, "broken.yml")
		c, out := newTestCommand()
		err := runConfigValidate(c, nil)
		require.Error(t, err)
		assert.Contains(t, out.String(), "targets.empty")
		assert.Contains(t, out.String(), "source files not found")
	})
}

func TestVersionCommand(t *testing.T) {
	resetFlags()

	c, out := newTestCommand()
	require.NoError(t, runVersionCommand(c, nil))
	assert.Contains(t, out.String(), "pagesmith ")
	assert.Contains(t, out.String(), "Go: ")

	versionFormat = "json"
	c, out = newTestCommand()
	require.NoError(t, runVersionCommand(c, nil))
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")

	versionFormat = "xml"
	c, _ = newTestCommand()
	assert.Error(t, runVersionCommand(c, nil))
}

func TestStandardFlags(t *testing.T) {
	f := &StandardFlags{}
	assert.Nil(t, f.Overrides())
	assert.Empty(t, f.ChildArgs())

	f = &StandardFlags{Production: true, Force: true, DryRun: true, Quiet: true}
	assert.Equal(t, map[string]interface{}{"production": true, "dev": false}, f.Overrides())
	assert.Equal(t, []string{"--force", "--dry-run", "--production", "--quiet"}, f.ChildArgs())
}
