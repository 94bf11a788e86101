package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/brandscale/pagesmith/internal/config"
)

// StandardLayout is a layout that prints the page context around the body.
const StandardLayout = `<!doctype html>
<html>
<head><title>{{title}} | {{pageName}}</title>
<link rel="stylesheet" href="{{assets}}css/site.css"></head>
<body class="{{layoutName}}">
{{> header}}
{{> body}}
</body>
</html>
`

// StandardPartials are the partials StandardLayout and StandardPages use.
var StandardPartials = map[string]string{
	"header": `<header>{{nav.brand}}</header>`,
	"footer": `<footer>{{footer}}</footer>`,
}

// StandardPages is a small page tree with one nested section.
var StandardPages = map[string]string{
	"index.hbs":       `<h1>{{title}}</h1>{{> footer}}`,
	"about.hbs":       `<h1>About {{pageName}}</h1>`,
	"docs/guide.hbs":  `<h1>Guide</h1><a href="{{assets}}">home</a>`,
	"docs/api/v1.hbs": `<h1>API</h1>`,
}

// StandardData is the data.json and nav.json content of the standard project.
var StandardData = map[string]string{
	"data.json": `{"title": "Brandscale", "footer": "(c) Brandscale"}`,
	"nav.json":  `{"nav": {"brand": "BRAND"}}`,
}

// StandardConfig is a .pagesmith.yml for the standard project.
const StandardConfig = `defaults:
  layout: src/templates/layouts/layout-basic.hbs
  partials:
    - src/templates/partials/*.hbs
  data:
    - src/data/*.json
targets:
  project:
    options:
      assets: dist/assets
    files:
      - dest: dist
        src:
          - src/templates/pages/**/*.hbs
`

// CreateTempProject writes the standard project into a temporary directory
// and returns its root.
func CreateTempProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	WriteFile(t, root, "src/templates/layouts/layout-basic.hbs", StandardLayout)
	for name, content := range StandardPartials {
		WriteFile(t, root, filepath.Join("src/templates/partials", name+".hbs"), content)
	}
	for name, content := range StandardPages {
		WriteFile(t, root, filepath.Join("src/templates/pages", name), content)
	}
	for name, content := range StandardData {
		WriteFile(t, root, filepath.Join("src/data", name), content)
	}
	WriteFile(t, root, ".pagesmith.yml", StandardConfig)
	WriteFile(t, root, "dist/assets/css/site.css", "body{}")

	return root
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile returns the content of root/rel.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(raw)
}

// LoadConfig parses a YAML config with a fresh viper instance.
func LoadConfig(t *testing.T, yamlConfig string) *config.Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yamlConfig)))

	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	return cfg
}

// Chdir changes the working directory to dir and restores it when the test
// ends. It stands in for testing.T.Chdir, which needs Go 1.24.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
