package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("{{title}}"), 0644))
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"pages/index.mustache",
		"pages/about.mustache",
		"pages/docs/intro.mustache",
		"pages/docs/deep/api.mustache",
		"pages/notes.txt",
		"partials/nav.mustache",
	)
	p := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	t.Run("single star stays in one directory", func(t *testing.T) {
		files, err := Expand([]string{p("pages/*.mustache")})
		require.NoError(t, err)
		assert.Equal(t, []string{p("pages/about.mustache"), p("pages/index.mustache")}, files)
	})

	t.Run("double star recurses", func(t *testing.T) {
		files, err := Expand([]string{p("pages/**/*.mustache")})
		require.NoError(t, err)
		assert.Len(t, files, 4)
		assert.Contains(t, files, p("pages/docs/deep/api.mustache"))
	})

	t.Run("duplicates keep first position", func(t *testing.T) {
		files, err := Expand([]string{p("partials/*.mustache"), p("**/*.mustache")})
		require.NoError(t, err)
		assert.Len(t, files, 5)
		assert.Equal(t, p("partials/nav.mustache"), files[0])
	})

	t.Run("negation removes matches", func(t *testing.T) {
		files, err := Expand([]string{p("pages/**/*.mustache"), "!" + p("pages/docs/**")})
		require.NoError(t, err)
		assert.Equal(t, []string{p("pages/about.mustache"), p("pages/index.mustache")}, files)
	})

	t.Run("literal path", func(t *testing.T) {
		files, err := Expand([]string{p("pages/notes.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{p("pages/notes.txt")}, files)
	})

	t.Run("no matches", func(t *testing.T) {
		files, err := Expand([]string{p("missing/*.hbs")})
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("directories are skipped", func(t *testing.T) {
		files, err := Expand([]string{p("pages/*")})
		require.NoError(t, err)
		assert.NotContains(t, files, p("pages/docs"))
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := Expand([]string{p("pages/[.mustache")})
		assert.Error(t, err)
	})
}

func TestExtensionAndName(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		name string
	}{
		{"src/pages/index.mustache", "mustache", "index"},
		{"layout-basic.hbs", "hbs", "layout-basic"},
		{"dir.v2/readme", "", "readme"},
		{"archive.tar.hb", "hb", "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ext, Extension(tt.path))
			assert.Equal(t, tt.name, Name(tt.path))
		})
	}
}

func TestBasePath(t *testing.T) {
	sep := string(filepath.Separator)
	j := filepath.Join

	tests := []struct {
		name     string
		src      []string
		override string
		expand   bool
		expected string
	}{
		{
			name:     "common prefix",
			src:      []string{j("src", "pages", "a.hbs"), j("src", "pages", "docs", "b.hbs")},
			expand:   true,
			expected: j("src", "pages"),
		},
		{
			name:     "single file",
			src:      []string{j("src", "pages", "a.hbs")},
			expand:   true,
			expected: j("src", "pages"),
		},
		{
			name:     "diverging trees",
			src:      []string{j("src", "a", "x.hbs"), j("src", "b", "y.hbs")},
			expand:   true,
			expected: "src",
		},
		{
			name:     "current directory",
			src:      []string{"a.hbs", "b.hbs"},
			expand:   true,
			expected: "",
		},
		{
			name:     "override trims separators",
			src:      []string{j("src", "pages", "a.hbs")},
			override: sep + j("src", "pages") + sep,
			expand:   true,
			expected: j("src", "pages"),
		},
		{
			name:     "expansion disabled",
			src:      []string{j("src", "pages", "a.hbs")},
			override: "src",
			expand:   false,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BasePath(tt.src, tt.override, tt.expand))
		})
	}
}

func TestRelative(t *testing.T) {
	j := filepath.Join

	tests := []struct {
		name     string
		dir      string
		base     string
		expected string
	}{
		{"same as base", j("src", "pages"), j("src", "pages"), ""},
		{"nested", j("src", "pages", "docs", "api"), j("src", "pages"), j("docs", "api")},
		{"base in the middle", j("themes", "src", "pages", "x"), j("src", "pages"), "x"},
		{"base not found", j("other", "dir"), j("src", "pages"), j("other", "dir")},
		{"partial segment is not a match", j("src", "pages2", "x"), j("src", "pages"), j("src", "pages2", "x")},
		{"parent segments dropped", j("..", "shared", "pages"), "", j("shared", "pages")},
		{"current dir", ".", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Relative(tt.dir, tt.base))
		})
	}
}
