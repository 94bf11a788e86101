package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandscale/pagesmith/internal/errors"
)

func TestRegistryResolve(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name         string
		targetEngine string
		optEngine    string
		ext          string
		want         string
		wantCode     string
	}{
		{name: "extension mustache", ext: "mustache", want: "handlebars"},
		{name: "extension hbs with dot", ext: ".hbs", want: "handlebars"},
		{name: "extension case-insensitive", ext: "HBT", want: "handlebars"},
		{name: "option engine", optEngine: "handlebars", ext: "txt", want: "handlebars"},
		{name: "target wins over option", targetEngine: "handlebars", optEngine: "jade", want: "handlebars"},
		{name: "unknown extension", ext: "txt", wantCode: errors.ErrCodeNoEngine},
		{name: "unknown engine name", optEngine: "jade", ext: "mustache", wantCode: errors.ErrCodeNoEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := reg.Resolve(tt.targetEngine, tt.optEngine, tt.ext)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Name())
		})
	}

	assert.Equal(t, []string{"handlebars"}, reg.Names())
}

func TestHandlebarsRender(t *testing.T) {
	set, err := NewHandlebars().NewSet("layout", `<title>{{pageName}}</title><main>{{> body}}</main>{{> footer}}`)
	require.NoError(t, err)

	require.NoError(t, set.AddPartial("nav", `<nav>{{site.name}}</nav>`))
	require.NoError(t, set.AddPartial("footer", `<footer>old</footer>`))
	require.NoError(t, set.AddPartial("footer", `<footer>&copy; {{site.year}}</footer>`))

	ctx := map[string]interface{}{
		"pageName": "index",
		"site": map[string]interface{}{
			"name": "Brandscale",
			"year": 2013,
		},
		"html": "<b>bold</b>",
	}

	out, err := set.Render("index", `{{> nav}}<p>{{html}}</p><p>{{{html}}}</p>`, ctx)
	require.NoError(t, err)
	assert.Equal(t,
		`<title>index</title><main><nav>Brandscale</nav><p>&lt;b&gt;bold&lt;/b&gt;</p><p><b>bold</b></p></main><footer>&copy; 2013</footer>`,
		out)

	// A second page reuses the same set with a fresh body.
	ctx["pageName"] = "about"
	out, err = set.Render("about", `about us`, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "<main>about us</main>")
	assert.Contains(t, out, "<title>about</title>")
}

func TestHandlebarsErrors(t *testing.T) {
	hb := NewHandlebars()

	t.Run("bad layout", func(t *testing.T) {
		_, err := hb.NewSet("layout", `{{#if}}`)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeTemplateInvalid))
	})

	t.Run("bad partial", func(t *testing.T) {
		set, err := hb.NewSet("layout", `{{> body}}`)
		require.NoError(t, err)
		err = set.AddPartial("broken", `{{#each items}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `partial "broken"`)
	})

	t.Run("reserved body name", func(t *testing.T) {
		set, err := hb.NewSet("layout", `{{> body}}`)
		require.NoError(t, err)
		assert.Error(t, set.AddPartial(BodyPartial, "x"))
	})

	t.Run("missing partial", func(t *testing.T) {
		set, err := hb.NewSet("layout", `{{> body}}`)
		require.NoError(t, err)
		_, err = set.Render("index", `{{> sidebar}}`, map[string]interface{}{})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeRenderFailed))
		assert.True(t, errors.IsRecoverable(err))
	})

	t.Run("bad page", func(t *testing.T) {
		set, err := hb.NewSet("layout", `{{> body}}`)
		require.NoError(t, err)
		_, err = set.Render("index", `{{/if}}`, map[string]interface{}{})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeTemplateInvalid))
	})

	t.Run("frozen after render", func(t *testing.T) {
		set, err := hb.NewSet("layout", `{{> body}}`)
		require.NoError(t, err)
		_, err = set.Render("index", `hi`, map[string]interface{}{})
		require.NoError(t, err)
		assert.Error(t, set.AddPartial("late", "x"))
	})
}

func TestSetsAreIsolated(t *testing.T) {
	hb := NewHandlebars()

	a, err := hb.NewSet("a", `{{> body}}|{{> shared}}`)
	require.NoError(t, err)
	require.NoError(t, a.AddPartial("shared", "from-a"))

	b, err := hb.NewSet("b", `{{> body}}|{{> shared}}`)
	require.NoError(t, err)
	require.NoError(t, b.AddPartial("shared", "from-b"))

	outA, err := a.Render("p", "page", map[string]interface{}{})
	require.NoError(t, err)
	outB, err := b.Render("p", "page", map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, "page|from-a", outA)
	assert.Equal(t, "page|from-b", outB)
}
