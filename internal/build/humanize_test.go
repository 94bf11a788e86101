package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"layout-basic", "Layout basic"},
		{"layout_basic", "Layout basic"},
		{"layoutBasic", "Layout basic"},
		{"LAYOUT", "Layout"},
		{"  spaced   out ", "Spaced out"},
		{"user_id", "User"},
		{"page2Column", "Page2 column"},
		{"", ""},
		{"--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Humanize(tt.in, language.English))
		})
	}
}

func TestHumanizeLanguageCasing(t *testing.T) {
	assert.Equal(t, "Istanbul map", Humanize("istanbul-map", language.English))
	assert.Equal(t, "İstanbul map", Humanize("istanbul-map", language.Turkish))
}

func TestParseLanguage(t *testing.T) {
	tag, ok := ParseLanguage("en-us")
	assert.True(t, ok)
	assert.Equal(t, "en-US", tag.String())

	tag, ok = ParseLanguage("not a tag!")
	assert.False(t, ok)
	assert.Equal(t, language.Und, tag)
}
