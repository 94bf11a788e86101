package build

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a file-style name into a sentence-cased label:
// "layout-basic", "layout_basic" and "layoutBasic" all become "Layout basic".
// A trailing "_id" is dropped. Casing follows the rules of tag.
func Humanize(name string, tag language.Tag) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune('_')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}

	s := cases.Lower(tag).String(b.String())
	s = strings.TrimSuffix(s, "_id")
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '_' }), " ")
	if s == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(s)
	return cases.Upper(tag).String(string(first)) + s[size:]
}

// ParseLanguage parses a BCP 47 tag, falling back to language.Und.
func ParseLanguage(s string) (language.Tag, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
