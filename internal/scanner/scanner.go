// Package scanner discovers template files and works out where each rendered
// page goes.
//
// Glob patterns are expanded with doublestar, so "**" matches any number of
// directories. A pattern starting with "!" removes its matches from the files
// collected so far.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand expands glob patterns into a list of regular files. Files appear in
// the order their first pattern matched them, each pattern's matches sorted,
// without duplicates.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if strings.HasPrefix(pattern, "!") {
			matches, err := glob(pattern[1:])
			if err != nil {
				return nil, err
			}
			excluded := make(map[string]bool, len(matches))
			for _, m := range matches {
				excluded[m] = true
				delete(seen, m)
			}
			kept := files[:0]
			for _, f := range files {
				if !excluded[f] {
					kept = append(kept, f)
				}
			}
			files = kept
			continue
		}

		matches, err := glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	return files, nil
}

func glob(pattern string) ([]string, error) {
	pattern = filepath.Clean(pattern)
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}

	cleaned := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(m))
	}
	sort.Strings(cleaned)
	return cleaned, nil
}

// Extension returns the text after the last dot of the file name, or "".
func Extension(path string) string {
	ext := filepath.Ext(filepath.Base(path))
	return strings.TrimPrefix(ext, ".")
}

// Name returns the file name without directory or extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BasePath returns the directory prefix stripped from every source path when
// computing its destination sub-directory.
//
// When expand is false the base is empty and sources keep their full
// directory. A non-empty override is cleaned and trimmed of separators.
// Otherwise the base is the longest directory prefix shared by all sources.
func BasePath(srcFiles []string, override string, expand bool) string {
	if !expand {
		return ""
	}

	if strings.TrimSpace(override) != "" {
		return strings.Trim(filepath.Clean(override), string(filepath.Separator))
	}

	var common []string
	for i, src := range srcFiles {
		segs := splitDir(filepath.Dir(filepath.Clean(src)))
		if i == 0 {
			common = segs
			continue
		}
		n := 0
		for n < len(common) && n < len(segs) && common[n] == segs[n] {
			n++
		}
		common = common[:n]
	}

	found := strings.Join(common, string(filepath.Separator))
	if found == "." {
		return ""
	}
	return found
}

// Relative returns the destination sub-directory for a source file's
// directory once base has been removed. Parent-directory segments are dropped
// so pages never land outside the destination.
func Relative(dir, base string) string {
	segs := splitDir(filepath.Clean(dir))
	if base != "" {
		baseSegs := splitDir(base)
		if i := indexSegments(segs, baseSegs); i >= 0 {
			segs = segs[i+len(baseSegs):]
		}
	}

	kept := make([]string, 0, len(segs))
	for _, s := range segs {
		if s == "" || s == "." || s == ".." {
			continue
		}
		kept = append(kept, s)
	}
	return filepath.Join(kept...)
}

func splitDir(dir string) []string {
	if dir == "" {
		return nil
	}
	return strings.Split(dir, string(filepath.Separator))
}

func indexSegments(haystack, needle []string) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
