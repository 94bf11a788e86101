package scanner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PagePlan describes where one source template is rendered to.
type PagePlan struct {
	Src      string `json:"src" yaml:"src"`
	Name     string `json:"name" yaml:"name"`
	Relative string `json:"relative" yaml:"relative"`
	Dest     string `json:"dest" yaml:"dest"`
	// Assets is the URL path from the page's directory to the assets
	// directory. It ends in "/" unless both are the same directory, in which
	// case it is empty.
	Assets string `json:"assets" yaml:"assets"`
}

// PlanOptions controls how destinations are derived.
type PlanOptions struct {
	Dest     string
	BasePath string
	Assets   string
	Flatten  bool
}

// Plan computes the destination of every source file.
func Plan(srcFiles []string, opts PlanOptions) ([]PagePlan, error) {
	dest := filepath.Clean(opts.Dest)

	assetsDir := opts.Assets
	if assetsDir == "." || assetsDir == "" {
		assetsDir = dest
	}
	absAssets, err := filepath.Abs(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving assets directory %s: %w", assetsDir, err)
	}

	plans := make([]PagePlan, 0, len(srcFiles))
	for _, src := range srcFiles {
		src = filepath.Clean(src)

		relative := ""
		if !opts.Flatten {
			relative = Relative(filepath.Dir(src), opts.BasePath)
		}

		pageDir := filepath.Join(dest, relative)
		absPageDir, err := filepath.Abs(pageDir)
		if err != nil {
			return nil, fmt.Errorf("resolving page directory %s: %w", pageDir, err)
		}

		assets, err := AssetsURL(absPageDir, absAssets)
		if err != nil {
			return nil, err
		}

		name := Name(src)
		plans = append(plans, PagePlan{
			Src:      src,
			Name:     name,
			Relative: filepath.ToSlash(relative),
			Dest:     filepath.Join(pageDir, name+".html"),
			Assets:   assets,
		})
	}

	return plans, nil
}

// AssetsURL returns the slash-separated path from pageDir to assetsDir with a
// trailing slash, or "" when they are the same directory. "/" would resolve
// against the site root, so "" keeps {{assets}}css/site.css relative under
// file:// and under a deploy path other than the root.
func AssetsURL(pageDir, assetsDir string) (string, error) {
	rel, err := filepath.Rel(pageDir, assetsDir)
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", assetsDir, pageDir, err)
	}
	if rel == "." {
		return "", nil
	}
	return NormalizeURL(rel) + "/", nil
}

// NormalizeURL turns OS path separators into forward slashes.
func NormalizeURL(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
