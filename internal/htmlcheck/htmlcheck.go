// Package htmlcheck inspects rendered pages for local asset references that
// do not resolve to a file on disk.
package htmlcheck

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Reference is one asset reference found in a page.
type Reference struct {
	Tag  string
	Attr string
	URL  string
}

// attrsByTag lists the attributes inspected for each element.
var attrsByTag = map[string]string{
	"link":   "href",
	"a":      "href",
	"script": "src",
	"img":    "src",
	"source": "src",
}

// References returns the local references in the document, in document order.
// Surrounding whitespace is trimmed from each URL.
func References(content string) ([]Reference, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var refs []Reference
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if want, ok := attrsByTag[n.Data]; ok {
				for _, attr := range n.Attr {
					if attr.Key != want {
						continue
					}
					if val := strings.TrimSpace(attr.Val); isLocal(val) {
						refs = append(refs, Reference{Tag: n.Data, Attr: attr.Key, URL: val})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return refs, nil
}

// MissingAssets returns the local references in content whose target does not
// exist relative to pageDir. Each missing reference is reported once, sorted.
func MissingAssets(content, pageDir string) ([]string, error) {
	refs, err := References(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var missing []string
	for _, ref := range refs {
		if seen[ref.URL] {
			continue
		}
		seen[ref.URL] = true

		if _, err := os.Stat(resolve(pageDir, ref.URL)); os.IsNotExist(err) {
			missing = append(missing, ref.URL)
		}
	}

	sort.Strings(missing)
	return missing, nil
}

func isLocal(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "/") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// resolve drops the query and fragment and joins the path onto pageDir.
func resolve(pageDir, ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	return filepath.Join(pageDir, filepath.FromSlash(p))
}
