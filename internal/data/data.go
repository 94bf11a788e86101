// Package data loads the site-wide data passed to every page.
//
// Data lives in JSON or YAML fragments. A fragment named "data" is merged
// into the root of the site data. Any other fragment is merged under a key
// named after its file, so src/data/nav.json becomes {{nav.*}} in templates.
// If such a fragment has a top-level key matching its own name, only that
// key's value is used, so nav.json may be written either as {"items": ...}
// or as {"nav": {"items": ...}}.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brandscale/pagesmith/internal/errors"
)

// RootName is the fragment name merged into the root of the site data.
const RootName = "data"

// Load reads every fragment in order and merges them into one map. When
// onFile is not nil it is called after each fragment has been merged.
func Load(paths []string, onFile func(path string)) (map[string]interface{}, error) {
	site := make(map[string]interface{})

	for _, path := range paths {
		fragment, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(site, FragmentName(path), fragment)
		if onFile != nil {
			onFile(path)
		}
	}

	return site, nil
}

// FragmentName returns the key a fragment is merged under.
func FragmentName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// ReadFile decodes one fragment. YAML is used for .yml and .yaml files and
// JSON for everything else.
func ReadFile(path string) (interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeReadFailed, "failed to read data file").WithFile(path)
	}

	var value interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(raw, &value)
	default:
		err = json.Unmarshal(raw, &value)
	}
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeDataInvalid,
			fmt.Sprintf("failed to parse data file: %v", err)).WithFile(path)
	}

	return normalize(value), nil
}

// Merge folds fragment into site following the naming convention.
func Merge(site map[string]interface{}, name string, fragment interface{}) {
	if name == RootName {
		if obj, ok := fragment.(map[string]interface{}); ok {
			for k, v := range obj {
				site[k] = v
			}
		}
		return
	}

	value := fragment
	if obj, ok := fragment.(map[string]interface{}); ok {
		if inner, ok := obj[name]; ok && truthy(inner) {
			value = inner
		}
	}

	site[name] = Extend(site[name], value)
}

// Extend shallow-merges src over dst when both are objects. Otherwise src
// replaces dst.
func Extend(dst, src interface{}) interface{} {
	srcObj, srcOK := src.(map[string]interface{})
	dstObj, dstOK := dst.(map[string]interface{})
	if !srcOK || !dstOK {
		if srcOK {
			out := make(map[string]interface{}, len(srcObj))
			for k, v := range srcObj {
				out[k] = v
			}
			return out
		}
		return src
	}

	out := make(map[string]interface{}, len(dstObj)+len(srcObj))
	for k, v := range dstObj {
		out[k] = v
	}
	for k, v := range srcObj {
		out[k] = v
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// normalize converts the map[interface{}]interface{} values yaml.v3 can
// produce for non-string keys into string-keyed maps templates can walk.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = normalize(inner)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[fmt.Sprint(k)] = normalize(inner)
		}
		return out
	case []interface{}:
		for i, inner := range t {
			t[i] = normalize(inner)
		}
		return t
	default:
		return v
	}
}
