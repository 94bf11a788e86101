// Package engine maps template file types to the engines that render them.
//
// An Engine compiles a layout into a Set. Partials are added to the Set, and
// every page is then rendered as the "body" partial of that layout.
package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/brandscale/pagesmith/internal/errors"
)

// BodyPartial is the partial name a page is registered under while its
// layout renders.
const BodyPartial = "body"

// Engine compiles template sources for one template language.
type Engine interface {
	Name() string
	// NewSet compiles the layout and returns a set that partials can be added to.
	NewSet(layoutName, layoutSource string) (Set, error)
}

// Set is a compiled layout plus the partials it can reference.
type Set interface {
	// AddPartial compiles and registers a partial. A later partial with the
	// same name replaces an earlier one. Partials cannot be added once the
	// set has rendered a page.
	AddPartial(name, source string) error
	// Render compiles the page, registers it as the body partial and
	// executes the layout against ctx.
	Render(pageName, pageSource string, ctx map[string]interface{}) (string, error)
}

// Registry resolves engines by name and by file extension.
type Registry struct {
	mu         sync.RWMutex
	engines    map[string]Engine
	extensions map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines:    make(map[string]Engine),
		extensions: make(map[string]string),
	}
}

// DefaultRegistry returns a registry with the Handlebars engine and its
// extensions registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	hb := NewHandlebars()
	r.Register(hb, "handlebars", "hbs", "hbt", "hb", "handlebar", "mustache")
	return r
}

// Register adds an engine and maps the given file extensions to it.
func (r *Registry) Register(e Engine, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
	for _, ext := range extensions {
		r.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = e.Name()
	}
}

// Get returns the engine registered under name.
func (r *Registry) Get(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[strings.ToLower(name)]
	return e, ok
}

// ForExtension returns the engine name for a file extension, or "".
func (r *Registry) ForExtension(ext string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the engine for a target: an explicit target engine first,
// then the options engine, then the engine registered for the extension of
// the first source file.
func (r *Registry) Resolve(targetEngine, optionEngine, firstSrcExt string) (Engine, error) {
	name := targetEngine
	if name == "" {
		name = optionEngine
	}
	if name == "" {
		name = r.ForExtension(firstSrcExt)
	}
	if name == "" {
		return nil, errors.ErrNoEngine("")
	}

	e, ok := r.Get(name)
	if !ok {
		return nil, errors.ErrNoEngine(name)
	}
	return e, nil
}
