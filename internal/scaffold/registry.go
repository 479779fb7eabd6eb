package scaffold

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
)

// Entry is the content source for one template path: either literal text or a
// generator taking a single identifier (an app or module name).
type Entry struct {
	text     string
	generate func(name string) string
}

// Static wraps literal template text.
func Static(text string) Entry {
	return Entry{text: text}
}

// Generated wraps a content generator parameterized by one name.
func Generated(fn func(name string) string) Entry {
	return Entry{generate: fn}
}

// IsGenerated reports whether the entry needs a name to render.
func (e Entry) IsGenerated() bool {
	return e.generate != nil
}

// Render produces the template text; name is ignored by static entries.
func (e Entry) Render(name string) string {
	if e.generate != nil {
		return e.generate(name)
	}
	return e.text
}

// Registry maps template paths to entries. It is filled once when a flavor is
// loaded, frozen, and read-only afterwards.
type Registry struct {
	name    string
	entries map[string]Entry
	frozen  bool
}

func NewRegistry(name string) *Registry {
	return &Registry{name: name, entries: make(map[string]Entry)}
}

func (r *Registry) Name() string {
	return r.name
}

// Register adds an entry. Registering an invalid or duplicate path, or
// registering after Freeze, is a programming defect and panics.
func (r *Registry) Register(p string, e Entry) *Registry {
	if r.frozen {
		panic(fmt.Sprintf("scaffold: register %q on frozen registry %s", p, r.name))
	}
	clean, err := CleanPath(p)
	if err != nil || clean == "" {
		panic(fmt.Sprintf("scaffold: invalid template path %q in registry %s", p, r.name))
	}
	if _, dup := r.entries[clean]; dup {
		panic(fmt.Sprintf("scaffold: duplicate template path %q in registry %s", clean, r.name))
	}
	r.entries[clean] = e
	return r
}

// Freeze forbids further registration.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Lookup returns the entry for p, or a KindTemplate error wrapping
// ErrNoTemplate with the closest registered paths as suggestions.
func (r *Registry) Lookup(p string) (Entry, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return Entry{}, err
	}
	if e, ok := r.entries[clean]; ok {
		return e, nil
	}
	return Entry{}, &Error{
		Kind:        KindTemplate,
		Op:          "lookup in " + r.name,
		Path:        clean,
		Err:         ErrNoTemplate,
		Suggestions: r.Suggest(clean, 3),
	}
}

// Render looks p up and renders it with name.
func (r *Registry) Render(p, name string) (string, error) {
	e, err := r.Lookup(p)
	if err != nil {
		return "", err
	}
	return e.Render(name), nil
}

// Has reports whether p is registered.
func (r *Registry) Has(p string) bool {
	_, err := r.Lookup(p)
	return err == nil
}

// Paths returns every registered path, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.entries))
	for p := range r.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to limit registered paths that fuzzy-match query, best first.
func (r *Registry) Suggest(query string, limit int) []string {
	paths := r.Paths()
	matches := fuzzy.Find(query, paths)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
