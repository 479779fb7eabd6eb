package scaffold

import (
	"sort"
	"strings"
)

// Source returns the final content of the file at a root-relative path.
type Source func(relPath string) (string, error)

type mount struct {
	base     string
	registry *Registry
	name     string
	resolver *Resolver
}

// Layout binds registries to directories of the output tree. A file is served
// by the mount with the longest base containing it; the key looked up in that
// registry is the path relative to the base.
type Layout struct {
	resolver *Resolver
	mounts   []mount
}

// NewLayout creates a layout whose mounts all share the run-wide bindings.
func NewLayout(resolver *Resolver) *Layout {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Layout{resolver: resolver}
}

// Mount serves files below base from reg. name is passed to generated entries
// and pairs add mount-local bindings such as the app name.
func (l *Layout) Mount(base string, reg *Registry, name string, pairs ...Pair) *Layout {
	clean, err := CleanPath(base)
	if err != nil {
		panic("scaffold: invalid mount base " + base)
	}
	l.mounts = append(l.mounts, mount{
		base:     clean,
		registry: reg,
		name:     name,
		resolver: l.resolver.With(pairs...),
	})
	sort.SliceStable(l.mounts, func(i, j int) bool {
		return len(l.mounts[i].base) > len(l.mounts[j].base)
	})
	return l
}

// Resolve renders and substitutes the file at relPath.
func (l *Layout) Resolve(relPath string) (string, error) {
	clean, err := CleanPath(relPath)
	if err != nil {
		return "", err
	}
	for _, m := range l.mounts {
		key, ok := within(m.base, clean)
		if !ok {
			continue
		}
		text, err := m.registry.Render(key, m.name)
		if err != nil {
			return "", err
		}
		return m.resolver.Apply(clean, text)
	}
	return "", &Error{Kind: KindTemplate, Op: "resolve", Path: clean, Err: ErrNoTemplate}
}

// Source adapts the layout to the materializer.
func (l *Layout) Source() Source {
	return l.Resolve
}

func within(base, p string) (string, bool) {
	if base == "" {
		return p, true
	}
	if strings.HasPrefix(p, base+"/") {
		return p[len(base)+1:], true
	}
	return "", false
}
