package scaffold

import (
	"path"
	"sort"
	"strings"
)

// Structure describes the skeleton of a tree: for each directory, the ordered
// names of the files to create in it. A name may contain slashes
// ("core/config.py") and a name ending in "/" declares a directory only.
// The first invalid path recorded makes the whole structure invalid; see Err.
type Structure struct {
	order []string
	files map[string][]string
	err   error
}

func NewStructure() *Structure {
	return &Structure{files: make(map[string][]string)}
}

// Add appends files under dir ("" is the root).
func (s *Structure) Add(dir string, files ...string) *Structure {
	clean, err := CleanPath(dir)
	if err != nil {
		s.fail(err)
		return s
	}
	if _, ok := s.files[clean]; !ok {
		s.order = append(s.order, clean)
		s.files[clean] = nil
	}
	for _, f := range files {
		isDir := strings.HasSuffix(f, "/")
		name, err := CleanPath(f)
		if err != nil || name == "" {
			if err == nil {
				err = Errorf(KindConfig, "add file", path.Join(clean, f), "empty file name")
			}
			s.fail(err)
			continue
		}
		if isDir {
			name += "/"
		}
		if !containsString(s.files[clean], name) {
			s.files[clean] = append(s.files[clean], name)
		}
	}
	return s
}

// Under returns a copy of s with every directory moved below base.
func (s *Structure) Under(base string) *Structure {
	out := NewStructure()
	out.err = s.err
	for _, dir := range s.order {
		out.Add(path.Join(base, dir), s.files[dir]...)
	}
	return out
}

// Merge returns a new structure holding s followed by others.
func (s *Structure) Merge(others ...*Structure) *Structure {
	out := NewStructure()
	for _, src := range append([]*Structure{s}, others...) {
		if src == nil {
			continue
		}
		if src.err != nil {
			out.fail(src.err)
		}
		for _, dir := range src.order {
			out.Add(dir, src.files[dir]...)
		}
	}
	return out
}

// Err returns the first invalid path recorded while building.
func (s *Structure) Err() error {
	return s.err
}

// Dirs lists every directory the structure implies, including ancestors and
// directories implied by nested file names, parents before children. The
// root ("") is not listed.
func (s *Structure) Dirs() []string {
	seen := map[string]bool{"": true}
	var dirs []string
	addWithParents := func(d string) {
		var chain []string
		for d != "" && d != "." && !seen[d] {
			chain = append(chain, d)
			seen[d] = true
			d = path.Dir(d)
			if d == "." {
				d = ""
			}
		}
		for i := len(chain) - 1; i >= 0; i-- {
			dirs = append(dirs, chain[i])
		}
	}
	for _, dir := range s.order {
		addWithParents(dir)
		for _, f := range s.files[dir] {
			full := path.Join(dir, strings.TrimSuffix(f, "/"))
			if strings.HasSuffix(f, "/") {
				addWithParents(full)
			} else {
				addWithParents(parentOf(full))
			}
		}
	}
	sort.SliceStable(dirs, func(i, j int) bool { return depth(dirs[i]) < depth(dirs[j]) })
	return dirs
}

// Files lists every file path in insertion order, without duplicates.
func (s *Structure) Files() []string {
	seen := map[string]bool{}
	var out []string
	for _, dir := range s.order {
		for _, f := range s.files[dir] {
			if strings.HasSuffix(f, "/") {
				continue
			}
			full := path.Join(dir, f)
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
		}
	}
	return out
}

// Contains reports whether the structure creates file p.
func (s *Structure) Contains(p string) bool {
	return containsString(s.Files(), p)
}

func (s *Structure) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func parentOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
