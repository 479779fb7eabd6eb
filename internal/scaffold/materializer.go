package scaffold

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/phravins/pyscaffold/pkg/utils"
)

// File is one resolved artifact, path relative to the root.
type File struct {
	Path    string
	Content string
}

// Report lists what a run touched, paths relative to the root.
type Report struct {
	Root    string
	Dirs    []string
	Files   []string
	Removed []string
}

// Render resolves every file of s through src without touching the disk.
// The first template or substitution error stops it.
func Render(s *Structure, src Source) ([]File, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	paths := s.Files()
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		content, err := src(p)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Content: content})
	}
	return files, nil
}

// Materializer writes structures below a root directory.
//
// Content is resolved for the whole structure before the first write, so a
// missing template or an unresolved placeholder leaves the disk untouched.
// I/O failures abort the run and are not rolled back: whatever was already
// written stays.
type Materializer struct {
	root   string
	logger *log.Logger
}

// NewMaterializer returns a materializer rooted at root. logger may be nil.
func NewMaterializer(root string, logger *log.Logger) *Materializer {
	return &Materializer{root: root, logger: logger}
}

func (m *Materializer) Root() string {
	return m.root
}

// Materialize creates the directories of s, parents first, then writes every
// file, overwriting what is there.
func (m *Materializer) Materialize(s *Structure, src Source) (*Report, error) {
	files, err := Render(s, src)
	if err != nil {
		return nil, err
	}

	report := &Report{Root: m.root}
	if err := m.ensure(""); err != nil {
		return report, err
	}
	for _, dir := range s.Dirs() {
		if err := m.ensure(dir); err != nil {
			return report, err
		}
		report.Dirs = append(report.Dirs, dir)
	}
	for _, f := range files {
		if err := m.WriteFile(f.Path, f.Content); err != nil {
			return report, err
		}
		report.Files = append(report.Files, f.Path)
	}
	return report, nil
}

// WriteFile writes one root-relative file, creating its parent directories.
func (m *Materializer) WriteFile(rel, content string) error {
	clean, err := CleanPath(rel)
	if err != nil {
		return err
	}
	full := m.abs(clean)
	if err := utils.EnsureDir(filepath.Dir(full)); err != nil {
		return Wrap(KindIO, "create directory", filepath.Dir(full), err)
	}
	if err := utils.WriteFile(full, []byte(content)); err != nil {
		return Wrap(KindIO, "write file", full, err)
	}
	m.debug("wrote file", "path", clean, "bytes", len(content))
	return nil
}

// RemoveStale deletes each root-relative path if present. Paths that do not
// exist are skipped; any other failure aborts.
func (m *Materializer) RemoveStale(paths ...string) ([]string, error) {
	var removed []string
	for _, p := range paths {
		clean, err := CleanPath(p)
		if err != nil {
			return removed, err
		}
		existed, err := utils.RemoveIfExists(m.abs(clean))
		if err != nil {
			return removed, Wrap(KindIO, "remove", m.abs(clean), err)
		}
		if existed {
			m.debug("removed stale file", "path", clean)
			removed = append(removed, clean)
		}
	}
	return removed, nil
}

func (m *Materializer) ensure(rel string) error {
	full := m.abs(rel)
	if err := utils.EnsureDir(full); err != nil {
		return Wrap(KindIO, "create directory", full, err)
	}
	if rel != "" {
		m.debug("created directory", "path", rel)
	}
	return nil
}

func (m *Materializer) abs(rel string) string {
	if rel == "" {
		return m.root
	}
	return filepath.Join(m.root, filepath.FromSlash(rel))
}

func (m *Materializer) debug(msg string, keyvals ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, keyvals...)
	}
}
