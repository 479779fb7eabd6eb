package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Flavor    string    `json:"flavor"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps entries newest first in one JSON file.
type Store struct {
	path string
}

// Default is ~/.pyscaffold/history.json.
func Default() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(home, ".pyscaffold", "history.json")), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt file is treated as empty and rewritten on the next Add.
		return []Entry{}, nil
	}
	return entries, nil
}

func (s *Store) Save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *Store) Add(name, path, flavor string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	newEntry := Entry{
		Name:      name,
		Path:      path,
		Flavor:    flavor,
		CreatedAt: time.Now(),
	}
	entries = append([]Entry{newEntry}, entries...)
	return s.Save(entries)
}

// DeleteOld drops entries older than days and returns how many went.
func (s *Store) DeleteOld(days int) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var kept []Entry
	for _, e := range entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	if kept == nil {
		kept = []Entry{}
	}
	return len(entries) - len(kept), s.Save(kept)
}

func (s *Store) DeleteOne(index int) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return nil
	}
	entries = append(entries[:index], entries[index+1:]...)
	return s.Save(entries)
}
