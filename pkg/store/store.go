package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const xdgAppName = "syllabuser"

// Store is a durable client-side key-value store. Each key is a JSON file
// under the application's config directory. A fresh (empty) directory and a
// file holding malformed JSON are both treated as "key absent", never as a
// fatal condition.
type Store struct {
	Dir string
}

// New returns a store rooted at ~/.config/syllabuser.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(home, ".config", xdgAppName)}, nil
}

// NewAt returns a store rooted at an explicit directory.
func NewAt(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// Put writes v under key, creating the directory on first use.
func (s *Store) Put(key string, v any) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path(key), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Get reads key into out. It reports whether a usable value was present.
// Malformed JSON is evicted and reported as absent.
func (s *Store) Get(key string, out any) (bool, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		// Corrupt entries must not wedge the session.
		s.Delete(key)
		return false, nil
	}
	return true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
