// Package statefile persists small JSON snapshots under the user's config
// directory. A missing or unparsable snapshot is never an error: the caller
// gets ok=false and starts from an empty state.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Dir is a snapshot directory on disk.
type Dir struct {
	path string
}

// DefaultDir resolves the bookstore state directory:
// $XDG_CONFIG_HOME/bookstore, else ~/.config/bookstore.
func DefaultDir() Dir {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return Dir{path: filepath.Join(v, "bookstore")}
	}
	home, _ := os.UserHomeDir()
	return Dir{path: filepath.Join(home, ".config", "bookstore")}
}

// NewDir returns a Dir rooted at path (used by tests and -state overrides).
func NewDir(path string) Dir { return Dir{path: path} }

// Path returns the directory path.
func (d Dir) Path() string { return d.path }

func (d Dir) file(name string) string { return filepath.Join(d.path, name+".json") }

// Save writes v as indented JSON, creating the directory if needed.
func (d Dir) Save(name string, v any) error {
	if err := os.MkdirAll(d.path, 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(d.file(name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Load reads the named snapshot into v. ok is false when the file is absent
// or does not parse; v is left untouched in that case.
func (d Dir) Load(name string, v any) (ok bool) {
	b, err := os.ReadFile(d.file(name))
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

// Remove deletes the named snapshot. Removing a snapshot that does not exist
// is not an error.
func (d Dir) Remove(name string) error {
	err := os.Remove(d.file(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
