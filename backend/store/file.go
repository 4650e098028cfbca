package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const filePermissions = 0o644

// FileStore keeps each collection in <dir>/<name>.json.
type FileStore struct {
	fs  afero.Fs
	dir string
}

func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("store: stat data dir %q: %w", dir, err)
	}
	if !exists {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir %q: %w", dir, err)
		}
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	p := s.path(name)
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: read %q: %w", p, ErrMissing)
		}
		return fmt.Errorf("store: read %q: %w", p, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %q: %w", p, err)
	}
	return nil
}

// Save writes through a temporary file and a rename so readers never see a
// partially written document.
func (s *FileStore) Save(name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", name, err)
	}
	p := s.path(name)
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, filePermissions); err != nil {
		return fmt.Errorf("store: write %q: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("store: commit %q: %w", p, err)
	}
	return nil
}

func (s *FileStore) Ensure(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	exists, err := afero.Exists(s.fs, s.path(name))
	if err != nil {
		return fmt.Errorf("store: stat %q: %w", s.path(name), err)
	}
	if exists {
		return nil
	}
	return s.Save(name, emptyDocument(name))
}
