package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amishk599/jobalert/internal/model"
)

// seenFile is the on-disk shape of the seen-state file.
type seenFile struct {
	IDs []string `json:"ids"`
}

// FileStore persists the seen-set as a JSON document.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The file is not
// touched until Load or Save is called.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the seen-set. A missing file yields an empty set; a file that
// exists but cannot be parsed yields a *model.CorruptStateError.
func (s *FileStore) Load() (*model.SeenSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewSeenSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seen state: %w", err)
	}

	var f seenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &model.CorruptStateError{Path: s.path, Err: err}
	}
	return model.NewSeenSet(f.IDs...), nil
}

// Save writes the set sorted and indented. The write goes to a temp file in
// the same directory which is synced and then renamed over the target, so a
// crash never leaves a half-written file behind.
func (s *FileStore) Save(set *model.SeenSet) error {
	data, err := json.MarshalIndent(seenFile{IDs: set.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write seen state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync seen state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close seen state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace seen state: %w", err)
	}
	return nil
}
