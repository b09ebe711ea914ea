package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists the session record across process restarts. Wipe
// must clear the entire session-scoped store, not just the record
// file, because live-session artifacts may be staged alongside it.
type Storage interface {
	Load() (data []byte, ok bool, err error)
	Save(data []byte) error
	Wipe() error
}

const recordFile = "session.json"

// FileStorage keeps the session record as a JSON file inside a
// dedicated state directory. The whole directory is session-scoped.
type FileStorage struct {
	dir string
}

// NewFileStorage returns storage rooted at the given directory.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (f *FileStorage) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, recordFile))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session record: %w", err)
	}
	return data, true, nil
}

func (f *FileStorage) Save(data []byte) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, recordFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

// Wipe removes the whole session directory and everything staged in
// it. Missing directories are not an error.
func (f *FileStorage) Wipe() error {
	if err := os.RemoveAll(f.dir); err != nil {
		return fmt.Errorf("failed to wipe session storage: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage used by tests.
type MemoryStorage struct {
	data    []byte
	present bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]byte, bool, error) {
	if !m.present {
		return nil, false, nil
	}
	return m.data, true, nil
}

func (m *MemoryStorage) Save(data []byte) error {
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

func (m *MemoryStorage) Wipe() error {
	m.data = nil
	m.present = false
	return nil
}
