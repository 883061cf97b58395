package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists a session as JSON at Path. It implements Restorer.
type FileStore struct {
	Path string
}

// DefaultFileStore keeps the session under the user's config directory.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileStore{Path: filepath.Join(dir, "trainer-link", "session.json")}, nil
}

// Restore reads the saved session. A missing file is not an error.
func (f *FileStore) Restore(_ context.Context) (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("read session %s: %w", f.Path, err)
	}
	return &s, nil
}

// Save writes s readable by the owner only.
func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the saved session.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Persist keeps the store in sync with m: a signed-in state is saved and a
// signed-out one clears the file. States before Start finishes are ignored.
// The returned func stops syncing.
func (f *FileStore) Persist(m *Manager, onErr func(error)) (stop func()) {
	return m.Subscribe(func(st State) {
		if st.Loading {
			return
		}
		var err error
		if st.Session != nil {
			err = f.Save(*st.Session)
		} else {
			err = f.Clear()
		}
		if err != nil && onErr != nil {
			onErr(err)
		}
	})
}
