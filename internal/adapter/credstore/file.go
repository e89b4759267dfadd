package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/iho/authgate/internal/domain"
)

// Fixed storage keys for the two persisted values.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// File persists the credential pair as a small JSON document, the durable
// client storage for CLI and desktop use. Writes are atomic (temp file
// plus rename) and last-writer-wins.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at the given path. The file is
// created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultFilePath returns the conventional credential file location under
// the user config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "authgate", "credentials.json"), nil
}

// Get reads the stored pair. A missing file yields an empty credential,
// not an error.
func (f *File) Get() (domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Credential{}, nil
		}
		return domain.Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Credential{}, fmt.Errorf("parse credential file: %w", err)
	}

	return domain.Credential{
		AccessToken:  stored[keyAccessToken],
		RefreshToken: stored[keyRefreshToken],
	}, nil
}

// Set overwrites the stored pair atomically.
func (f *File) Set(cred domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(map[string]string{
		keyAccessToken:  cred.AccessToken,
		keyRefreshToken: cred.RefreshToken,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace credential file: %w", err)
	}

	return nil
}

// Clear removes the credential file. Clearing an absent file is not an
// error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
