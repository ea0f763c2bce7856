// Package credstore persists the Dry.ai credential between process runs so
// callers authenticate once, not per invocation. The default location is
// ~/.dry/credentials.json, written 0600 since it holds a bearer token.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drydotai/dry-go/client/internal/types"
)

const (
	dirName  = ".dry"
	fileName = "credentials.json"
)

// Store reads and writes one credential file.
type Store struct {
	path string
}

// New returns a store rooted at path, or at the default location when path
// is empty. The file need not exist yet.
func New(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path}, nil
}

// DefaultPath returns ~/.dry/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Path returns the file the store operates on.
func (s *Store) Path() string { return s.path }

// Load reads the stored credential. A missing file is not an error: it
// returns (nil, nil), meaning no credential has been saved yet.
func (s *Store) Load() (*types.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	var cred types.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", s.path, err)
	}
	if cred.Token == "" {
		return nil, nil
	}
	return &cred, nil
}

// Save writes the credential, creating the parent directory on demand.
func (s *Store) Save(cred *types.Credential) error {
	if cred == nil || cred.Token == "" {
		return fmt.Errorf("refusing to save empty credential")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
