package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenStore persists a single credential record to durable storage so that
// a token can be reused across process restarts. Implementations must
// round-trip the access token, token type and absolute expiry exactly.
//
// A failed Load is non-fatal to the authenticator: it falls through to a
// network token exchange. A failed Save is logged but does not invalidate
// the in-memory token.
type TokenStore interface {
	// Load returns the persisted token, or an error if none is available.
	Load() (*oauth2.Token, error)

	// Save persists the token, replacing any previous record.
	Save(tok *oauth2.Token) error
}

// FileTokenStore stores the token as a JSON record at a fixed path.
// oauth2.Token marshals its expiry as an absolute RFC 3339 timestamp, so
// validity can be judged correctly after a restart.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store backed by the file at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads and decodes the token record.
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}

	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token file %s holds no access token", s.path)
	}

	return &tok, nil
}

// Save writes the token record. The write goes through a temp file and a
// rename so a crash mid-write cannot leave a truncated record.
func (s *FileTokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	return nil
}
