package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing the user's OAuth token.
type TokenProvider interface {
	// Token retrieves the stored OAuth token.
	Token(ctx context.Context) (*oauth2.Token, error)

	// HasToken checks if a token is stored.
	HasToken() bool
}

// FileTokenProvider stores the token as JSON on disk.
type FileTokenProvider struct {
	path string
}

var _ TokenProvider = (*FileTokenProvider)(nil)

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// Path returns the token file location.
func (p *FileTokenProvider) Path() string {
	return p.path
}

// Token reads the token file.
func (p *FileTokenProvider) Token(_ context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", p.path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("invalid token file %s: no access or refresh token", p.path)
	}
	return &tok, nil
}

// HasToken checks if the token file exists.
func (p *FileTokenProvider) HasToken() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// Save writes the token, creating the parent directory if needed.
func (p *FileTokenProvider) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
