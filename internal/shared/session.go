package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sessionFile is the on-disk form of an imported browser session.
type sessionFile struct {
	Headers map[string]string `json:"headers"`
	Cookie  string            `json:"cookie"`
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// SaveSessionFile writes imported session headers to path as JSON, creating
// parent directories as needed. The file is written 0600: it holds live
// authentication cookies.
func SaveSessionFile(path string, headers *CurlHeaders) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sessionFile{
		Headers: headers.Headers,
		Cookie:  headers.Cookie,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadSessionFile reads a previously imported browser session.
func LoadSessionFile(path string) (*CurlHeaders, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSession, path)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var stored sessionFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if stored.Cookie == "" {
		return nil, fmt.Errorf("%w: no cookie in session file", ErrInvalidSession)
	}

	return &CurlHeaders{Headers: stored.Headers, Cookie: stored.Cookie}, nil
}
