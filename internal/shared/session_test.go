package shared

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	headers := &CurlHeaders{
		Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
		Cookie:  "u_s=abc123; u_n=streamer",
	}

	if err := SaveSessionFile(path, headers); err != nil {
		t.Fatalf("SaveSessionFile() error = %v", err)
	}

	loaded, err := LoadSessionFile(path)
	if err != nil {
		t.Fatalf("LoadSessionFile() error = %v", err)
	}

	if loaded.Cookie != headers.Cookie {
		t.Errorf("cookie = %q, want %q", loaded.Cookie, headers.Cookie)
	}
	if loaded.Headers["User-Agent"] != "Mozilla/5.0" {
		t.Errorf("headers = %v", loaded.Headers)
	}
}

func TestLoadSessionFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	if _, err := LoadSessionFile(path); !errors.Is(err, ErrMissingSession) {
		t.Errorf("error = %v, want ErrMissingSession", err)
	}
}

func TestLoadSessionFile_NoCookie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := SaveSessionFile(path, &CurlHeaders{Headers: map[string]string{"Accept": "*/*"}}); err != nil {
		t.Fatalf("SaveSessionFile() error = %v", err)
	}

	if _, err := LoadSessionFile(path); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("error = %v, want ErrInvalidSession", err)
	}
}
