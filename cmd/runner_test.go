package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
	tu "github.com/therealtombi/Rumble-Live-Ops/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config")
			}
			if runner.config.Session.BaseURL == "" {
				t.Error("default config should carry a base URL")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected stdout output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"status": "ok"}, true); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if !strings.Contains(output.String(), "\"status\": \"ok\"") {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"status": "ok"}, false); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if !strings.Contains(output.String(), `{"status":"ok"}`) {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("done: %d\n", 3); err != nil {
				t.Fatalf("writePlain() error = %v", err)
			}
			if output.String() != "done: 3\n" {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writePlain("x"); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		commands := runner.register()

		if len(commands) != 5 {
			t.Fatalf("registered %d commands, want 5", len(commands))
		}

		names := make(map[string]bool)
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "directory", "playlist", "raid", "serve"} {
			if !names[want] {
				t.Errorf("missing command %q", want)
			}
		}
	})

	t.Run("requireService", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if _, err := runner.requireService(); err == nil {
			t.Error("expected missing session error without a service")
		}
	})
}

func TestCollectTargets(t *testing.T) {
	t.Run("reads targets file skipping blanks and comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "targets.txt")
		content := "https://rumble.com/v1-a.html\n\n# backlog\nhttps://rumble.com/v2-b.html\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write targets file: %v", err)
		}

		targets, err := readTargetsFile(path)
		if err != nil {
			t.Fatalf("readTargetsFile() error = %v", err)
		}
		if len(targets) != 2 {
			t.Fatalf("targets = %v, want 2 entries", targets)
		}
		if targets[0] != "https://rumble.com/v1-a.html" || targets[1] != "https://rumble.com/v2-b.html" {
			t.Errorf("targets = %v", targets)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := readTargetsFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
