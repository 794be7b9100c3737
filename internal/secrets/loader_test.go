package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  s3cret \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	secret, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "s3cret" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", " from-env ")

	secret, err := Load(Source{Name: "api key", Env: "TEST_API_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-env" {
		t.Fatalf("unexpected secret: %q", secret)
	}
}

func TestLoadFilePrecedesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-value"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("TEST_API_KEY", "env-value")

	secret, err := Load(Source{File: path, Env: "TEST_API_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "file-value" {
		t.Fatalf("expected file to win, got %q", secret)
	}
}

func TestLoadEmptySources(t *testing.T) {
	if _, err := Load(Source{Name: "gemini api key"}); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(Source{File: path}); err == nil {
		t.Fatal("expected error for empty file")
	}
}
