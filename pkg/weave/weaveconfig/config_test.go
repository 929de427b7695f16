package weaveconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	l, err := New("", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := l.LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.TLS != nil {
		t.Fatalf("expected no TLS config by default")
	}
}

func TestLoadServerConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "SERVER_ADDR=:9090\nSERVER_SHUTDOWN_TIMEOUT=5s\nSERVER_BODY_LIMIT=1MB\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	l, err := New(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := l.LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.Addr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.BodyLimit != 1024*1024 {
		t.Fatalf("expected 1MB, got %d", cfg.BodyLimit)
	}
}

func TestEnvVarOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SERVER_ADDR=:9090\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SERVER_ADDR", ":7070")

	l, err := New(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := l.LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected env override :7070, got %s", cfg.Addr)
	}
}

func TestRequiredMissingFileErrors(t *testing.T) {
	if _, err := New("/nonexistent/path/to/file.env", true); err == nil {
		t.Fatalf("expected error for missing required file")
	}
}

func TestOptionalMissingFileIsNotError(t *testing.T) {
	if _, err := New("/nonexistent/path/to/file.env", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
