package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPort(t *testing.T) {
	t.Setenv("PHARMA_TEST_PORT", "70000")
	if _, err := Port("PHARMA_TEST_PORT", "8080"); err == nil {
		t.Fatal("expected error for out-of-range port")
	}

	t.Setenv("PHARMA_TEST_PORT", "")
	p, err := Port("PHARMA_TEST_PORT", "8080")
	if err != nil {
		t.Fatalf("Port failed: %v", err)
	}
	if p != "8080" {
		t.Fatalf("expected fallback 8080, got %s", p)
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("PHARMA_TEST_INT", "42")
	t.Setenv("PHARMA_TEST_BOOL", "yes")
	t.Setenv("PHARMA_TEST_DUR_SECONDS", "30")
	t.Setenv("PHARMA_TEST_DUR", "2h")
	t.Setenv("PHARMA_TEST_LIST", " a, ,b ")

	if got := Int("PHARMA_TEST_INT", 1); got != 42 {
		t.Fatalf("Int: expected 42, got %d", got)
	}
	if got := Int("PHARMA_TEST_MISSING", 7); got != 7 {
		t.Fatalf("Int fallback: expected 7, got %d", got)
	}
	if !Bool("PHARMA_TEST_BOOL", false) {
		t.Fatal("Bool: expected true")
	}
	if got := Duration("PHARMA_TEST_DUR_SECONDS", time.Minute); got != 30*time.Second {
		t.Fatalf("Duration seconds: got %s", got)
	}
	if got := Duration("PHARMA_TEST_DUR", time.Minute); got != 2*time.Hour {
		t.Fatalf("Duration: got %s", got)
	}
	list := List("PHARMA_TEST_LIST", "")
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Fatalf("List: got %v", list)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("PHARMA_DOTENV_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PHARMA_DOTENV_KEY", "")
	os.Unsetenv("PHARMA_DOTENV_KEY")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := String("PHARMA_DOTENV_KEY", ""); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
