package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	if CountTokens("") != 0 {
		t.Fatalf("expected 0 tokens for empty input")
	}
	if got := CountTokens("abc"); got != 1 {
		t.Fatalf("expected at least one token for short text, got %d", got)
	}
	if got := CountTokens(strings.Repeat("a", 400)); got != 100 {
		t.Fatalf("expected 100 tokens, got %d", got)
	}
}

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	p := filepath.Join(dir, "a.txt")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "two" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
