package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// WriteBatchFile writes one text per line into a batch file under a
// temporary directory and returns its path
func WriteBatchFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "batch.txt")
	CreateTestFile(t, path, []byte(strings.Join(lines, "\n")+"\n"))
	return path
}

// AssertContains checks that s contains every substring, in order
func AssertContains(t *testing.T, s string, substrings ...string) {
	t.Helper()

	rest := s
	for _, sub := range substrings {
		idx := strings.Index(rest, sub)
		if idx < 0 {
			t.Errorf("Expected %q to contain %q (in order)", s, sub)
			return
		}
		rest = rest[idx+len(sub):]
	}
}
