package integration

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes content to name inside dir, replacing any previous file.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
