// Where: internal/infra/fileops/file_ops_test.go
// What: Tests for partial-file copies.
// Why: A crashed copy must never leave a truncated file under the final name.
package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCopyToFileWritesThroughPartial(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "model.safetensors")

	n, err := CopyToFile(dest, strings.NewReader("weights"))
	if err != nil || n != 7 {
		t.Fatalf("CopyToFile: n=%d err=%v", n, err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "weights" {
		t.Fatalf("unexpected content %q", got)
	}
	if _, err := os.Stat(partialPath(dest)); !os.IsNotExist(err) {
		t.Fatalf("partial file must not remain")
	}
}

func TestCopyToFileTruncatesStalePartial(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "tokenizer.json")
	if err := os.WriteFile(partialPath(dest), []byte("stale data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := CopyToFile(dest, strings.NewReader("new")); err != nil {
		t.Fatalf("CopyToFile: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "new" {
		t.Fatalf("unexpected content %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestCopyToFileReadErrorLeavesDestAbsent(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "config.json")
	if _, err := CopyToFile(dest, failingReader{}); err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("dest must not exist after a failed copy")
	}
}
