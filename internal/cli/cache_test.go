package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheUsage(t *testing.T) {
	dir := t.TempDir()

	count, size, err := cacheUsage(dir)
	if err != nil {
		t.Fatalf("cacheUsage() on empty dir error: %v", err)
	}
	if count != 0 || size != 0 {
		t.Errorf("empty cache: got count=%d size=%d, want 0, 0", count, size)
	}

	sub := filepath.Join(dir, "layouts")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a.json"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.json"), []byte("1234567890"), 0o644); err != nil {
		t.Fatal(err)
	}

	count, size, err = cacheUsage(dir)
	if err != nil {
		t.Fatalf("cacheUsage() error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if size != 15 {
		t.Errorf("size = %d, want 15", size)
	}
}

func TestCacheUsageMissingDir(t *testing.T) {
	count, size, err := cacheUsage(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("cacheUsage() on missing dir error: %v", err)
	}
	if count != 0 || size != 0 {
		t.Errorf("missing cache dir: got count=%d size=%d, want 0, 0", count, size)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
