package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	want := []string{
		"layout", "connections", "transition", "export",
		"watch", "play", "serve", "cache", "completion",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	want := filepath.Join("/tmp/custom-cache", appName)
	if dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestLayoutPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"family.json", "family.layout.json"},
		{"testdata/smith.json", "testdata/smith.layout.json"},
		{"noext", "noext.layout.json"},
	}

	for _, tt := range tests {
		if got := layoutPath(tt.input); got != tt.want {
			t.Errorf("layoutPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty defaults to svg", in: "", want: []string{"svg"}},
		{name: "single", in: "png", want: []string{"png"}},
		{name: "comma separated", in: "svg,png,dot", want: []string{"svg", "png", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
