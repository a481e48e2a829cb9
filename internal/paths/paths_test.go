package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "index.js")
	if err := os.WriteFile(file, []byte("require('x')"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{root, nested, file} {
		got, err := FindProjectRoot(start)
		if err != nil {
			t.Fatalf("FindProjectRoot(%q) error: %v", start, err)
		}
		if got != root {
			t.Errorf("FindProjectRoot(%q) = %q, want %q", start, got, root)
		}
	}
}

func TestFindProjectRoot_StateDir(t *testing.T) {
	root := t.TempDir()
	if _, err := EnsureStateDir(root); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(sub)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestManifestPath(t *testing.T) {
	root := filepath.FromSlash("/work/app")

	tests := []struct {
		manifest string
		want     string
	}{
		{"", filepath.Join(root, "package.json")},
		{"package.json", filepath.Join(root, "package.json")},
		{"packages/web/package.json", filepath.Join(root, "packages", "web", "package.json")},
	}

	for _, tt := range tests {
		if got := ManifestPath(root, tt.manifest); got != tt.want {
			t.Errorf("ManifestPath(%q) = %q, want %q", tt.manifest, got, tt.want)
		}
	}
}

func TestIsManifestFile(t *testing.T) {
	tests := map[string]bool{
		"package.json":         true,
		"/a/b/package.json":    true,
		`C:\proj\package.json`: true,
		"src/index.js":         false,
		"package.json.bak":     false,
		"tsconfig.json":        false,
	}
	for in, want := range tests {
		if got := IsManifestFile(in); got != want {
			t.Errorf("IsManifestFile(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStatePaths(t *testing.T) {
	root := t.TempDir()
	if got := ConfigPath(root); got != filepath.Join(root, ".pkgsrc", "config.json") {
		t.Errorf("ConfigPath() = %q", got)
	}
	if got := HistoryPath(root); got != filepath.Join(root, ".pkgsrc", "history.db") {
		t.Errorf("HistoryPath() = %q", got)
	}
}
