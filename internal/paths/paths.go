package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// StateDirName holds per-project config and history.
	StateDirName = ".pkgsrc"

	// DefaultManifest is the dependency manifest read at the project root.
	DefaultManifest = "package.json"

	configFileName  = "config.json"
	historyFileName = "history.db"
)

// FindProjectRoot walks up from start until it finds a directory holding a
// package.json or a .pkgsrc directory. If none is found, start itself
// (made absolute) is returned.
func FindProjectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	dir := abs
	for {
		if exists(filepath.Join(dir, DefaultManifest)) || exists(filepath.Join(dir, StateDirName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// StateDir returns <root>/.pkgsrc.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir creates <root>/.pkgsrc if needed and returns it.
func EnsureStateDir(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigPath returns <root>/.pkgsrc/config.json.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), configFileName)
}

// HistoryPath returns <root>/.pkgsrc/history.db.
func HistoryPath(root string) string {
	return filepath.Join(StateDir(root), historyFileName)
}

// ManifestPath resolves the manifest location. Absolute paths are returned
// unchanged; relative ones are taken from the project root.
func ManifestPath(root string, manifest string) string {
	if manifest == "" {
		manifest = DefaultManifest
	}
	if filepath.IsAbs(manifest) {
		return manifest
	}
	return JoinRepoPath(root, manifest)
}

// IsManifestFile reports whether path names a dependency manifest.
func IsManifestFile(path string) bool {
	return filepath.Base(NormalizePath(path)) == DefaultManifest
}

// NormalizePath converts backslashes to forward slashes.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// JoinRepoPath joins a repo root with a canonical (forward-slash) path.
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	parts := strings.Split(NormalizePath(canonicalPath), "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
