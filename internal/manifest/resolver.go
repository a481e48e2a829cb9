package manifest

import (
	"log/slog"
	"strings"

	"pkgsrc/internal/normalize"
	"pkgsrc/internal/slogutil"
)

// Resolver answers "is this module declared as a source-control dependency"
// by re-reading the manifest on every call.
type Resolver struct {
	path   string
	logger *slog.Logger
}

// NewResolver creates a Resolver for the manifest at path.
func NewResolver(path string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Resolver{path: path, logger: logger}
}

// Path returns the manifest location.
func (r *Resolver) Path() string {
	return r.path
}

// Resolve returns a browsable URL when name is a runtime dependency whose
// specifier points at a git source. A missing or malformed manifest is
// reported as no match.
func (r *Resolver) Resolve(name string) (string, bool) {
	m, err := Load(r.path)
	if err != nil {
		r.logger.Debug("Manifest unavailable, skipping", "path", r.path, "error", err.Error())
		return "", false
	}

	spec, ok := m.Lookup(Runtime, name)
	if !ok || !strings.Contains(spec, "git") {
		return "", false
	}

	url, ok := normalize.URL(spec)
	if !ok {
		r.logger.Debug("Manifest specifier is not browsable", "module", name, "specifier", spec)
		return "", false
	}
	return url, true
}
