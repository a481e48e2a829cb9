// Package resolver turns a module name into a browsable repository URL by
// consulting the built-in directory, the project manifest and the registry,
// in that order.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	pkgerrors "pkgsrc/internal/errors"
	"pkgsrc/internal/normalize"
	"pkgsrc/internal/slogutil"
)

// Source names the tier that produced a Resolution.
type Source string

const (
	SourceStdlib   Source = "stdlib"
	SourceManifest Source = "manifest"
	SourceRegistry Source = "registry"
)

// Resolution is a successful lookup.
type Resolution struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Candidate string `json:"candidate" yaml:"candidate" toml:"candidate"`
	URL       string `json:"url" yaml:"url" toml:"url"`
	Source    Source `json:"source" yaml:"source" toml:"source"`
}

// Stdlib is the built-in module directory.
type Stdlib interface {
	Lookup(name string) (string, bool)
}

// Manifest answers git-sourced dependency declarations. Returned URLs are
// already normalized.
type Manifest interface {
	Resolve(name string) (string, bool)
}

// Registry returns the raw repository URL published for name, or "" when the
// registry does not know name or it declares no repository.
type Registry interface {
	RepositoryURL(ctx context.Context, name string) (string, error)
}

// Resolver runs the precedence chain. Manifest may be nil.
type Resolver struct {
	stdlib   Stdlib
	manifest Manifest
	registry Registry
	logger   *slog.Logger
}

// New creates a Resolver.
func New(std Stdlib, man Manifest, reg Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Resolver{
		stdlib:   std,
		manifest: man,
		registry: reg,
		logger:   logger,
	}
}

// Resolve returns the repository URL for name.
//
// Failures are *errors.PkgsrcError with code EmptySelection,
// NoRepositoryFound, InvalidProjectURL or NetworkError.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Resolution, error) {
	if name == "" {
		return nil, pkgerrors.NewEmptySelection()
	}

	if r.stdlib != nil {
		if url, ok := r.stdlib.Lookup(name); ok {
			r.logger.Debug("Resolved built-in module", "module", name, "url", url)
			return &Resolution{Name: name, Candidate: name, URL: url, Source: SourceStdlib}, nil
		}
	}

	if r.manifest != nil {
		if url, ok := r.manifest.Resolve(name); ok {
			r.logger.Debug("Resolved from manifest", "module", name, "url", url)
			return &Resolution{Name: name, Candidate: name, URL: url, Source: SourceManifest}, nil
		}
	}

	return r.resolveRegistry(ctx, name)
}

// resolveRegistry queries the registry for name, then for each shorter prefix
// ending before a "/". Requests are strictly sequential.
func (r *Resolver) resolveRegistry(ctx context.Context, name string) (*Resolution, error) {
	candidate := name
	for candidate != "" {
		raw, err := r.registry.RepositoryURL(ctx, candidate)
		if err != nil {
			r.logger.Warn("Registry request failed", "module", candidate, "error", err.Error())
			return nil, pkgerrors.NewNetworkError(candidate, err)
		}

		if raw != "" {
			url, ok := normalize.URL(raw)
			if !ok {
				return nil, pkgerrors.NewInvalidProjectURL(candidate, raw)
			}
			r.logger.Debug("Resolved from registry", "module", name, "candidate", candidate, "url", url)
			return &Resolution{Name: name, Candidate: candidate, URL: url, Source: SourceRegistry}, nil
		}

		candidate = shorten(candidate)
		if candidate != "" {
			r.logger.Debug("No repository, retrying with shorter name", "module", name, "candidate", candidate)
		}
	}

	return nil, pkgerrors.NewNoRepositoryFound(name)
}

// shorten drops everything from the last "/" on. A name without a "/" (or
// with only a leading one) shortens to "".
func shorten(name string) string {
	idx := strings.LastIndex(name, "/")
	if idx <= 0 {
		return ""
	}
	return name[:idx]
}
