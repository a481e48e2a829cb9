// Package stdlib is the directory of Node.js built-in modules and their
// documentation pages.
package stdlib

import (
	"sort"
	"strings"
)

// DefaultDocsBaseURL hosts the Node.js API documentation.
const DefaultDocsBaseURL = "https://nodejs.org/api"

var builtins = map[string]struct{}{
	"assert":         {},
	"buffer":         {},
	"child_process":  {},
	"cluster":        {},
	"console":        {},
	"crypto":         {},
	"dgram":          {},
	"dns":            {},
	"domain":         {},
	"events":         {},
	"fs":             {},
	"http":           {},
	"https":          {},
	"net":            {},
	"os":             {},
	"path":           {},
	"punycode":       {},
	"querystring":    {},
	"readline":       {},
	"stream":         {},
	"string_decoder": {},
	"tls":            {},
	"url":            {},
	"util":           {},
	"vm":             {},
	"zlib":           {},
}

// IsBuiltin reports whether name exactly matches a built-in module.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Names returns the built-in module names in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for n := range builtins {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DocsURL formats the documentation page for name under base.
func DocsURL(base, name string) string {
	if base == "" {
		base = DefaultDocsBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + name + ".html"
}

// Directory answers built-in lookups against a fixed documentation host.
type Directory struct {
	base string
}

// NewDirectory returns a Directory rooted at base (DefaultDocsBaseURL if empty).
func NewDirectory(base string) *Directory {
	if base == "" {
		base = DefaultDocsBaseURL
	}
	return &Directory{base: base}
}

// Lookup returns the documentation URL for a built-in module.
func (d *Directory) Lookup(name string) (string, bool) {
	if !IsBuiltin(name) {
		return "", false
	}
	return DocsURL(d.base, name), true
}
