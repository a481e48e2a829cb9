// Package extract finds module references in editor text and reduces them to
// bare module names.
package extract

import (
	"regexp"
	"strings"

	"pkgsrc/internal/manifest"
)

// quotedModule is a single- or double-quoted path on one line that does not
// start with a dot, so relative paths are never returned.
const quotedModule = `(?:'[^.'\n][^'\n]*'|"[^."\n][^"\n]*")`

// referencePattern matches require('x') and import ... 'x'.
var referencePattern = regexp.MustCompile(`require\(` + quotedModule + `\)|import[^'"\n]*` + quotedModule)

var (
	requirePrefix = regexp.MustCompile(`^require(\(|\s)("|')`)
	importPrefix  = regexp.MustCompile(`^import.*?('|")`)
	quoteParen    = regexp.MustCompile(`("|')\)?$`)
	trailingQuote = regexp.MustCompile(`('|")$`)
	leadingQuote  = regexp.MustCompile(`^("|')`)
)

// References returns every module reference in text in order of appearance.
// An empty result is not an error.
func References(text string) []string {
	return referencePattern.FindAllString(text, -1)
}

// Clean reduces a raw reference to a bare module name.
//
//	require('lodash/map')        -> lodash/map
//	import { x } from "react"    -> react
//	'express'                    -> express
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = requirePrefix.ReplaceAllString(s, "")
	s = importPrefix.ReplaceAllString(s, "")
	s = quoteParen.ReplaceAllString(s, "")
	s = trailingQuote.ReplaceAllString(s, "")
	s = leadingQuote.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanAll cleans every reference, dropping those that clean to "".
func CleanAll(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if name := Clean(r); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Dedupe removes exact duplicates, keeping first-seen order.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ManifestKeys parses document as package.json and returns every dependency
// key that occurs in text. Each category is scanned independently, so a key
// declared in two sections is returned twice.
func ManifestKeys(document, text string) ([]string, error) {
	m, err := manifest.Parse([]byte(document))
	if err != nil {
		return nil, err
	}
	return KeysIn(m, text), nil
}

// KeysIn is ManifestKeys over an already parsed manifest.
func KeysIn(m *manifest.Manifest, text string) []string {
	if text == "" {
		return nil
	}
	var keys []string
	for _, c := range manifest.Categories {
		for _, e := range m.Entries(c) {
			if e.Name != "" && strings.Contains(text, e.Name) {
				keys = append(keys, e.Name)
			}
		}
	}
	return keys
}
