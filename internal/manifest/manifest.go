// Package manifest reads the project's package.json and answers dependency
// lookups against it.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Category names a dependency section of package.json.
type Category string

const (
	Runtime     Category = "dependencies"
	Development Category = "devDependencies"
	Peer        Category = "peerDependencies"
)

// Categories lists the sections in scan order.
var Categories = []Category{Runtime, Development, Peer}

// Entry is one declared dependency.
type Entry struct {
	Name      string
	Specifier string
}

// Manifest holds the three dependency sections of a package.json, each in
// declaration order.
type Manifest struct {
	Name     string
	sections map[Category]orderedEntries
}

type rawManifest struct {
	Name             string         `json:"name"`
	Dependencies     orderedEntries `json:"dependencies"`
	DevDependencies  orderedEntries `json:"devDependencies"`
	PeerDependencies orderedEntries `json:"peerDependencies"`
}

// Parse decodes package.json content.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &Manifest{
		Name: raw.Name,
		sections: map[Category]orderedEntries{
			Runtime:     raw.Dependencies,
			Development: raw.DevDependencies,
			Peer:        raw.PeerDependencies,
		},
	}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Entries returns the dependencies declared in category.
func (m *Manifest) Entries(c Category) []Entry {
	if m == nil {
		return nil
	}
	return m.sections[c]
}

// Lookup returns the specifier declared for name in category.
func (m *Manifest) Lookup(c Category, name string) (string, bool) {
	for _, e := range m.Entries(c) {
		if e.Name == name {
			return e.Specifier, true
		}
	}
	return "", false
}

// orderedEntries decodes a JSON object of string values keeping key order.
// Non-string values are skipped rather than failing the whole manifest.
type orderedEntries []Entry

func (o *orderedEntries) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependency section must be an object")
	}

	var out orderedEntries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		var spec string
		if err := json.Unmarshal(val, &spec); err != nil {
			continue
		}
		out = append(out, Entry{Name: key, Specifier: spec})
	}

	*o = out
	return nil
}
