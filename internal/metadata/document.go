// Package metadata models the schema-less descriptive document that comes
// with a dataset. Every read goes through safe path navigation, so any
// field may be absent without callers having to check shapes.
package metadata

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Document is an immutable metadata tree. The zero Document is empty.
type Document struct {
	root Node
}

// FromMap wraps an already decoded map.
func FromMap(m map[string]any) Document {
	return Document{root: FromAny(m)}
}

// Parse decodes a JSON object.
func Parse(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Document{}, eris.Wrap(err, "metadata: decode json")
	}
	return FromMap(raw), nil
}

// ParseYAML decodes a YAML mapping.
func ParseYAML(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, eris.Wrap(err, "metadata: decode yaml")
	}
	return FromMap(raw), nil
}

// Load reads a metadata file, choosing the decoder by extension.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, eris.Wrapf(err, "metadata: read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return Parse(data)
}

func (d Document) Root() Node   { return d.root }
func (d Document) IsEmpty() bool { return !d.root.Present() }

// Lookup returns the first node at path. Missing segments yield false.
func (d Document) Lookup(path ...string) (Node, bool) {
	found := lookupAll(d.root, path)
	if len(found) == 0 {
		return Node{}, false
	}
	return found[0], true
}

// LookupAll returns every node reachable through path, expanding "[]"
// segments over lists.
func (d Document) LookupAll(path ...string) []Node {
	return lookupAll(d.root, path)
}

// Interface returns the document as plain Go maps, e.g. for JSON output.
func (d Document) Interface() map[string]any {
	m, _ := d.root.Interface().(map[string]any)
	return m
}
