// Package cargo reads, edits and writes Cargo.toml manifests and extracts
// workspace members and build artifacts from cargo-metadata output.
//
// The manifest model is deliberately partial: it types only the fields the
// tooling needs (package identity, workspace layout, dependencies, bin
// targets) and carries everything else verbatim, so a read-modify-write
// cycle never drops or corrupts fields it does not understand.
package cargo

import (
	"fmt"
	"maps"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the well-known file name of a Cargo manifest.
const ManifestName = "Cargo.toml"

// Manifest is a partially-typed view of one Cargo.toml. The full parsed
// document is retained internally; Package, Workspace, Dependencies and Bin
// are typed overlays whose current values win over the retained document
// when the manifest is serialized. Replace a section wholesale to edit it;
// set it to nil to leave the underlying document's section as read.
type Manifest struct {
	path string
	raw  map[string]any

	Package      *Package
	Workspace    *Workspace
	Dependencies *Dependencies
	Bin          []Bin
}

// ReadManifest reads and parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseManifest(path, data)
}

// ParseManifest parses manifest TOML. path is recorded as the manifest's
// location and used in error messages; it is not accessed.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	return NewManifest(path, raw)
}

// NewManifest builds a Manifest from an already-parsed document. The
// recognized top-level keys (package, workspace, dependencies, bin) are
// split into typed sections; absent keys yield nil sections. A document
// with neither [package] nor [workspace] is rejected.
func NewManifest(path string, raw map[string]any) (*Manifest, error) {
	m := &Manifest{path: path, raw: raw}
	if value, ok := raw["package"]; ok {
		table, err := asTable(path, "package", value)
		if err != nil {
			return nil, err
		}
		pkg, err := packageFromRaw(path, "package", table, true)
		if err != nil {
			return nil, err
		}
		m.Package = pkg
	}
	if value, ok := raw["workspace"]; ok {
		table, err := asTable(path, "workspace", value)
		if err != nil {
			return nil, err
		}
		ws, err := workspaceFromRaw(path, table)
		if err != nil {
			return nil, err
		}
		m.Workspace = ws
	}
	if value, ok := raw["dependencies"]; ok {
		table, err := asTable(path, "dependencies", value)
		if err != nil {
			return nil, err
		}
		m.Dependencies = &Dependencies{Data: table}
	}
	if value, ok := raw["bin"]; ok {
		bins, err := binsFromRaw(path, value)
		if err != nil {
			return nil, err
		}
		m.Bin = bins
	}
	if m.Package == nil && m.Workspace == nil {
		return nil, &InvalidManifestError{Path: path, Reason: "missing both [package] and [workspace]"}
	}
	return m, nil
}

// Path returns the location the manifest was read from.
func (m *Manifest) Path() string { return m.path }

// Document merges the typed sections back over the retained document and
// returns the result. This is the only path to serialized output: a
// non-empty Bin list replaces the bin key, an empty one removes it; each
// non-nil section replaces its key; nil sections leave the document's key
// untouched.
func (m *Manifest) Document() map[string]any {
	doc := maps.Clone(m.raw)
	if doc == nil {
		doc = map[string]any{}
	}
	if len(m.Bin) > 0 {
		bins := make([]map[string]any, 0, len(m.Bin))
		for _, b := range m.Bin {
			bins = append(bins, b.toRaw())
		}
		doc["bin"] = bins
	} else {
		delete(doc, "bin")
	}
	if m.Package != nil {
		doc["package"] = m.Package.toRaw()
	}
	if m.Workspace != nil {
		doc["workspace"] = m.Workspace.toRaw()
	}
	if m.Dependencies != nil {
		doc["dependencies"] = m.Dependencies.toRaw()
	}
	return doc
}

// Encode serializes the merged document as TOML.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := toml.Marshal(m.Document())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", m.path, err)
	}
	return data, nil
}

// Save writes the merged document to path, or back to the manifest's own
// location when path is empty. The target is overwritten whole.
func (m *Manifest) Save(path string) error {
	if path == "" {
		path = m.path
	}
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
