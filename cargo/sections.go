package cargo

import (
	"fmt"
	"slices"
)

// Package is the typed view of a [package] or [workspace.package] table.
// Only name, version and edition are modeled; every other key rides along
// in Unhandled and is written back verbatim. Empty string means the key was
// absent.
type Package struct {
	Name      string
	Version   string
	Edition   string
	Unhandled map[string]any
}

// Workspace is the typed view of a [workspace] table. Only package and
// members are modeled.
type Workspace struct {
	Package   *Package
	Members   []string
	Unhandled map[string]any
}

// Dependencies carries a [dependencies] table as-is. Dependency syntax is
// too varied to model, so the table is read and written verbatim.
type Dependencies struct {
	Data map[string]any
}

// Bin is one [[bin]] entry: a named executable target.
type Bin struct {
	Name string
	Path string
}

func packageFromRaw(path, where string, table map[string]any, requireName bool) (*Package, error) {
	p := &Package{}
	var err error
	if p.Name, err = stringKey(path, where, table, "name"); err != nil {
		return nil, err
	}
	if p.Version, err = stringKey(path, where, table, "version"); err != nil {
		return nil, err
	}
	if p.Edition, err = stringKey(path, where, table, "edition"); err != nil {
		return nil, err
	}
	if requireName && p.Name == "" {
		return nil, &InvalidManifestError{Path: path, Reason: where + ".name is required"}
	}
	p.Unhandled = unhandledKeys(table, "name", "version", "edition")
	return p, nil
}

func (p *Package) toRaw() map[string]any {
	out := make(map[string]any, len(p.Unhandled)+3)
	for key, value := range p.Unhandled {
		if value == nil {
			continue
		}
		out[key] = value
	}
	if p.Name != "" {
		out["name"] = p.Name
	}
	if p.Version != "" {
		out["version"] = p.Version
	}
	if p.Edition != "" {
		out["edition"] = p.Edition
	}
	return out
}

func workspaceFromRaw(path string, table map[string]any) (*Workspace, error) {
	w := &Workspace{}
	if value, ok := table["package"]; ok {
		sub, err := asTable(path, "workspace.package", value)
		if err != nil {
			return nil, err
		}
		pkg, err := packageFromRaw(path, "workspace.package", sub, false)
		if err != nil {
			return nil, err
		}
		w.Package = pkg
	}
	if value, ok := table["members"]; ok {
		members, err := stringList(path, "workspace.members", value)
		if err != nil {
			return nil, err
		}
		w.Members = members
	}
	w.Unhandled = unhandledKeys(table, "package", "members")
	return w, nil
}

func (w *Workspace) toRaw() map[string]any {
	out := make(map[string]any, len(w.Unhandled)+2)
	for key, value := range w.Unhandled {
		if value == nil {
			continue
		}
		out[key] = value
	}
	if w.Package != nil {
		out["package"] = w.Package.toRaw()
	}
	if len(w.Members) > 0 {
		out["members"] = slices.Clone(w.Members)
	}
	return out
}

func (d *Dependencies) toRaw() map[string]any { return d.Data }

func binsFromRaw(path string, value any) ([]Bin, error) {
	entries, err := tableList(path, "bin", value)
	if err != nil {
		return nil, err
	}
	bins := make([]Bin, 0, len(entries))
	for _, entry := range entries {
		b, err := binFromRaw(path, entry)
		if err != nil {
			return nil, err
		}
		bins = append(bins, b)
	}
	return bins, nil
}

func binFromRaw(path string, entry map[string]any) (Bin, error) {
	for key := range entry {
		if key != "name" && key != "path" {
			return Bin{}, &InvalidManifestError{
				Path:   path,
				Reason: fmt.Sprintf("bin: unrecognized key %q", key),
			}
		}
	}
	name, err := requiredBinString(path, entry, "name")
	if err != nil {
		return Bin{}, err
	}
	srcPath, err := requiredBinString(path, entry, "path")
	if err != nil {
		return Bin{}, err
	}
	return Bin{Name: name, Path: srcPath}, nil
}

func (b Bin) toRaw() map[string]any {
	return map[string]any{"name": b.Name, "path": b.Path}
}

func requiredBinString(path string, entry map[string]any, key string) (string, error) {
	value, ok := entry[key]
	if !ok {
		return "", &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("bin entries require %q", key),
		}
	}
	s, ok := value.(string)
	if !ok {
		return "", &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("bin.%s: expected string, got %T", key, value),
		}
	}
	return s, nil
}

func asTable(path, where string, value any) (map[string]any, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return nil, &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("%s: expected table, got %T", where, value),
		}
	}
	return table, nil
}

// stringKey extracts table[key] as a string. Absent keys yield "".
func stringKey(path, where string, table map[string]any, key string) (string, error) {
	value, ok := table[key]
	if !ok {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("%s.%s: expected string, got %T", where, key, value),
		}
	}
	return s, nil
}

func stringList(path, where string, value any) ([]string, error) {
	switch list := value.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &InvalidManifestError{
					Path:   path,
					Reason: fmt.Sprintf("%s: expected array of strings, got element %T", where, item),
				}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("%s: expected array of strings, got %T", where, value),
		}
	}
}

// tableList accepts both shapes a TOML decoder may hand back for an array
// of tables.
func tableList(path, where string, value any) ([]map[string]any, error) {
	switch list := value.(type) {
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			table, ok := item.(map[string]any)
			if !ok {
				return nil, &InvalidManifestError{
					Path:   path,
					Reason: fmt.Sprintf("%s: expected array of tables, got element %T", where, item),
				}
			}
			out = append(out, table)
		}
		return out, nil
	default:
		return nil, &InvalidManifestError{
			Path:   path,
			Reason: fmt.Sprintf("%s: expected array of tables, got %T", where, value),
		}
	}
}

// unhandledKeys copies every key of table not claimed by a typed field.
// Together with the typed extraction this is total over the key set: each
// key lands in exactly one place.
func unhandledKeys(table map[string]any, recognized ...string) map[string]any {
	rest := make(map[string]any)
	for key, value := range table {
		if slices.Contains(recognized, key) {
			continue
		}
		rest[key] = value
	}
	return rest
}
