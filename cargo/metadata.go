package cargo

import (
	"encoding/json"
	"slices"
)

// ArtifactKind classifies a build artifact.
type ArtifactKind string

const (
	Binary  ArtifactKind = "bin"
	Library ArtifactKind = "lib"
)

// Artifact is one build output declared by a workspace member. Path is the
// source entry point as reported by cargo, not the compiled output path.
type Artifact struct {
	Name string       `json:"name"`
	Path string       `json:"path"`
	Kind ArtifactKind `json:"kind"`
}

// WorkspaceMember is one package that belongs to the workspace itself, as
// opposed to an external dependency.
type WorkspaceMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	Edition      string `json:"edition"`
	ManifestPath string `json:"manifest_path"`
}

// Metadata is the parsed result of one cargo-metadata invocation: a
// point-in-time, read-only snapshot. Members and artifacts appear in the
// order cargo reported them.
type Metadata struct {
	projectDir string
	raw        map[string]any

	WorkspaceMembers []WorkspaceMember
	Artifacts        []Artifact
}

// Shadow of the cargo-metadata JSON, limited to the fields extraction
// reads.
type metaDocument struct {
	Packages         []metaPackage `json:"packages"`
	WorkspaceMembers []string      `json:"workspace_members"`
}

type metaPackage struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Edition      string       `json:"edition"`
	ManifestPath string       `json:"manifest_path"`
	Targets      []metaTarget `json:"targets"`
}

type metaTarget struct {
	Name    string   `json:"name"`
	SrcPath string   `json:"src_path"`
	Kind    []string `json:"kind"`
}

// Classification is ordered: a target tagged both bin and lib counts as a
// binary. Targets matching no rule are skipped.
var artifactKinds = []struct {
	tag  string
	kind ArtifactKind
}{
	{"bin", Binary},
	{"lib", Library},
}

func classifyTarget(kinds []string) (ArtifactKind, bool) {
	for _, rule := range artifactKinds {
		if slices.Contains(kinds, rule.tag) {
			return rule.kind, true
		}
	}
	return "", false
}

// ParseMetadata extracts workspace members and their artifacts from
// cargo-metadata JSON. A package counts as a member iff its id appears in
// workspace_members; non-members contribute nothing. Member ids without a
// matching package entry are silently never emitted.
func ParseMetadata(projectDir string, data []byte) (*Metadata, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Source: projectDir, Err: err}
	}
	var doc metaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: projectDir, Err: err}
	}
	memberIDs := make(map[string]struct{}, len(doc.WorkspaceMembers))
	for _, id := range doc.WorkspaceMembers {
		memberIDs[id] = struct{}{}
	}
	md := &Metadata{projectDir: projectDir, raw: raw}
	for _, pkg := range doc.Packages {
		if _, ok := memberIDs[pkg.ID]; !ok {
			continue
		}
		md.WorkspaceMembers = append(md.WorkspaceMembers, WorkspaceMember{
			ID:           pkg.ID,
			Name:         pkg.Name,
			Version:      pkg.Version,
			Edition:      pkg.Edition,
			ManifestPath: pkg.ManifestPath,
		})
		for _, target := range pkg.Targets {
			kind, ok := classifyTarget(target.Kind)
			if !ok {
				continue
			}
			md.Artifacts = append(md.Artifacts, Artifact{
				Name: target.Name,
				Path: target.SrcPath,
				Kind: kind,
			})
		}
	}
	return md, nil
}

// ProjectDir returns the project directory the metadata was generated for.
func (md *Metadata) ProjectDir() string { return md.projectDir }

// Document returns the full metadata document as parsed. The typed views
// cover only a subset of it; callers needing other fields can read them
// here.
func (md *Metadata) Document() map[string]any { return md.raw }
