package cargo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleManifest = `
[package]
name = "acme"
version = "0.1.0"
edition = "2021"
authors = ["Alice <alice@example.com>"]
rust-version = "1.70"

[package.metadata.docs]
all-features = true

[dependencies]
anyhow = "1.0"
serde = { version = "1.0", features = ["derive"] }

[dev-dependencies]
pretty_assertions = "1"

[[bin]]
name = "acme"
path = "src/main.rs"

[[bin]]
name = "acme-admin"
path = "src/admin.rs"

[profile.release]
lto = true
opt-level = 3

[features]
default = ["std"]
std = []
`

func mustParse(t *testing.T, source string) *Manifest {
	t.Helper()
	m, err := ParseManifest("Cargo.toml", []byte(source))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	return m
}

func decodeTOML(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("reparsing output: %v", err)
	}
	return doc
}

func TestRoundTripPreservesUnknownFields(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := decodeTOML(t, out)
	want := decodeTOML(t, []byte(sampleManifest))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the document\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestPackageSplit(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	if m.Package == nil {
		t.Fatal("no package section")
	}
	if m.Package.Name != "acme" {
		t.Errorf("name = %q, want acme", m.Package.Name)
	}
	if m.Package.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", m.Package.Version)
	}
	if m.Package.Edition != "2021" {
		t.Errorf("edition = %q, want 2021", m.Package.Edition)
	}
	for _, key := range []string{"name", "version", "edition"} {
		if _, ok := m.Package.Unhandled[key]; ok {
			t.Errorf("unhandled contains recognized key %q", key)
		}
	}
	for _, key := range []string{"authors", "rust-version", "metadata"} {
		if _, ok := m.Package.Unhandled[key]; !ok {
			t.Errorf("unhandled missing key %q", key)
		}
	}
	if len(m.Bin) != 2 {
		t.Fatalf("len(bin) = %d, want 2", len(m.Bin))
	}
	if m.Bin[0] != (Bin{Name: "acme", Path: "src/main.rs"}) {
		t.Errorf("bin[0] = %+v", m.Bin[0])
	}
}

func TestSetVersionKeepsSiblingFields(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	m.Package.Version = "0.2.0"
	doc := m.Document()
	pkg, ok := doc["package"].(map[string]any)
	if !ok {
		t.Fatalf("package = %T, want table", doc["package"])
	}
	if pkg["version"] != "0.2.0" {
		t.Errorf("version = %v, want 0.2.0", pkg["version"])
	}
	if pkg["name"] != "acme" {
		t.Errorf("name = %v, want acme", pkg["name"])
	}
	if pkg["rust-version"] != "1.70" {
		t.Errorf("rust-version = %v, want 1.70", pkg["rust-version"])
	}
	if _, ok := pkg["metadata"]; !ok {
		t.Error("metadata table dropped")
	}
}

func TestTypedFieldsWinOverUnhandled(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	m.Package.Version = "1.0.0"
	m.Package.Unhandled["version"] = "9.9.9"
	doc := m.Document()
	pkg := doc["package"].(map[string]any)
	if pkg["version"] != "1.0.0" {
		t.Errorf("version = %v, want the typed value 1.0.0", pkg["version"])
	}
}

func TestClearedBinRemovesKey(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	m.Bin = nil
	doc := m.Document()
	if _, ok := doc["bin"]; ok {
		t.Error("bin key still present after clearing")
	}

	// A manifest that never had bin must not gain one either.
	m2 := mustParse(t, "[package]\nname = \"a\"\n")
	if _, ok := m2.Document()["bin"]; ok {
		t.Error("bin key introduced from nothing")
	}
}

func TestMutatedBinReplacesEntries(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	m.Bin = []Bin{{Name: "only", Path: "src/only.rs"}}
	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	reread := mustParse(t, string(out))
	if len(reread.Bin) != 1 {
		t.Fatalf("len(bin) = %d, want 1", len(reread.Bin))
	}
	if reread.Bin[0] != (Bin{Name: "only", Path: "src/only.rs"}) {
		t.Errorf("bin[0] = %+v", reread.Bin[0])
	}
}

func TestMissingPackageAndWorkspaceRejected(t *testing.T) {
	t.Parallel()
	_, err := ParseManifest("Cargo.toml", []byte("[dependencies]\nserde = \"1\"\n"))
	var invalid *InvalidManifestError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidManifestError", err)
	}
}

func TestWorkspaceOnlyManifest(t *testing.T) {
	t.Parallel()
	source := `
[workspace]
members = ["crates/a", "crates/b"]
resolver = "2"

[workspace.package]
version = "1.2.3"
edition = "2021"
`
	m := mustParse(t, source)
	if m.Package != nil {
		t.Errorf("package = %+v, want nil", m.Package)
	}
	if m.Workspace == nil {
		t.Fatal("no workspace section")
	}
	want := []string{"crates/a", "crates/b"}
	if !reflect.DeepEqual(m.Workspace.Members, want) {
		t.Errorf("members = %v, want %v", m.Workspace.Members, want)
	}
	if m.Workspace.Package == nil || m.Workspace.Package.Version != "1.2.3" {
		t.Errorf("workspace.package = %+v, want version 1.2.3", m.Workspace.Package)
	}
	if m.Workspace.Unhandled["resolver"] != "2" {
		t.Errorf("resolver = %v, want 2", m.Workspace.Unhandled["resolver"])
	}

	m.Workspace.Package.Version = "2.0.0"
	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	reread := mustParse(t, string(out))
	if reread.Workspace.Package.Version != "2.0.0" {
		t.Errorf("version after round trip = %q, want 2.0.0", reread.Workspace.Package.Version)
	}
	if reread.Workspace.Unhandled["resolver"] != "2" {
		t.Error("resolver dropped on round trip")
	}
}

func TestEmptyWorkspaceSurvivesRoundTrip(t *testing.T) {
	t.Parallel()
	m := mustParse(t, "[workspace]\n")

	if _, ok := m.Document()["workspace"]; !ok {
		t.Fatal("workspace key dropped from an empty workspace table")
	}
	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := ParseManifest("Cargo.toml", out); err != nil {
		t.Errorf("re-reading the output: %v", err)
	}
}

func TestNilUnhandledValuesDropped(t *testing.T) {
	t.Parallel()
	raw := map[string]any{
		"package": map[string]any{
			"name":    "acme",
			"version": "0.1.0",
			"license": nil,
		},
	}
	m, err := NewManifest("Cargo.toml", raw)
	if err != nil {
		t.Fatalf("NewManifest: %v", err)
	}
	pkg := m.Document()["package"].(map[string]any)
	if _, ok := pkg["license"]; ok {
		t.Error("nil-valued key serialized")
	}
	if pkg["name"] != "acme" {
		t.Errorf("name = %v, want acme", pkg["name"])
	}
}

func TestEmptyVersionTreatedAsAbsent(t *testing.T) {
	t.Parallel()
	m := mustParse(t, "[package]\nname = \"a\"\nversion = \"\"\n")

	pkg := m.Document()["package"].(map[string]any)
	if _, ok := pkg["version"]; ok {
		t.Errorf("version = %v, want the empty value elided", pkg["version"])
	}
	if pkg["name"] != "a" {
		t.Errorf("name = %v, want a", pkg["name"])
	}
}

func TestNilSectionLeavesRawUntouched(t *testing.T) {
	t.Parallel()
	m := mustParse(t, sampleManifest)

	m.Package = nil
	m.Dependencies = nil
	doc := m.Document()
	pkg, ok := doc["package"].(map[string]any)
	if !ok {
		t.Fatal("package key gone after clearing the typed section")
	}
	if pkg["version"] != "0.1.0" {
		t.Errorf("version = %v, want unchanged 0.1.0", pkg["version"])
	}
	deps, ok := doc["dependencies"].(map[string]any)
	if !ok {
		t.Fatal("dependencies key gone after clearing the typed section")
	}
	if deps["anyhow"] != "1.0" {
		t.Errorf("anyhow = %v, want 1.0", deps["anyhow"])
	}
}

func TestWrongShapeRecognizedKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
	}{
		{"non-string version", "[package]\nname = \"a\"\nversion = 5\n"},
		{"non-table package", "package = \"a\"\n"},
		{"non-table workspace", "workspace = 1\n"},
		{"non-string member", "[workspace]\nmembers = [1, 2]\n"},
		{"non-table dependencies", "[package]\nname = \"a\"\n\n[[dependencies]]\nx = 1\n"},
		{"missing package name", "[package]\nversion = \"0.1.0\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest("Cargo.toml", []byte(tt.source))
			var invalid *InvalidManifestError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidManifestError", err)
			}
		})
	}
}

func TestBinEntriesStrict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
	}{
		{"unrecognized key", "[package]\nname = \"a\"\n\n[[bin]]\nname = \"x\"\npath = \"p\"\ntest = true\n"},
		{"missing path", "[package]\nname = \"a\"\n\n[[bin]]\nname = \"x\"\n"},
		{"missing name", "[package]\nname = \"a\"\n\n[[bin]]\npath = \"p\"\n"},
		{"non-string name", "[package]\nname = \"a\"\n\n[[bin]]\nname = 3\npath = \"p\"\n"},
		{"not a table list", "bin = [1]\n\n[package]\nname = \"a\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest("Cargo.toml", []byte(tt.source))
			var invalid *InvalidManifestError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidManifestError", err)
			}
		})
	}
}

func TestBinKeyInsidePackageStaysUnhandled(t *testing.T) {
	t.Parallel()
	m := mustParse(t, "[package]\nname = \"a\"\nbin = [1]\n")

	if len(m.Bin) != 0 {
		t.Errorf("bin = %+v, want none", m.Bin)
	}
	if _, ok := m.Package.Unhandled["bin"]; !ok {
		t.Error("package.bin should be carried as an unhandled key")
	}
}

func TestMalformedTOMLParseError(t *testing.T) {
	t.Parallel()
	_, err := ParseManifest("Cargo.toml", []byte("[package\nname = \"a\"\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestReadMissingManifest(t *testing.T) {
	t.Parallel()
	_, err := ReadManifest(filepath.Join(t.TempDir(), ManifestName))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestSaveWritesMergedDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, dir, ManifestName, sampleManifest)

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Path() != path {
		t.Errorf("Path() = %q, want %q", m.Path(), path)
	}
	m.Package.Version = "0.2.0"
	if err := m.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reread, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest after save: %v", err)
	}
	if reread.Package.Version != "0.2.0" {
		t.Errorf("version = %q, want 0.2.0", reread.Package.Version)
	}
	if _, ok := reread.Package.Unhandled["authors"]; !ok {
		t.Error("authors dropped across save")
	}

	other := filepath.Join(dir, "Copy.toml")
	if err := m.Save(other); err != nil {
		t.Fatalf("Save to explicit path: %v", err)
	}
	if _, err := ReadManifest(other); err != nil {
		t.Errorf("ReadManifest(%s): %v", other, err)
	}
}

func TestVersionBumpEndToEnd(t *testing.T) {
	t.Parallel()
	source := "[package]\nname = \"foo\"\nversion = \"0.1.0\"\n\n[dependencies]\nbar = \"1.0\"\n"
	m := mustParse(t, source)

	m.Package.Version = "0.2.0"
	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := decodeTOML(t, out)
	want := map[string]any{
		"package":      map[string]any{"name": "foo", "version": "0.2.0"},
		"dependencies": map[string]any{"bar": "1.0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("document = %#v, want %#v", got, want)
	}
}
