package render

import (
	"strings"
	"testing"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "acme", "acme"},
		{"path", "src/main.rs", "src/main.rs"},
		{"version", "0.1.0", "0.1.0"},
		{"float", "3.14", "3.14"},
		{"integer", "42", "42"},
		{"keyword", "true", `"true"`},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"trailing space", "x ", `"x "`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestField(t *testing.T) {
	t.Parallel()
	if got := Field("name", "acme"); got != "name: acme" {
		t.Errorf("Field = %q", got)
	}
	if got := Field("edition", ""); got != `edition: ""` {
		t.Errorf("Field = %q", got)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	got := Table("artifacts", []string{"name", "path", "kind"}, [][]string{
		{"acme", "src/main.rs", "bin"},
		{"acme", "src/lib.rs", "lib"},
	})

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3:\n%s", len(lines), got)
	}
	if lines[0] != "artifacts[2]{name,path,kind}:" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "  acme,src/main.rs,bin" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestTableEmpty(t *testing.T) {
	t.Parallel()
	got := Table("members", []string{"name", "version"}, nil)
	if got != "members[0]{name,version}:" {
		t.Errorf("Table = %q", got)
	}
}
