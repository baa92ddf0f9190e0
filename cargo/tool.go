package cargo

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
)

// Tool produces cargo-metadata JSON for a project. The real implementation
// runs the cargo binary; tests substitute canned output.
type Tool interface {
	Metadata(ctx context.Context, projectDir string) ([]byte, error)
}

// DefaultBin is the cargo binary used when none is configured.
const DefaultBin = "cargo"

// ExecTool runs a cargo binary to generate metadata. Launch failure,
// non-zero exit and empty output all surface as *ExternalToolError; no
// retry and no timeout here, callers bound the wait through ctx.
type ExecTool struct {
	Bin string // cargo binary, DefaultBin when empty
}

func (t ExecTool) Metadata(ctx context.Context, projectDir string) ([]byte, error) {
	bin := t.Bin
	if bin == "" {
		bin = DefaultBin
	}
	args := []string{
		"metadata", "--no-deps", "--format-version=1",
		"--manifest-path", filepath.Join(projectDir, ManifestName),
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		var stderr string
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, &ExternalToolError{Tool: bin, Args: args, Stderr: stderr, Err: err}
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, &ExternalToolError{Tool: bin, Args: args, Err: errors.New("no output")}
	}
	return out, nil
}

// ReadMetadata generates metadata for projectDir through tool and extracts
// it.
func ReadMetadata(ctx context.Context, tool Tool, projectDir string) (*Metadata, error) {
	out, err := tool.Metadata(ctx, projectDir)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(projectDir, out)
}
