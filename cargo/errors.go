package cargo

import (
	"fmt"
	"strings"
)

// ParseError reports source text that could not be decoded: malformed TOML
// in a manifest or malformed JSON in generated metadata.
type ParseError struct {
	Source string // file or project the text came from, if known
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parsing: %v", e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidManifestError reports a document that decoded cleanly but does not
// fit the manifest model: neither [package] nor [workspace] is present, or a
// recognized key has the wrong shape.
type InvalidManifestError struct {
	Path   string
	Reason string
}

func (e *InvalidManifestError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid manifest: %s", e.Reason)
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Reason)
}

// ExternalToolError reports a failed external command: the binary could not
// be launched, exited non-zero, or produced no usable output. Callers that
// need the distinction can unwrap, but the manifest tooling treats all three
// uniformly.
type ExternalToolError struct {
	Tool   string
	Args   []string
	Stderr string // trailing stderr of the command, if any was captured
	Err    error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error { return e.Err }
