// Package git wraps the git operations the build tooling needs: committed
// file checks, ignore matching and managed .gitignore sections.
package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Committed reports whether path, relative to the repository at dir, is
// tracked by git.
func Committed(ctx context.Context, dir, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--", path)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return false, fmt.Errorf("git ls-files: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// CheckImportantFile verifies that path exists under dir and is committed.
// The returned error spells out which requirement failed.
func CheckImportantFile(ctx context.Context, dir, path string) error {
	if _, err := os.Stat(filepath.Join(dir, path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s does not exist, but it should", path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	committed, err := Committed(ctx, dir, path)
	if err != nil {
		return err
	}
	if !committed {
		return fmt.Errorf("%s exists but is not committed", path)
	}
	return nil
}

// Ignored reports whether root's .gitignore matches path. A missing
// .gitignore ignores nothing.
func Ignored(root, path string) (bool, error) {
	name := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", name, err)
	}
	return gi.MatchesPath(path), nil
}
