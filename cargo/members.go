package cargo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MemberDirs expands the workspace's member patterns against root. Cargo
// allows glob patterns like "crates/*"; matches are kept only when the
// directory holds a Cargo.toml. Results are deduplicated, in pattern order
// then lexical match order. A member without glob characters must exist on
// disk.
func (w *Workspace) MemberDirs(root string) ([]string, error) {
	var dirs []string
	seen := make(map[string]struct{})
	for _, member := range w.Members {
		matches, err := memberMatches(root, member)
		if err != nil {
			return nil, err
		}
		for _, dir := range matches {
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func memberMatches(root, pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		dir := filepath.Join(root, pattern)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("workspace member %q: %w", pattern, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("workspace member %q: not a directory", pattern)
		}
		if !hasManifest(dir) {
			return nil, nil
		}
		return []string{dir}, nil
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("workspace member %q: %w", pattern, err)
	}
	var dirs []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		if hasManifest(match) {
			dirs = append(dirs, match)
		}
	}
	return dirs, nil
}

func hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil && info.Mode().IsRegular()
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
