package git

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	sentinelStart = "# >>> managed by kraken-std"
	sentinelEnd   = "# <<< managed by kraken-std"
)

// SyncIgnoreSection maintains a managed block in the ignore file at path.
// The block is wrapped in sentinel comments so repeated runs update it in
// place without touching surrounding user content; the file is created when
// missing. Reports whether the file changed.
func SyncIgnoreSection(path, header string, patterns []string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	updated := spliceSection(string(existing), renderSection(header, patterns))
	if updated == string(existing) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func renderSection(header string, patterns []string) string {
	var b strings.Builder
	b.WriteString(sentinelStart + "\n")
	if header != "" {
		b.WriteString("# " + header + "\n")
	}
	for _, p := range patterns {
		b.WriteString(p + "\n")
	}
	b.WriteString(sentinelEnd)
	return b.String()
}

// spliceSection inserts section into content, replacing an existing
// sentinel block if present or appending if not. Pure function for easy
// testing.
func spliceSection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append with a blank separator; a fresh file starts clean.
	if len(content) > 0 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\n"
	}
	return content + section + "\n"
}
