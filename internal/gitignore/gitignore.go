// Package gitignore keeps devports-generated paths out of version
// control.
package gitignore

import (
	"fmt"
	"os"
	"strings"
)

// Ensure appends any missing entries to the .gitignore at path, creating
// the file when absent. Existing content and ordering are preserved.
// Returns the number of entries added.
func Ensure(path string, entries []string) (int, error) {
	existing := make(map[string]bool)
	var content string

	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
		for _, line := range strings.Split(content, "\n") {
			existing[strings.TrimSpace(line)] = true
		}
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var missing []string
	for _, entry := range entries {
		if !existing[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	for _, entry := range missing {
		b.WriteString(entry)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return len(missing), nil
}
