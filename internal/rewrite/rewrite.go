// Package rewrite applies in-place textual corrections to exported files.
package rewrite

import (
	"fmt"
	"os"
	"strings"
)

// ReplaceInFile substitutes every occurrence of old with new in the file at
// path, rewriting it in place. No backup is kept and the file's permissions
// are preserved. It returns the number of occurrences replaced.
//
// The substitution only touches the matched substring, so the file's line
// count and column structure are unchanged. Re-running the same substitution
// is a no-op as long as old is not a substring of new.
func ReplaceInFile(path, old, new string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	count := strings.Count(content, old)
	if count == 0 {
		// Nothing to replace. Leave the file untouched rather than
		// rewriting it with identical content.
		return 0, nil
	}

	updated := strings.ReplaceAll(content, old, new)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return count, nil
}
