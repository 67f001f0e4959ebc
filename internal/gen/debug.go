package gen

import (
	"os"
	"path/filepath"
)

// writeDebugUnchecked writes rendered output that failed its consistency
// check next to where it would have gone, so the template can be fixed. It
// is best-effort and never makes rendering fail harder.
func writeDebugUnchecked(dir, path string, content []byte) error {
	if dir == "" || path == "" {
		return nil
	}

	p := filepath.Join(dir, filepath.FromSlash(path)+".unchecked")

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	return os.WriteFile(p, content, 0o644)
}
