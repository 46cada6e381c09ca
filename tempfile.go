package denoise

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeFileAtomic calls fn with a temporary file in the directory of path,
// and renames it to path once fn and closing succeeded. On failure the
// temporary file is removed and path is left untouched.
func writeFileAtomic(path string, fn func(w io.Writer) error) (rerr error) {
	// The temporary file must be on the same file system as path for the
	// rename to be atomic, so no /dev/shm or OS temp dir here.
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmp := f.Name()

	// Ensure cleanup on failure.
	defer func() {
		if rerr != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	// CreateTemp uses mode 0600, output files are meant to be shared.
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := fn(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
