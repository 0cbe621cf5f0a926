package services

import (
	"fmt"

	"github.com/spf13/afero"
)

// withTempDir creates a unique directory under base, runs fn with it and
// removes the directory and everything in it on every return path,
// including a panic in fn. A removal failure is reported only when fn
// itself succeeded.
func withTempDir(fs afero.Fs, base, prefix string, fn func(dir string) error) (err error) {
	dir, err := afero.TempDir(fs, base, prefix)
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}

	defer func() {
		if rmErr := fs.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove temporary directory %s: %w", dir, rmErr)
		}
	}()

	return fn(dir)
}
