package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// Export copies the rendered workspace, without its manifest, to target.
// An existing target is never overwritten.
func Export(workspace string, target string) error {
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("directory %s already exists", target)
	}

	if err := cp.Copy(workspace, target); err != nil {
		return fmt.Errorf("failed to export workspace to %s: %w", target, err)
	}
	if err := os.Remove(filepath.Join(target, ManifestFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
