package internal

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

func DefaultWorkspace() string {
	return filepath.Join(xdg.CacheHome, AppName, "workspace")
}

// Stage resets dir and extracts every entry of archive into it.
func Stage(archive string, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return &ArchiveError{Archive: archive, Err: err}
	}
	defer zr.Close()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to reset workspace %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}

	for _, f := range zr.File {
		if err := extractFile(f, dir); err != nil {
			return &ArchiveError{Archive: archive, Err: err}
		}
	}
	return nil
}

func extractFile(f *zip.File, dir string) error {
	target := filepath.Join(dir, filepath.FromSlash(f.Name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("entry %s escapes the workspace", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	// archives written without unix attributes carry no permission bits
	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("cannot open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return out.Close()
}

func Teardown(dir string) error {
	return os.RemoveAll(dir)
}

// WithWorkspace stages archive into dir, runs fn inside it and removes dir
// afterwards, whatever fn returns.
func WithWorkspace(ctx context.Context, archive string, dir string, fn func(workspace string) error) (err error) {
	defer func() {
		if terr := Teardown(dir); terr != nil {
			err = errors.Join(err, fmt.Errorf("failed to remove workspace %s: %w", dir, terr))
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Stage(archive, dir); err != nil {
		return err
	}
	return fn(dir)
}
