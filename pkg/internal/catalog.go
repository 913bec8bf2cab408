package internal

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

const ArchiveExt string = ".zip"

// ListArchives returns the names of the zip files in dir, in the order the
// directory yields them.  A directory that does not exist holds no archives.
func ListArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	archives := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ArchiveExt) {
			archives = append(archives, entry.Name())
		}
	}
	return archives, nil
}
