package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const OverrideSuffix string = ".override.toml"

// OverridesPath is where the overrides for archive are kept inside dir:
// app.zip is answered by app.override.toml.
func OverridesPath(dir string, archive string) string {
	return filepath.Join(dir, strings.TrimSuffix(archive, ArchiveExt)+OverrideSuffix)
}

// ReadOverrides loads a flat TOML table of manifest answers.  A missing file
// holds no overrides.
func ReadOverrides(name string) (map[string]string, error) {
	overrides := map[string]string{}

	overrideData, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return overrides, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", name, err)
	}

	if _, err := toml.Decode(string(overrideData), &overrides); err != nil {
		return nil, fmt.Errorf("%s file does not match required format: %s", name, err)
	}
	return overrides, nil
}

// MergeOverrides returns a copy of base with every entry of top applied.
func MergeOverrides(base map[string]string, top map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range top {
		merged[k] = v
	}
	return merged
}
