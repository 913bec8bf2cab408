package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	AppName    string = "zipbuild"
	ConfigFile string = "config.txt"
)

// ConfigStore persists the directory that archives are listed from.  The
// file holds nothing but the path.
type ConfigStore struct {
	Path string
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFile)
}

func NewConfigStore(path string) ConfigStore {
	if path == "" {
		path = DefaultConfigPath()
	}
	return ConfigStore{Path: path}
}

// Save overwrites any previously stored directory.
func (c ConfigStore) Save(directory string) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.Path, []byte(directory), 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.Path, err)
	}
	return nil
}

// Load returns the stored directory.  The boolean is false when nothing has
// been saved yet.
func (c ConfigStore) Load() (string, bool, error) {
	data, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read config file %s: %w", c.Path, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}
