package internal

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

const ManifestFile string = ".env"

type Entry struct {
	Key   string
	Value string
}

// Manifest holds the placeholder definitions of an archive in file order.
type Manifest []Entry

// ReadManifest parses the manifest at path.  A missing manifest is a
// ConfigurationError.
func ReadManifest(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationError{Path: path, Err: errors.New("archive has no manifest")}
		}
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	defer file.Close()

	return ParseManifest(file)
}

// ParseManifest reads KEY=VALUE lines, splitting at the first '='.  Blank
// lines are skipped and a repeated key keeps its first position but takes
// the last value.
func ParseManifest(r io.Reader) (Manifest, error) {
	manifest := Manifest{}
	index := map[string]int{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, &ManifestParseError{Line: lineNo, Text: line, Msg: "missing '='"}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &ManifestParseError{Line: lineNo, Text: line, Msg: "missing key"}
		}
		value = strings.TrimSpace(value)

		if i, exists := index[key]; exists {
			manifest[i].Value = value
			continue
		}
		index[key] = len(manifest)
		manifest = append(manifest, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return manifest, nil
}
