package internal

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

const descriptionWidth = 80

// Description files looked up at the archive root, in order of preference.
var DescriptionFiles = []string{"README.md", "README"}

// Describe returns the archive's bundled description, rendering markdown for
// the terminal.  An archive without one yields an empty string.
func Describe(archive string) (string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return "", &ArchiveError{Archive: archive, Err: err}
	}
	defer zr.Close()

	for _, name := range DescriptionFiles {
		for _, f := range zr.File {
			if f.Name != name {
				continue
			}
			content, err := readEntry(f)
			if err != nil {
				return "", &ArchiveError{Archive: archive, Err: err}
			}
			if name == "README.md" {
				return renderMarkdown(content), nil
			}
			return content, nil
		}
	}
	return "", nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("cannot read entry %s: %w", f.Name, err)
	}
	return string(buf), nil
}

func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(descriptionWidth),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
