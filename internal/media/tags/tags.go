// Package tags reads embedded metadata from audio files.
package tags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// ErrNoTags reports a file without a recognised tag block.
var ErrNoTags = errors.New("no embedded tags")

// Metadata is the subset of embedded tags used for matching and display.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Format string
}

// Read parses the tag block of the file at path.
func Read(path string) (Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Metadata{}, ErrNoTags
		}
		return Metadata{}, fmt.Errorf("read tags %s: %w", path, err)
	}
	return Metadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Format: string(m.Format()),
	}, nil
}

// Title returns the embedded title of path, or "" when the file has none or
// its tags cannot be read.
func Title(path string) string {
	m, err := Read(path)
	if err != nil {
		return ""
	}
	return m.Title
}
