package sink

import (
	"context"
	"fmt"
	"strings"

	"cadence/internal/catalog"
	"cadence/internal/services"
)

// Supported output formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Writer stores and reloads a processed collection.
type Writer interface {
	Write(ctx context.Context, entries []catalog.Entry) error
	Read(ctx context.Context) ([]catalog.Entry, error)
	Path() string
}

// New returns the sink for format writing to path. indent applies to JSON.
func New(format, path string, indent int) (Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "sink", "new", "output path is empty", nil)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return NewJSON(path, indent), nil
	case FormatSQLite:
		return NewSQLite(path), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "sink", "new", fmt.Sprintf("unknown output format %q", format), nil)
	}
}
