package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"cadence/internal/services"
)

const component = "catalog"

// Load reads the catalog file at path.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, component, "load", path, err)
		}
		return nil, services.Wrap(services.ErrInvalidInput, component, "load", path, err)
	}
	defer f.Close()
	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Decode reads a JSON array of entries from r.
func Decode(r io.Reader) ([]Entry, error) {
	var elements []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&elements); err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, component, "decode", "catalog must be a JSON array", err)
	}
	if elements == nil {
		return nil, services.Wrap(services.ErrInvalidInput, component, "decode", "catalog must be a JSON array, got null", nil)
	}
	if dec.More() {
		return nil, services.Wrap(services.ErrInvalidInput, component, "decode", "trailing data after catalog array", nil)
	}

	entries := make([]Entry, len(elements))
	for i, raw := range elements {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			entries[i] = Entry{err: services.Wrap(services.ErrInvalidInput, component, "decode",
				fmt.Sprintf("element %d is not an object", i), nil)}
			continue
		}
		if err := entries[i].UnmarshalJSON(trimmed); err != nil {
			entries[i] = Entry{err: services.Wrap(services.ErrInvalidInput, component, "decode",
				fmt.Sprintf("element %d", i), err)}
		}
	}
	return entries, nil
}

// Encode writes entries as a JSON array. indent <= 0 writes compact JSON.
func Encode(w io.Writer, entries []Entry, indent int) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", string(bytes.Repeat([]byte{' '}, indent)))
	}
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}
