package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Well-known field names.
const (
	FieldTitle       = "title"
	FieldDuration    = "duration"
	FieldTempo       = "tempo"
	FieldChromaMean  = "chroma_mean"
	FieldChromaNotes = "chroma_notes"
)

// Entry is an ordered JSON object.
type Entry struct {
	keys   []string
	values map[string]json.RawMessage
	err    error
}

// NewEntry returns an entry holding only a title.
func NewEntry(title string) Entry {
	var e Entry
	_ = e.Set(FieldTitle, title)
	return e
}

// Title returns the title field, or "" when it is missing or not a string.
func (e Entry) Title() string {
	raw, ok := e.values[FieldTitle]
	if !ok {
		return ""
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return ""
	}
	return title
}

// Err reports why the source element could not be read as an object.
func (e Entry) Err() error {
	return e.err
}

// Keys returns the field names in order.
func (e Entry) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Len returns the number of fields.
func (e Entry) Len() int {
	return len(e.keys)
}

// Get returns the raw JSON value stored under key.
func (e Entry) Get(key string) (json.RawMessage, bool) {
	raw, ok := e.values[key]
	return raw, ok
}

// Decode unmarshals the value stored under key into dst.
func (e Entry) Decode(key string, dst any) error {
	raw, ok := e.values[key]
	if !ok {
		return fmt.Errorf("field %q not present", key)
	}
	return json.Unmarshal(raw, dst)
}

// Set stores value under key. Existing keys keep their position.
func (e *Entry) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", key, err)
	}
	e.setRaw(key, raw)
	return nil
}

func (e *Entry) setRaw(key string, raw json.RawMessage) {
	if e.values == nil {
		e.values = make(map[string]json.RawMessage)
	}
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = raw
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	out := Entry{
		keys: append([]string(nil), e.keys...),
		err:  e.err,
	}
	if e.values != nil {
		out.values = make(map[string]json.RawMessage, len(e.values))
		for k, v := range e.values {
			out.values[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON writes the fields in order.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(e.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order. A repeated key
// keeps its first position and its last value.
func (e *Entry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("catalog entry must be a JSON object")
	}
	*e = Entry{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in object", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		e.setRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// String renders the entry for logs.
func (e Entry) String() string {
	if title := strings.TrimSpace(e.Title()); title != "" {
		return title
	}
	return "<untitled>"
}
