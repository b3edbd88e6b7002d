package notes_box

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// IDLayout is the ISO-8601 form note IDs are generated in, always UTC with milliseconds
const IDLayout = "2006-01-02T15:04:05.000Z"

const (
	idField    = "id"
	titleField = "title"
)

// Note is a single submitted record. Every submitted form field other than
// id and title is kept verbatim in Extra.
type Note struct {
	ID    string
	Title string
	Extra map[string]string
}

func NewNote(id, title string, fields map[string]string) Note {
	note := Note{
		ID:    id,
		Title: title,
	}
	for k, v := range fields {
		if k == idField || k == titleField {
			continue
		}
		if note.Extra == nil {
			note.Extra = make(map[string]string)
		}
		note.Extra[k] = v
	}
	return note
}

// CreatedAt parses the note ID back to the creation time
func (n Note) CreatedAt() (time.Time, error) {
	return time.Parse(IDLayout, n.ID)
}

// MarshalJSON writes the note as one flat object: id, title, then extra fields sorted by key
func (n Note) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key, value string) error {
		keyJson, err := json.Marshal(key)
		if err != nil {
			return err
		}
		valueJson, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(keyJson)
		buf.WriteByte(':')
		buf.Write(valueJson)
		return nil
	}

	if err := writeField(idField, n.ID); err != nil {
		return nil, err
	}
	if err := writeField(titleField, n.Title); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		if k == idField || k == titleField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(k, n.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode note: %w", err)
	}

	*n = Note{}
	for k, raw := range fields {
		value, err := rawToString(raw)
		if err != nil {
			return fmt.Errorf("decode note field [%s]: %w", k, err)
		}
		switch k {
		case idField:
			n.ID = value
		case titleField:
			n.Title = value
		default:
			if n.Extra == nil {
				n.Extra = make(map[string]string)
			}
			n.Extra[k] = value
		}
	}

	return nil
}

// rawToString keeps strings as they are and any other JSON value as its compact text,
// so hand edited files with numbers or nested objects still load
func rawToString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return "", err
	}
	return strings.TrimSpace(compact.String()), nil
}
