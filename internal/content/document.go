// Copyright (c) 2026 Lurnex. All rights reserved.

/*
Package content is the client for the headless content store.

Every entity on the site (posts, authors, categories, taxonomy entries and
comments) is a [Document]: a typed bag of JSON fields plus store-managed
metadata. Reads are expressed as a [Query] holding typed [Clause] values,
which each backend compiles to its own syntax. No backend ever receives a
caller-built query string.

Backends:

  - PostgreSQL: documents live in a JSONB table (see [NewPostgresRepository]).
  - Memory: seeded from a JSON file, for local development and tests.
  - Redis: a read-through decorator over either of the above.
*/
package content

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Reserved keys of the flat JSON document form.
const (
	KeyID        = "_id"
	KeyType      = "_type"
	KeyCreatedAt = "_createdAt"
	KeyUpdatedAt = "_updatedAt"
)

// Document is one record in the content store.
//
// References to other documents are stored as their IDs: a single reference
// is a string field, a reference list is an array of strings.
type Document struct {
	ID        string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Fields holds the document body with JSON-decoded values.
	Fields map[string]any
}

// String returns a string field, or "" when absent or of another type.
func (document Document) String(field string) string {
	value, _ := document.Fields[field].(string)
	return value
}

// Bool returns a boolean field, or false when absent.
func (document Document) Bool(field string) bool {
	value, _ := document.Fields[field].(bool)
	return value
}

// Refs returns the IDs held by a reference or reference-list field.
func (document Document) Refs(field string) []string {
	return refsOf(document.Fields[field])
}

// Has reports whether a field is present with a non-null value.
func (document Document) Has(field string) bool {
	value, ok := document.Fields[field]
	return ok && value != nil
}

// MarshalJSON writes the flat form: body fields next to the reserved keys.
func (document Document) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(document.Fields)+4)
	maps.Copy(flat, document.Fields)

	flat[KeyID] = document.ID
	flat[KeyType] = document.Type
	flat[KeyCreatedAt] = document.CreatedAt
	flat[KeyUpdatedAt] = document.UpdatedAt

	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat form written by [Document.MarshalJSON].
// Missing timestamps stay zero.
func (document *Document) UnmarshalJSON(data []byte) error {
	flat := map[string]any{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	id, _ := flat[KeyID].(string)
	kind, _ := flat[KeyType].(string)

	createdAt, err := parseTimeField(flat[KeyCreatedAt])
	if err != nil {
		return fmt.Errorf("content: %s: %w", KeyCreatedAt, err)
	}
	updatedAt, err := parseTimeField(flat[KeyUpdatedAt])
	if err != nil {
		return fmt.Errorf("content: %s: %w", KeyUpdatedAt, err)
	}

	for _, key := range []string{KeyID, KeyType, KeyCreatedAt, KeyUpdatedAt} {
		delete(flat, key)
	}

	*document = Document{ID: id, Type: kind, CreatedAt: createdAt, UpdatedAt: updatedAt, Fields: flat}
	return nil
}

// Decode maps the flat form onto a struct with json tags.
func (document Document) Decode(target any) error {
	raw, err := json.Marshal(document)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func parseTimeField(value any) (time.Time, error) {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// normalize round-trips fields through JSON so that every backend compares
// the same value types (float64, string, bool, []any, map[string]any).
func normalize(fields map[string]any) (map[string]any, error) {
	if len(fields) == 0 {
		return map[string]any{}, nil
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("content: fields are not JSON-encodable: %w", err)
	}

	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func refsOf(value any) []string {
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []string:
		return typed
	case []any:
		ids := make([]string, 0, len(typed))
		for _, item := range typed {
			if id, ok := item.(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
		return ids
	}
	return nil
}
