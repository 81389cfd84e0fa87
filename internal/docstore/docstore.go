// Package docstore is a minimal client for a remote document database.
// Backends: Postgres (JSONB), Firestore, MongoDB and an in-memory store.
package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// ServerTimestamp as a field value is replaced with the store's clock on write.
const ServerTimestamp = serverTimestamp("REQUEST_TIME")

type serverTimestamp string

// Client is what the rest of the application sees of the document store.
type Client interface {
	// ReadAll returns every document of collection ordered by id.
	ReadAll(ctx context.Context, collection string) ([]Document, error)
	// Query returns documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
	// Insert stores fields under a new store-assigned id.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Close() error
}

type Document struct {
	ID     string
	Fields map[string]any
}

func (d Document) Has(field string) bool {
	v, ok := d.Fields[field]
	return ok && v != nil
}

// String returns the field if it is a non-empty string.
func (d Document) String(field string) (string, bool) {
	s, ok := d.Fields[field].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Strings returns the string elements of an array field. Non-string and
// empty elements are dropped.
func (d Document) Strings(field string) []string {
	var out []string
	switch v := d.Fields[field].(type) {
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Int reads numeric fields. JSON decodes to float64, Firestore to int64.
func (d Document) Int(field string) (int, bool) {
	switch v := d.Fields[field].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	}
	return 0, false
}

func (d Document) Time(field string) (time.Time, bool) {
	switch v := d.Fields[field].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// splitServerTimestamps removes sentinel values from fields and returns the
// affected keys. fields is not modified.
func splitServerTimestamps(fields map[string]any) (map[string]any, []string) {
	out := make(map[string]any, len(fields))
	var keys []string
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			keys = append(keys, k)
			continue
		}
		out[k] = v
	}
	return out, keys
}
