package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps documents in process. Faults can be injected per operation,
// which is what the tests use it for.
type Memory struct {
	mu   sync.Mutex
	cols map[string]map[string]map[string]any
	now  func() time.Time

	readFaults  map[string]error
	insertFault func(collection string, fields map[string]any) error
	updateFault func(collection, id string) error

	inserts map[string]int
	updates map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		cols:       make(map[string]map[string]map[string]any),
		now:        func() time.Time { return time.Now().UTC() },
		readFaults: make(map[string]error),
		inserts:    make(map[string]int),
		updates:    make(map[string]int),
	}
}

// SetClock replaces the clock used for ServerTimestamp.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Seed stores a document under a caller-chosen id without counting it as a write.
func (m *Memory) Seed(collection, id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.col(collection)[id] = m.resolve(cloneFields(fields))
}

// FailReads makes ReadAll and Query on collection return err. nil clears it.
func (m *Memory) FailReads(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readFaults, collection)
		return
	}
	m.readFaults[collection] = err
}

// FailInserts installs a hook consulted before every insert; a non-nil
// return rejects the write.
func (m *Memory) FailInserts(fn func(collection string, fields map[string]any) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertFault = fn
}

func (m *Memory) FailUpdates(fn func(collection, id string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateFault = fn
}

// Inserts returns the number of successful inserts into collection.
func (m *Memory) Inserts(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts[collection]
}

// Updates returns the number of successful updates in collection.
func (m *Memory) Updates(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates[collection]
}

// Get returns a copy of a single document.
func (m *Memory) Get(collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.cols[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(f)}, nil
}

func (m *Memory) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	return m.Query(ctx, collection, "", nil)
}

// Query with an empty field matches everything.
func (m *Memory) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readFaults[collection]; err != nil {
		return nil, err
	}

	col := m.cols[collection]
	ids := make([]string, 0, len(col))
	for id, f := range col {
		if field != "" && !reflect.DeepEqual(f[field], value) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, Document{ID: id, Fields: cloneFields(col[id])})
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertFault != nil {
		if err := m.insertFault(collection, fields); err != nil {
			return "", err
		}
	}
	id := uuid.New().String()
	m.col(collection)[id] = m.resolve(cloneFields(fields))
	m.inserts[collection]++
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateFault != nil {
		if err := m.updateFault(collection, id); err != nil {
			return err
		}
	}
	doc, ok := m.cols[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range m.resolve(cloneFields(fields)) {
		doc[k] = v
	}
	m.updates[collection]++
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) col(name string) map[string]map[string]any {
	c, ok := m.cols[name]
	if !ok {
		c = make(map[string]map[string]any)
		m.cols[name] = c
	}
	return c
}

func (m *Memory) resolve(fields map[string]any) map[string]any {
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			fields[k] = m.now()
		}
	}
	return fields
}

func cloneFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch s := v.(type) {
		case []string:
			out[k] = append([]string(nil), s...)
		case []any:
			out[k] = append([]any(nil), s...)
		default:
			out[k] = v
		}
	}
	return out
}
