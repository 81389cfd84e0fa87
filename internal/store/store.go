// Package store reads and writes typed records on top of the document store.
package store

import (
	"coach-booking-api/internal/config"
	"coach-booking-api/internal/docstore"
)

type Store struct {
	docs docstore.Client
	cols config.Collections
}

func New(docs docstore.Client, cols config.Collections) *Store {
	return &Store{docs: docs, cols: cols}
}

// Docs exposes the underlying client, e.g. for the migration.
func (s *Store) Docs() docstore.Client { return s.docs }

func (s *Store) Collections() config.Collections { return s.cols }
