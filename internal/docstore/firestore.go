package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client *firestore.Client
}

// ConnectFirestore uses application default credentials
// (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func ConnectFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	return collect(f.client.Collection(collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx))
}

func (f *Firestore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return collect(f.client.Collection(collection).Where(field, "==", value).Documents(ctx))
}

func (f *Firestore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := f.client.Collection(collection).Add(ctx, toFirestore(fields))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (f *Firestore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := f.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return err
}

func (f *Firestore) Close() error { return f.client.Close() }

func collect(iter *firestore.DocumentIterator) ([]Document, error) {
	defer iter.Stop()
	var out []Document
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: doc.Ref.ID, Fields: doc.Data()})
	}
	return out, nil
}

func toFirestore(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
