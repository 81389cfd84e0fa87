package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo maps each collection to a Mongo collection. Inserted documents get
// string uuid _id values; documents written by other tools may carry the
// driver's ObjectIDs, which surface as their hex string.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	return m.find(ctx, collection, bson.D{})
}

func (m *Mongo) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return m.find(ctx, collection, bson.D{{Key: field, Value: matchValue(value)}})
}

func (m *Mongo) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.New().String()
	doc := bson.M{"_id": id}
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			v = primitive.NewDateTimeFromTime(time.Now().UTC())
		}
		doc[k] = v
	}
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	plain, stamps := splitServerTimestamps(fields)
	update := bson.M{}
	if len(plain) > 0 {
		update["$set"] = plain
	}
	if len(stamps) > 0 {
		cur := bson.M{}
		for _, k := range stamps {
			cur[k] = true
		}
		update["$currentDate"] = cur
	}
	for _, key := range idCandidates(id) {
		res, err := m.db.Collection(collection).UpdateByID(ctx, key, update)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m *Mongo) find(ctx context.Context, collection string, filter bson.D) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		d := Document{Fields: make(map[string]any, len(raw))}
		for k, v := range raw {
			if k == "_id" {
				d.ID = docID(v)
				continue
			}
			d.Fields[k] = fromBSON(v)
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

// fromBSON turns driver types into the plain Go values Document getters expect.
func fromBSON(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromBSON(e)
		}
		return out
	}
	return v
}

func docID(v any) string {
	if s, ok := fromBSON(v).(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// idCandidates lists the _id values a document id may be stored as.
func idCandidates(id string) []any {
	out := []any{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		out = append(out, oid)
	}
	return out
}

// matchValue lets a hex string match a reference stored as an ObjectID.
func matchValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if c := idCandidates(s); len(c) > 1 {
		return bson.M{"$in": bson.A(c)}
	}
	return v
}
