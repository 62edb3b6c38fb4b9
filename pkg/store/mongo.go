package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultDatabase is the database graphs land in when the caller
	// does not name one.
	DefaultDatabase = "pedigraph"

	// graphsCollection holds the named graph documents; the record
	// name doubles as the _id.
	graphsCollection = "graphs"

	connectTimeout = 10 * time.Second
)

// MongoStore persists graph documents in MongoDB. One store wraps one
// client and is safe for concurrent use.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the deployment before
// returning, so a bad address fails at startup instead of on the
// first request. An empty database selects DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(graphsCollection),
	}, nil
}

// Get retrieves a stored graph by name.
func (s *MongoStore) Get(ctx context.Context, name string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find graph %q: %w", name, err)
	}
	return &rec, nil
}

// Put upserts a record, keeping the original CreatedAt when one
// already exists under the name.
func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	stored := *rec
	if existing, err := s.Get(ctx, rec.Name); err == nil {
		stored.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": stored.Name}, &stored, opts); err != nil {
		return fmt.Errorf("store graph %q: %w", stored.Name, err)
	}
	return nil
}

// Delete removes a stored graph.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete graph %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the stored names in lexical order.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		Name string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode graph names: %w", err)
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
