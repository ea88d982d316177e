package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// DataStore is the subset of *mongo.Collection the store uses.
type DataStore interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// CollectionProvider hands out the collection backing a record kind.
type CollectionProvider interface {
	Collection(name string) DataStore
}

type databaseProvider struct {
	db *mongo.Database
}

// NewProvider adapts a mongo database to CollectionProvider.
func NewProvider(db *mongo.Database) CollectionProvider {
	return &databaseProvider{db: db}
}

func (p *databaseProvider) Collection(name string) DataStore {
	return p.db.Collection(name)
}

// Store keeps expenses and income in their own collections, scoped by userId.
type Store struct {
	provider CollectionProvider
}

func New(provider CollectionProvider) *Store {
	return &Store{provider: provider}
}

func (s *Store) ListDocuments(ctx context.Context, userID string, kind record.Kind) ([]record.Document, error) {
	cur, err := s.provider.Collection(string(kind)).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []record.Document

	for cur.Next(ctx) {
		var doc record.Document
		if err := cur.Decode(&doc); err != nil {
			slog.Warn("skipping undecodable record document", "kind", kind, "error", err)
			continue
		}

		docs = append(docs, doc)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", kind, err)
	}

	return docs, nil
}

func (s *Store) InsertDocuments(ctx context.Context, userID string, kind record.Kind, docs []record.Document) error {
	if len(docs) == 0 {
		return nil
	}

	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		doc.UserID = userID
		batch[i] = doc
	}

	if _, err := s.provider.Collection(string(kind)).InsertMany(ctx, batch, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("inserting %s: %w", kind, err)
	}

	return nil
}
