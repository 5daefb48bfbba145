package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// snapshotDocument is one element of a collection stored in MongoDB.
type snapshotDocument struct {
	Position int    `bson:"_id"`
	RecordID string `bson:"record_id"`
	Payload  string `bson:"payload"`
}

// MongoSnapshotRepository implements SnapshotRepository with one MongoDB collection
// per entity collection.
type MongoSnapshotRepository struct {
	db *mongo.Database
}

// NewMongoSnapshotRepository creates a new MongoSnapshotRepository
func NewMongoSnapshotRepository(db *mongo.Database) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{db: db}
}

// LoadCollection reads every document of a collection ordered by position.
func (r *MongoSnapshotRepository) LoadCollection(ctx context.Context, name string, dst any) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(name).Find(ctx, bson.D{}, opts)
	if err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if len(docs) == 0 {
		return ErrCollectionNotFound
	}

	payloads := make([]string, len(docs))
	for i, doc := range docs {
		payloads[i] = doc.Payload
	}
	return joinRecords(payloads, dst)
}

// SaveCollection drops every document of the collection and inserts the new list.
func (r *MongoSnapshotRepository) SaveCollection(ctx context.Context, name string, src any) error {
	records, err := splitRecords(src)
	if err != nil {
		return err
	}

	coll := r.db.Collection(name)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = snapshotDocument{Position: i, RecordID: rec.ID, Payload: rec.Payload}
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s: %w", name, err)
	}
	return nil
}

var _ SnapshotRepository = (*MongoSnapshotRepository)(nil)
