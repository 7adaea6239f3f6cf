package positions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists overrides in a MongoDB collection for the hosted
// service. Documents are unique per (viewer, topology) pair.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type overrideDoc struct {
	ViewerID  string    `bson:"viewer_id"`
	GraphHash string    `bson:"graph_hash"`
	Overrides Overrides `bson:"overrides"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and ensures the compound index backing
// override lookups.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection("positions")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "viewer_id", Value: 1}, {Key: "graph_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, viewerID, graphHash string) (Overrides, error) {
	var doc overrideDoc
	err := s.coll.FindOne(ctx, bson.M{
		"viewer_id":  viewerID,
		"graph_hash": graphHash,
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Overrides, nil
}

// Put implements Store.
func (s *MongoStore) Put(ctx context.Context, viewerID, graphHash string, o Overrides) error {
	filter := bson.M{"viewer_id": viewerID, "graph_hash": graphHash}
	doc := overrideDoc{
		ViewerID:  viewerID,
		GraphHash: graphHash,
		Overrides: o,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, viewerID, graphHash string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{
		"viewer_id":  viewerID,
		"graph_hash": graphHash,
	})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
