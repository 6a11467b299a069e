package store

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

// MongoDocumentStore implements DocumentStoreInterface on MongoDB.
// Document ids are kept in _id and exposed as "id".
type MongoDocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
	strict bool
}

// NewMongoDocumentStore connects to MongoDB and verifies the connection.
// With strictCollections, AddDocument refuses collections that do not exist.
func NewMongoDocumentStore(ctx context.Context, uri, dbName string, strictCollections bool) (*MongoDocumentStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDocumentStore{
		client: client,
		db:     client.Database(dbName),
		strict: strictCollections,
	}, nil
}

func (s *MongoDocumentStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// GetDocuments returns every document of a collection
func (s *MongoDocumentStore) GetDocuments(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return docs, nil
}

// AddDocument inserts data under a generated id
func (s *MongoDocumentStore) AddDocument(ctx context.Context, collection string, data Document) (Document, error) {
	if s.strict {
		exists, err := s.collectionExists(ctx, collection)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrCollectionNotFound
		}
	}

	id := uuid.New().String()
	doc := toBSON(data)
	doc["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	created := data.Clone()
	created["id"] = id
	return created, nil
}

// UpdateDocument applies a $set of the given fields
func (s *MongoDocumentStore) UpdateDocument(ctx context.Context, collection, id string, data Document) error {
	fields := toBSON(data)
	delete(fields, "_id")

	result, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// SetDocument upserts the document with the given id
func (s *MongoDocumentStore) SetDocument(ctx context.Context, collection, id string, data Document) error {
	doc := toBSON(data)
	doc["_id"] = id

	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoDocumentStore) collectionExists(ctx context.Context, collection string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": collection})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

func toBSON(data Document) bson.M {
	out := make(bson.M, len(data))
	for k, v := range data {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			doc["id"] = idString(v)
			continue
		}
		doc[k] = normalize(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	}
	return fmt.Sprint(v)
}

// normalize converts driver types into plain Go values so Document
// accessors work the same for every backend
func normalize(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case bson.M:
		return map[string]any(fromBSON(val))
	case bson.D:
		m := make(bson.M, len(val))
		for _, e := range val {
			m[e.Key] = e.Value
		}
		return map[string]any(fromBSON(m))
	}
	return v
}
