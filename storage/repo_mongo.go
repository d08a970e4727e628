package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMemoryRepo struct {
	coll *mongo.Collection
}

// mongoMemoryDoc is MemoryItem with the storage key as document id.
type mongoMemoryDoc struct {
	ID         string `bson:"_id"`
	MemoryItem `bson:",inline"`
}

func (r *mongoMemoryRepo) Get(ctx context.Context, key string) (*MemoryItem, error) {
	var doc mongoMemoryDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory item: %w", err)
	}
	item := doc.MemoryItem
	item.LastUpdatedAt = item.LastUpdatedAt.UTC()
	return &item, nil
}

func (r *mongoMemoryRepo) Set(ctx context.Context, key string, item MemoryItem) error {
	doc := mongoMemoryDoc{ID: key, MemoryItem: item}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save memory item: %w", err)
	}
	return nil
}

func (r *mongoMemoryRepo) ListByUser(ctx context.Context, userID string) ([]MemoryItem, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "lastUpdatedAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory items: %w", err)
	}
	defer cur.Close(ctx)

	var items []MemoryItem
	for cur.Next(ctx) {
		var doc mongoMemoryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode memory item: %w", err)
		}
		doc.LastUpdatedAt = doc.LastUpdatedAt.UTC()
		items = append(items, doc.MemoryItem)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	sortByRecency(items)
	return items, nil
}
