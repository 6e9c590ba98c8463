package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure KVRepository implements the interface
var _ repositories.KVStore = (*KVRepository)(nil)

type kvEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// KVRepository stores key-value pairs as documents keyed by _id
type KVRepository struct {
	collection *mongo.Collection
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(db *mongo.Database) *KVRepository {
	return &KVRepository{
		collection: db.Collection("kv"),
	}
}

// Get finds the value stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts the value for key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// Delete removes key
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
