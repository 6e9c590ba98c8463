package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure OrderRepository implements the interface
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository handles MongoDB operations for Order
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

// Create inserts a new order
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// FindByReference finds an order by its request reference
func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus records the latest gateway status of an order
func (r *OrderRepository) UpdateStatus(ctx context.Context, reference, status, message string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"message":   message,
			"updatedAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"reference": reference}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByEmail finds a customer's orders with pagination, newest first
func (r *OrderRepository) FindByEmail(ctx context.Context, email string, page, limit int) ([]*models.Order, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []*models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByEmail counts a customer's orders
func (r *OrderRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"email": email})
}
