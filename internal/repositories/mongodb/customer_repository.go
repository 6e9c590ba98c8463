package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CustomerRepository implements the interface
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository handles MongoDB operations for Customer
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection("customers"),
	}
}

// Upsert inserts the customer on first login and refreshes it afterwards
func (r *CustomerRepository) Upsert(ctx context.Context, customer *models.Customer) error {
	now := time.Now()
	customer.UpdatedAt = now
	update := bson.M{
		"$set": bson.M{
			"firstName":   customer.FirstName,
			"lastName":    customer.LastName,
			"phone":       customer.Phone,
			"lastClient":  customer.LastClient,
			"lastLoginAt": customer.LastLoginAt,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"email":     customer.Email,
			"createdAt": now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"email": customer.Email}, update, options.Update().SetUpsert(true))
	return err
}

// FindByEmail finds a customer by email
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
