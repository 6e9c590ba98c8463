package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/billstack-storefront/internal/models"
)

// ErrNotFound is returned by lookups that match nothing
var ErrNotFound = errors.New("not found")

// KVStore is a string key-value store. Beneficiaries and gateway sessions are kept in it.
type KVStore interface {
	// Get returns the value for key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	UpdateStatus(ctx context.Context, reference, status, message string) error
	FindByEmail(ctx context.Context, email string, page, limit int) ([]*models.Order, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Upsert creates the customer or refreshes its login details, keyed by email
	Upsert(ctx context.Context, customer *models.Customer) error
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
}
