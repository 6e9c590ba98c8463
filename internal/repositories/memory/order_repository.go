package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository keeps orders in memory, keyed by reference
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*models.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	r.orders[order.Reference] = &cp
	return nil
}

func (r *OrderRepository) FindByReference(_ context.Context, reference string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[reference]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, reference, status, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[reference]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	o.Message = message
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepository) FindByEmail(_ context.Context, email string, page, limit int) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Order{}
	for _, o := range r.orders {
		if o.Email == email {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	start := (page - 1) * limit
	if start < 0 || start >= len(out) {
		return []*models.Order{}, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *OrderRepository) CountByEmail(_ context.Context, email string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, o := range r.orders {
		if o.Email == email {
			n++
		}
	}
	return n, nil
}

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository keeps customers in memory, keyed by email
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*models.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]*models.Customer)}
}

func (r *CustomerRepository) Upsert(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	cp := *customer
	cp.UpdatedAt = now
	if existing, ok := r.customers[customer.Email]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.ID = primitive.NewObjectID()
		cp.CreatedAt = now
	}
	r.customers[customer.Email] = &cp
	return nil
}

func (r *CustomerRepository) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}
