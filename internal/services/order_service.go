package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/pricing"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"golang.org/x/exp/slog"
)

var _ OrderService = (*OrderServiceImpl)(nil)

// ErrOrderNotFound is returned for unknown references or orders owned by another client
var ErrOrderNotFound = errors.New("order not found")

// OrderGateway is the part of the billing gateway that takes orders
type OrderGateway interface {
	CreateOrder(ctx context.Context, req billstack.CreateOrderRequest) (*billstack.Order, error)
	VerifyOrder(ctx context.Context, orderID string) (*billstack.Order, error)
}

type OrderServiceImpl struct {
	gateway  OrderGateway
	orders   repositories.OrderRepository
	sessions *SessionStore
}

func NewOrderService(gateway OrderGateway, orders repositories.OrderRepository, sessions *SessionStore) *OrderServiceImpl {
	return &OrderServiceImpl{gateway: gateway, orders: orders, sessions: sessions}
}

func (s *OrderServiceImpl) authorize(ctx context.Context, clientID string) context.Context {
	return s.sessions.Context(ctx, clientID)
}

// forget drops a rejected gateway token so the client falls back to guest checkout
func (s *OrderServiceImpl) forget(ctx context.Context, clientID string, err error) {
	if !errors.Is(err, billstack.ErrUnauthorized) {
		return
	}
	if cerr := s.sessions.Clear(ctx, clientID); cerr != nil {
		slog.Error("Failed to clear rejected session", "clientId", clientID, "error", cerr)
	}
}

// SubmitOrder posts the checkout to the gateway and records it
func (s *OrderServiceImpl) SubmitOrder(ctx context.Context, c wizard.Checkout) (*models.Order, error) {
	items := make([]billstack.OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, billstack.OrderItem{
			ProductID:   it.ProductID,
			OperatorID:  it.OperatorID,
			MSISDN:      it.MSISDN,
			Amount:      it.Amount,
			CountryCode: it.CountryCode,
		})
	}
	req := billstack.CreateOrderRequest{
		UserID:           c.Email,
		RequestReference: c.Reference,
		ReferralCode:     c.ReferralCode,
		Items:            items,
	}

	slog.Info("Submitting order", "reference", c.Reference, "type", c.Type, "items", len(items))
	placed, err := s.gateway.CreateOrder(s.authorize(ctx, c.ClientID), req)
	if err != nil {
		s.forget(ctx, c.ClientID, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	amount, _ := pricing.ParseAmount(c.Amount)
	total, _ := amount.Float64()
	status := placed.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	order := &models.Order{
		Reference:      c.Reference,
		GatewayOrderID: placed.Identifier(),
		ClientID:       c.ClientID,
		Email:          c.Email,
		PurchaseType:   c.Type,
		ReferralCode:   c.ReferralCode,
		Items:          c.Items,
		Amount:         total,
		Bonus:          c.Bonus,
		Status:         status,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		// The gateway has the order; only local history is missing.
		slog.Error("Failed to record order", "reference", c.Reference, "gatewayOrderId", order.GatewayOrderID, "error", err)
	}
	slog.Info("Order placed", "reference", c.Reference, "gatewayOrderId", order.GatewayOrderID, "status", status)
	return order, nil
}

// Verify asks the gateway for the order's current status and stores it
func (s *OrderServiceImpl) Verify(ctx context.Context, clientID, reference string) (*models.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.ClientID != clientID {
		return nil, ErrOrderNotFound
	}

	remote, err := s.gateway.VerifyOrder(s.authorize(ctx, clientID), order.GatewayOrderID)
	if err != nil {
		s.forget(ctx, clientID, err)
		return nil, fmt.Errorf("failed to verify order: %w", err)
	}
	if remote.Status != "" && remote.Status != order.Status {
		if err := s.orders.UpdateStatus(ctx, reference, remote.Status, ""); err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = remote.Status
	}
	return order, nil
}

func (s *OrderServiceImpl) ListOrders(ctx context.Context, email string, page, limit int) ([]*models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, err := s.orders.FindByEmail(ctx, email, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.orders.CountByEmail(ctx, email)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return orders, total, nil
}
