package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
)

// WizardService defines the interface for purchase wizard sessions
type WizardService interface {
	// Open starts a new session of type t owned by clientID
	Open(ctx context.Context, clientID string, t models.PurchaseType) (*wizard.Session, error)

	// Get returns the session id if it exists and belongs to clientID
	Get(clientID, id string) (*wizard.Session, error)

	// Reopen reopens a closed session with fresh state
	Reopen(ctx context.Context, clientID, id string) (*wizard.Session, error)

	// Close closes the session; it stays addressable until reaped
	Close(clientID, id string) error
}

// BeneficiaryService defines the interface for saved recipients
type BeneficiaryService interface {
	List(ctx context.Context, clientID string) ([]models.Beneficiary, error)

	// Save adds a beneficiary unless its phone is already saved
	Save(ctx context.Context, clientID string, b models.Beneficiary) ([]models.Beneficiary, error)

	Remove(ctx context.Context, clientID, phone string) ([]models.Beneficiary, error)
}

// AuthService defines the interface for passwordless login
type AuthService interface {
	RequestOTP(ctx context.Context, email string) (*billstack.OTPChallenge, error)
	VerifyOTP(ctx context.Context, clientID string, req *models.VerifyOTPRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, clientID string) error
	Me(ctx context.Context, clientID string) (json.RawMessage, error)
}

// OrderService defines the interface for order hand-off and history
type OrderService interface {
	wizard.OrderSubmitter

	// Verify refreshes an order's status from the gateway
	Verify(ctx context.Context, clientID, reference string) (*models.Order, error)

	// ListOrders returns a customer's orders, newest first, and the total count
	ListOrders(ctx context.Context, email string, page, limit int) ([]*models.Order, int64, error)
}

// GiftCardImageService defines the interface for gift card photo uploads
type GiftCardImageService interface {
	// Upload normalises the image and stores it, returning its public URL
	Upload(ctx context.Context, sessionID string, r io.Reader) (string, error)
}
