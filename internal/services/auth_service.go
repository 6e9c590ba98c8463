package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"golang.org/x/exp/slog"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// ErrNotSignedIn is returned by Me for guests
var ErrNotSignedIn = errors.New("not signed in")

// AuthGateway is the part of the billing gateway that handles OTP login
type AuthGateway interface {
	OTPLogin(ctx context.Context, email string) (*billstack.OTPChallenge, error)
	VerifyOTPLogin(ctx context.Context, email, otp string) (*billstack.Login, error)
}

type AuthServiceImpl struct {
	gateway   AuthGateway
	sessions  *SessionStore
	customers repositories.CustomerRepository
	cfg       *config.Config
}

func NewAuthService(gateway AuthGateway, sessions *SessionStore, customers repositories.CustomerRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{gateway: gateway, sessions: sessions, customers: customers, cfg: cfg}
}

// RequestOTP asks the gateway to email a one-time password
func (s *AuthServiceImpl) RequestOTP(ctx context.Context, email string) (*billstack.OTPChallenge, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	challenge, err := s.gateway.OTPLogin(ctx, email)
	if err != nil {
		slog.Warn("OTP request failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to request otp: %w", err)
	}
	return challenge, nil
}

// VerifyOTP exchanges the OTP for a gateway token, stores it for the client and issues a storefront JWT
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, clientID string, req *models.VerifyOTPRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	login, err := s.gateway.VerifyOTPLogin(ctx, email, strings.TrimSpace(req.OTP))
	if err != nil {
		slog.Warn("OTP verification failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to verify otp: %w", err)
	}
	if err := s.sessions.Save(ctx, clientID, login.Token, login.User); err != nil {
		return nil, err
	}

	profile := parseProfile(login.User)
	customer := &models.Customer{
		Email:       email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Phone:       profile.Phone,
		LastClient:  clientID,
		LastLoginAt: time.Now(),
	}
	if err := s.customers.Upsert(ctx, customer); err != nil {
		slog.Error("Failed to record customer login", "email", email, "error", err)
	}

	token, err := utils.GenerateJWT(email, clientID, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	slog.Info("Customer signed in", "email", email, "clientId", clientID)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWT.ExpiresIn) * time.Second),
		User:      login.User,
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, clientID string) error {
	return s.sessions.Clear(ctx, clientID)
}

// Me returns the user snapshot stored at login
func (s *AuthServiceImpl) Me(ctx context.Context, clientID string) (json.RawMessage, error) {
	user, err := s.sessions.User(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

type profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// parseProfile reads the few fields the storefront records; the blob is otherwise opaque
func parseProfile(raw json.RawMessage) profile {
	var p profile
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}
	return p
}
