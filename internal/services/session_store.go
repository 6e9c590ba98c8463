package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
)

const (
	tokenKey = "billstack_token:"
	userKey  = "billstack_user:"
)

// SessionStore keeps each client's gateway bearer token and user snapshot as opaque strings
type SessionStore struct {
	kv repositories.KVStore
}

func NewSessionStore(kv repositories.KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save stores the token and user blob for clientID
func (s *SessionStore) Save(ctx context.Context, clientID, token string, user json.RawMessage) error {
	if err := s.kv.Set(ctx, tokenKey+clientID, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if len(user) == 0 {
		user = json.RawMessage("null")
	}
	if err := s.kv.Set(ctx, userKey+clientID, string(user)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" for a guest
func (s *SessionStore) Token(ctx context.Context, clientID string) (string, error) {
	v, _, err := s.kv.Get(ctx, tokenKey+clientID)
	return v, err
}

// User returns the stored user snapshot, or nil for a guest
func (s *SessionStore) User(ctx context.Context, clientID string) (json.RawMessage, error) {
	v, ok, err := s.kv.Get(ctx, userKey+clientID)
	if err != nil || !ok {
		return nil, err
	}
	return json.RawMessage(v), nil
}

// IsAuthenticated reports whether clientID holds a token
func (s *SessionStore) IsAuthenticated(ctx context.Context, clientID string) (bool, error) {
	t, err := s.Token(ctx, clientID)
	return t != "", err
}

// Clear drops both slots
func (s *SessionStore) Clear(ctx context.Context, clientID string) error {
	if err := s.kv.Delete(ctx, tokenKey+clientID); err != nil {
		return err
	}
	return s.kv.Delete(ctx, userKey+clientID)
}

// Context attaches clientID's token, if any, to ctx for gateway calls
func (s *SessionStore) Context(ctx context.Context, clientID string) context.Context {
	t, err := s.Token(ctx, clientID)
	if err != nil || t == "" {
		return ctx
	}
	return billstack.WithToken(ctx, t)
}
