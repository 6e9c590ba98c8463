package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"golang.org/x/exp/slog"
)

var _ BeneficiaryService = (*BeneficiaryServiceImpl)(nil)

// ErrInvalidBeneficiary is returned when name or phone is blank
var ErrInvalidBeneficiary = errors.New("beneficiary needs a name and a phone")

const beneficiariesKey = "beneficiaries:"

// BeneficiaryServiceImpl stores each client's beneficiaries as one JSON array
type BeneficiaryServiceImpl struct {
	kv repositories.KVStore
	mu sync.Mutex
}

func NewBeneficiaryService(kv repositories.KVStore) *BeneficiaryServiceImpl {
	return &BeneficiaryServiceImpl{kv: kv}
}

func (s *BeneficiaryServiceImpl) load(ctx context.Context, clientID string) ([]models.Beneficiary, error) {
	raw, ok, err := s.kv.Get(ctx, beneficiariesKey+clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to read beneficiaries: %w", err)
	}
	list := []models.Beneficiary{}
	if !ok || raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// A corrupt slot is treated as empty and overwritten on the next save.
		slog.Warn("Discarding unreadable beneficiaries", "clientId", clientID, "error", err)
		return []models.Beneficiary{}, nil
	}
	return list, nil
}

func (s *BeneficiaryServiceImpl) store(ctx context.Context, clientID string, list []models.Beneficiary) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, beneficiariesKey+clientID, string(raw)); err != nil {
		return fmt.Errorf("failed to write beneficiaries: %w", err)
	}
	return nil
}

// List returns the saved beneficiaries in insertion order
func (s *BeneficiaryServiceImpl) List(ctx context.Context, clientID string) ([]models.Beneficiary, error) {
	return s.load(ctx, clientID)
}

// Save appends b unless a beneficiary with the same phone exists. The first name saved for a phone wins.
func (s *BeneficiaryServiceImpl) Save(ctx context.Context, clientID string, b models.Beneficiary) ([]models.Beneficiary, error) {
	b.Name, b.Phone = strings.TrimSpace(b.Name), strings.TrimSpace(b.Phone)
	if b.Name == "" || b.Phone == "" {
		return nil, ErrInvalidBeneficiary
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, existing := range list {
		if existing.Phone == b.Phone {
			return list, nil
		}
	}
	list = append(list, b)
	if err := s.store(ctx, clientID, list); err != nil {
		return nil, err
	}
	slog.Info("Beneficiary saved", "clientId", clientID, "phone", b.Phone)
	return list, nil
}

// Remove deletes the beneficiary with phone, if any
func (s *BeneficiaryServiceImpl) Remove(ctx context.Context, clientID, phone string) ([]models.Beneficiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	kept := list[:0]
	for _, b := range list {
		if b.Phone != phone {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(list) {
		return list, nil
	}
	if err := s.store(ctx, clientID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
