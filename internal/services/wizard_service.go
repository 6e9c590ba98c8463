package services

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var _ WizardService = (*WizardServiceImpl)(nil)

// WizardOptions tunes the sessions a WizardServiceImpl creates
type WizardOptions struct {
	PhoneDebounce time.Duration
	LookupTimeout time.Duration
	// SessionTTL is how long an untouched session survives. Zero disables reaping.
	SessionTTL time.Duration
}

// WizardServiceImpl is the registry of live wizard sessions
type WizardServiceImpl struct {
	gateway   wizard.Gateway
	submitter wizard.OrderSubmitter
	sessions  *SessionStore
	opts      WizardOptions

	mu   sync.RWMutex
	live map[string]*wizard.Session
}

// NewWizardService creates the registry. submitter may be nil to skip order hand-off.
func NewWizardService(gateway wizard.Gateway, submitter wizard.OrderSubmitter, sessions *SessionStore, opts WizardOptions) *WizardServiceImpl {
	return &WizardServiceImpl{
		gateway:   gateway,
		submitter: submitter,
		sessions:  sessions,
		opts:      opts,
		live:      make(map[string]*wizard.Session),
	}
}

// Open creates a session. Background lookups carry the client's gateway token, if any.
func (s *WizardServiceImpl) Open(ctx context.Context, clientID string, t models.PurchaseType) (*wizard.Session, error) {
	base := context.Background()
	if s.sessions != nil {
		base = s.sessions.Context(ctx, clientID)
	}
	sess := wizard.New(base, t, wizard.Options{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Gateway:       s.gateway,
		Submitter:     s.submitter,
		PhoneDelay:    s.opts.PhoneDebounce,
		LookupTimeout: s.opts.LookupTimeout,
	})

	s.mu.Lock()
	s.live[sess.ID()] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get looks a session up. Sessions owned by another client are reported as not found.
func (s *WizardServiceImpl) Get(clientID, id string) (*wizard.Session, error) {
	s.mu.RLock()
	sess, ok := s.live[id]
	s.mu.RUnlock()
	if !ok || sess.ClientID() != clientID {
		return nil, wizard.ErrSessionNotFound
	}
	return sess, nil
}

func (s *WizardServiceImpl) Reopen(ctx context.Context, clientID, id string) (*wizard.Session, error) {
	sess, err := s.Get(clientID, id)
	if err != nil {
		return nil, err
	}
	sess.Open()
	return sess, nil
}

func (s *WizardServiceImpl) Close(clientID, id string) error {
	sess, err := s.Get(clientID, id)
	if err != nil {
		return err
	}
	sess.Close()
	return nil
}

// Reap closes and forgets sessions idle since before cutoff
func (s *WizardServiceImpl) Reap(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*wizard.Session
	for id, sess := range s.live {
		if sess.LastActivity().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.live, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	if len(stale) > 0 {
		slog.Info("Reaped idle wizard sessions", "count", len(stale))
	}
	return len(stale)
}

// Run reaps idle sessions until ctx ends
func (s *WizardServiceImpl) Run(ctx context.Context) {
	if s.opts.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.opts.SessionTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Reap(now.Add(-s.opts.SessionTTL))
		}
	}
}
