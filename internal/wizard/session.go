// Package wizard implements the multi-step purchase wizard: per-type steps and gates,
// catalog lookups guarded by request generations, and debounced phone network detection.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/msisdn"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"golang.org/x/exp/slog"
)

// Gateway is the subset of the billing gateway the wizard drives
type Gateway interface {
	msisdn.Validator

	AirtimeNetworks(ctx context.Context) ([]billstack.Operator, error)
	DataNetworks(ctx context.Context) ([]billstack.Operator, error)
	DataTypes(ctx context.Context) ([]billstack.DataType, error)
	DataPlans(ctx context.Context, typeID, networkID string) ([]billstack.Product, error)
	ElectricityBillers(ctx context.Context) ([]billstack.Operator, error)
	ElectricityPaymentPlans(ctx context.Context, billerID string) ([]billstack.PaymentPlan, error)
	CableTVBillers(ctx context.Context) ([]billstack.Operator, error)
	CableTVPaymentPlans(ctx context.Context, billerID string) ([]billstack.PaymentPlan, error)
	ESimProviders(ctx context.Context, countryCode string) ([]billstack.Operator, error)
	ESimPackages(ctx context.Context, providerID string) ([]billstack.Product, error)
	ValidateAccount(ctx context.Context, msisdn, productID string) (*billstack.AccountValidation, error)
	RegisterUser(ctx context.Context, req billstack.RegisterUserRequest) error
}

// OrderSubmitter hands a confirmed purchase to fulfilment
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, checkout Checkout) (*models.Order, error)
}

// Options configures a Session
type Options struct {
	ID       string
	ClientID string
	Gateway  Gateway
	// Submitter is optional; without it Confirm moves straight to the success step.
	Submitter     OrderSubmitter
	PhoneDelay    time.Duration
	LookupTimeout time.Duration
	Now           func() time.Time
}

// Session is one purchase wizard. All methods are safe for concurrent use.
type Session struct {
	id        string
	clientID  string
	typ       models.PurchaseType
	gateway   Gateway
	submitter OrderSubmitter
	detector  *msisdn.Detector
	base      context.Context
	timeout   time.Duration
	now       func() time.Time

	mu              sync.Mutex
	open            bool
	step            int
	details         models.Details
	lookups         map[Catalog]*lookup
	accountGen      uint64
	account         *billstack.AccountValidation
	phoneValidation *billstack.PhoneValidation
	reference       string
	order           *models.Order
	message         string
	touched         time.Time

	inflight sync.WaitGroup
}

// New creates and opens a session. base carries values, such as the gateway token, for background calls.
func New(base context.Context, t models.PurchaseType, opts Options) *Session {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		id:        opts.ID,
		clientID:  opts.ClientID,
		typ:       t,
		gateway:   opts.Gateway,
		submitter: opts.Submitter,
		detector:  msisdn.NewDetector(opts.Gateway, opts.PhoneDelay),
		base:      context.WithoutCancel(base),
		timeout:   opts.LookupTimeout,
		now:       opts.Now,
		lookups:   make(map[Catalog]*lookup),
	}
	for _, c := range catalogs {
		s.lookups[c] = &lookup{}
	}
	s.Open()
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// ClientID returns the id of the browser that owns the session
func (s *Session) ClientID() string { return s.clientID }

// Type returns the purchase type
func (s *Session) Type() models.PurchaseType { return s.typ }

// Open resets the session to step 1 and starts the initial catalog loads. Opening an open session is a no-op.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return
	}
	s.resetLocked()
	s.open = true
	s.loadInitialLocked()
	slog.Info("Wizard opened", "sessionId", s.id, "type", s.typ)
}

// Close clears every field, catalog and validation, cancels pending detections and returns to step 1.
// Results of calls still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.open = false
	slog.Info("Wizard closed", "sessionId", s.id, "type", s.typ)
}

func (s *Session) resetLocked() {
	s.step = 1
	s.details = models.NewDetails(s.typ)
	for _, l := range s.lookups {
		l.reset()
	}
	s.accountGen++
	s.account = nil
	s.phoneValidation = nil
	s.reference = ""
	s.order = nil
	s.message = ""
	s.detector.Stop()
	s.touched = s.now()
}

// IsOpen reports whether the session accepts edits
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Step returns the current step
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// LastActivity is the time of the last state change
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Wait blocks until catalog lookups, account validations and registrations started so far have finished,
// or ctx ends. Debounced phone detection is not tracked.
func (s *Session) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Set writes one field and applies its side effects: dependent resets, derived amounts,
// catalog fetches and phone detection.
func (s *Session) Set(field models.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}

	prev, ok := models.Get(s.details, field)
	if !ok {
		return notApplicable(s.typ, string(field))
	}
	models.Set(s.details, field, value)
	s.touched = s.now()
	s.afterSetLocked(field, prev, value)
	return nil
}

// FieldEdit is one field assignment
type FieldEdit struct {
	Field models.Field `json:"field" binding:"required"`
	Value string       `json:"value"`
}

// SetFields applies edits in order and stops at the first error
func (s *Session) SetFields(edits []FieldEdit) error {
	for _, e := range edits {
		if err := s.Set(e.Field, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) afterSetLocked(field models.Field, prev, value string) {
	switch field {
	case models.FieldPhone:
		s.phoneChangedLocked(value)
		return
	}

	switch s.typ {
	case models.PurchaseData:
		switch field {
		case models.FieldNetwork:
			if value != prev {
				s.resetDataDependentsLocked(true)
			}
		case models.FieldDataType:
			if value != prev {
				s.resetDataDependentsLocked(false)
			}
			s.loadDataPlansLocked()
		case models.FieldPlan:
			if p, ok := s.findOption(CatalogPlans, value); ok {
				models.Set(s.details, models.FieldAmount, firstNonEmpty(p.Price, p.OperatorPrice))
			}
		}
	case models.PurchaseElectricity:
		if field == models.FieldBiller && value != "" {
			s.loadPaymentPlansLocked(value)
		}
	case models.PurchaseCableTV:
		switch field {
		case models.FieldCableProvider:
			if value != "" {
				s.loadPaymentPlansLocked(value)
			}
		case models.FieldCablePlan:
			if p, ok := s.findOption(CatalogPaymentPlans, value); ok {
				models.Set(s.details, models.FieldAmount, firstNonEmpty(p.Price, p.OperatorPrice, "0"))
			}
		}
	case models.PurchaseESim:
		switch field {
		case models.FieldESimCountry:
			if value != "" {
				s.loadProvidersLocked(value)
			}
		case models.FieldESimProvider:
			if value != "" {
				s.loadPackagesLocked(value)
			}
		case models.FieldESimPackage:
			if p, ok := s.findOption(CatalogPlans, value); ok {
				models.Set(s.details, models.FieldAmount, p.OperatorPrice)
			}
		}
	}
}

// resetDataDependentsLocked clears what hangs off the data network or data type
func (s *Session) resetDataDependentsLocked(includeType bool) {
	if includeType {
		models.Set(s.details, models.FieldDataType, "")
	}
	models.Set(s.details, models.FieldPlan, "")
	models.Set(s.details, models.FieldAmount, "")
	s.lookups[CatalogPlans].reset()
}

// setNetworkLocked selects a network the way a user would, including dependent resets
func (s *Session) setNetworkLocked(id string) {
	prev, ok := models.Get(s.details, models.FieldNetwork)
	if !ok || prev == id {
		return
	}
	models.Set(s.details, models.FieldNetwork, id)
	if s.typ == models.PurchaseData {
		s.resetDataDependentsLocked(true)
	}
}

// SetBulk switches between single and bulk entry. Leaving bulk mode resets the rows.
func (s *Session) SetBulk(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		d.Bulk = enabled
		if !enabled {
			d.Recipients = []models.BulkRecipient{{}}
		}
	case *models.DataDetails:
		d.Bulk = enabled
		if !enabled {
			d.Numbers = []string{""}
		}
	default:
		return notApplicable(s.typ, "bulk")
	}
	if !enabled {
		s.detector.CancelFrom(0)
	}
	s.touched = s.now()
	return nil
}

// AddRow appends an empty bulk row
func (s *Session) AddRow() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		d.Recipients = append(d.Recipients, models.BulkRecipient{})
	case *models.DataDetails:
		d.Numbers = append(d.Numbers, "")
	default:
		return notApplicable(s.typ, "bulk")
	}
	s.touched = s.now()
	return nil
}

// UpdateRow replaces bulk row idx. Data rows only carry a phone number.
func (s *Session) UpdateRow(idx int, row models.BulkRecipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		if idx < 0 || idx >= len(d.Recipients) {
			return ErrRowIndex
		}
		prev := d.Recipients[idx].Phone
		d.Recipients[idx] = row
		if row.Phone != prev {
			s.rowPhoneChangedLocked(idx, row.Phone)
		}
	case *models.DataDetails:
		if idx < 0 || idx >= len(d.Numbers) {
			return ErrRowIndex
		}
		d.Numbers[idx] = row.Phone
	default:
		return notApplicable(s.typ, "bulk")
	}
	s.touched = s.now()
	return nil
}

// RemoveRow deletes bulk row idx unless it is the last one
func (s *Session) RemoveRow(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		if idx < 0 || idx >= len(d.Recipients) {
			return ErrRowIndex
		}
		if len(d.Recipients) > 1 {
			d.Recipients = append(d.Recipients[:idx:idx], d.Recipients[idx+1:]...)
			s.detector.CancelFrom(idx)
		}
	case *models.DataDetails:
		if idx < 0 || idx >= len(d.Numbers) {
			return ErrRowIndex
		}
		if len(d.Numbers) > 1 {
			d.Numbers = append(d.Numbers[:idx:idx], d.Numbers[idx+1:]...)
		}
	default:
		return notApplicable(s.typ, "bulk")
	}
	s.touched = s.now()
	return nil
}

// AddGiftCardImage attaches an uploaded card photo
func (s *Session) AddGiftCardImage(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	d, ok := s.details.(*models.GiftCardDetails)
	if !ok {
		return notApplicable(s.typ, "gift card images")
	}
	d.Images = append(d.Images, url)
	s.touched = s.now()
	return nil
}

// Beneficiary returns the single airtime or data recipient entered so far, named after the buyer.
// Bulk entry has no single recipient.
func (s *Session) Beneficiary() (models.Beneficiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return models.Beneficiary{}, ErrSessionClosed
	}
	var phone string
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		if d.Bulk {
			return models.Beneficiary{}, ErrNoBeneficiary
		}
		phone = d.Phone
	case *models.DataDetails:
		if d.Bulk {
			return models.Beneficiary{}, ErrNoBeneficiary
		}
		phone = d.Phone
	default:
		return models.Beneficiary{}, notApplicable(s.typ, "beneficiary")
	}
	b := models.Beneficiary{
		Name:  strings.TrimSpace(s.details.ContactInfo().FullName),
		Phone: strings.Join(strings.Fields(phone), ""),
	}
	if b.Name == "" || b.Phone == "" {
		return models.Beneficiary{}, ErrNoBeneficiary
	}
	return b, nil
}

// Advance moves forward one step. On a data-entry step it checks the gate and runs the step's
// proceed action; on the confirm step it submits the order.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}

	switch s.step {
	case s.typ.SuccessStep():
		return ErrNoForwardStep
	case s.typ.ConfirmStep():
		if err := s.submitLocked(ctx); err != nil {
			return err
		}
		s.step = s.typ.SuccessStep()
		s.touched = s.now()
		return nil
	}

	if missing := s.details.Missing(s.step); len(missing) > 0 {
		return &GateError{Step: s.step, Missing: missing}
	}
	s.proceedLocked(s.step)
	s.step++
	if s.step == s.typ.ConfirmStep() && s.reference == "" {
		s.reference = newReference()
	}
	s.touched = s.now()
	return nil
}

// Back moves back one step. From the success step it closes the session.
func (s *Session) Back() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.step == s.typ.SuccessStep() {
		s.mu.Unlock()
		s.Close()
		return nil
	}
	if s.step > 1 {
		s.step--
	}
	s.touched = s.now()
	s.mu.Unlock()
	return nil
}

// proceedLocked runs the side effects attached to leaving step
func (s *Session) proceedLocked(step int) {
	register := false
	switch s.typ {
	case models.PurchaseAirtime, models.PurchaseData, models.PurchaseBetting:
		register = step == 1
	case models.PurchaseElectricity:
		register = step == 1
		if step == 1 {
			if plan := s.electricityPlanLocked(); plan != "" {
				s.validateAccountLocked(models.Value(s.details, models.FieldMeterNumber), plan)
			}
		}
	case models.PurchaseCableTV:
		register = true
		if step == 2 {
			if plan := models.Value(s.details, models.FieldCablePlan); plan != "" {
				s.validateAccountLocked(models.Value(s.details, models.FieldDecoderNumber), plan)
			}
		}
	case models.PurchaseGiftCard, models.PurchaseESim:
		register = step == 2
	}
	if register {
		s.registerGuestLocked()
	}
}

// background runs fn off the lock with a bounded context and tracks it for Wait
func (s *Session) background(fn func(ctx context.Context)) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(s.base, s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *Session) validateAccountLocked(account, productID string) {
	if account == "" || productID == "" {
		return
	}
	s.accountGen++
	gen := s.accountGen
	s.background(func(ctx context.Context) {
		res, err := s.gateway.ValidateAccount(ctx, account, productID)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.accountGen {
			return
		}
		if err != nil {
			slog.Warn("Account validation failed", "sessionId", s.id, "account", account, "error", err)
			s.message = gatewayMessage(err)
			return
		}
		s.account = res
	})
}

func (s *Session) registerGuestLocked() {
	email := s.details.ContactInfo().Email
	if email == "" {
		return
	}
	req := guestRegistration(email, models.RegistrationPhone(s.details), s.details.ContactInfo().FullName)
	s.background(func(ctx context.Context) {
		if err := s.gateway.RegisterUser(ctx, req); err != nil {
			slog.Debug("Guest registration ignored", "sessionId", s.id, "email", req.Email, "error", err)
		}
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
