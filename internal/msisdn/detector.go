package msisdn

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"golang.org/x/exp/slog"
)

// PrimaryKey is the detector key of the single phone field. Bulk rows use their index.
const PrimaryKey = -1

// DefaultDelay is the quiet period before a number is validated
const DefaultDelay = 500 * time.Millisecond

// Validator resolves the operator behind an MSISDN
type Validator interface {
	ValidatePhoneNumber(ctx context.Context, msisdn string) (*billstack.PhoneValidation, error)
}

// Result is a completed validation for one detector key
type Result struct {
	Key        int
	Gen        uint64
	Phone      string
	Validation *billstack.PhoneValidation
}

// Detector debounces phone validations per key. Every Schedule or Cancel on a key
// supersedes whatever was pending for it, including validations already in flight.
type Detector struct {
	validator Validator
	delay     time.Duration
	timeout   time.Duration

	mu     sync.Mutex
	timers map[int]*time.Timer
	gens   map[int]uint64
}

// NewDetector creates a Detector; a non-positive delay selects DefaultDelay
func NewDetector(v Validator, delay time.Duration) *Detector {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Detector{
		validator: v,
		delay:     delay,
		timeout:   10 * time.Second,
		timers:    make(map[int]*time.Timer),
		gens:      make(map[int]uint64),
	}
}

// Schedule validates phone under key once the delay passes without another call for key.
// onResult runs on a background goroutine; callers should confirm the result with Current
// under their own lock before applying it.
func (d *Detector) Schedule(key int, phone string, onResult func(Result)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	gen := d.bumpLocked(key)
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.run(key, gen, phone, onResult)
	})
}

func (d *Detector) run(key int, gen uint64, phone string, onResult func(Result)) {
	if !d.isCurrent(key, gen) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	msisdn := Normalize(phone)
	v, err := d.validator.ValidatePhoneNumber(ctx, msisdn)
	if err != nil {
		slog.Debug("Phone validation failed", "msisdn", msisdn, "error", err)
		return
	}
	if v == nil || !d.isCurrent(key, gen) {
		return
	}
	onResult(Result{Key: key, Gen: gen, Phone: phone, Validation: v})
}

// Current reports whether r is still the latest validation for its key
func (d *Detector) Current(r Result) bool {
	return d.isCurrent(r.Key, r.Gen)
}

func (d *Detector) isCurrent(key int, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gens[key] == gen
}

// Cancel drops any pending or in-flight validation for key
func (d *Detector) Cancel(key int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bumpLocked(key)
}

// CancelFrom drops pending validations for every bulk row at index idx or later.
// Row indices shift after a removal, so results for those rows no longer apply.
func (d *Detector) CancelFrom(idx int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.gens {
		if key >= idx {
			d.bumpLocked(key)
		}
	}
}

// Stop drops every pending validation
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.gens {
		d.bumpLocked(key)
	}
}

func (d *Detector) bumpLocked(key int) uint64 {
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	d.gens[key]++
	return d.gens[key]
}
