package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/billstack-storefront/internal/models"
)

var (
	// ErrStepIncomplete is returned when a step's required fields are not all set
	ErrStepIncomplete = errors.New("wizard: step incomplete")
	// ErrFieldNotApplicable is returned when a field does not belong to the session's purchase type
	ErrFieldNotApplicable = errors.New("wizard: field not applicable")
	// ErrNoForwardStep is returned when advancing from the success step
	ErrNoForwardStep = errors.New("wizard: no step after success")
	// ErrSessionClosed is returned for edits on a closed session
	ErrSessionClosed = errors.New("wizard: session closed")
	// ErrRowIndex is returned for a bulk row index out of range
	ErrRowIndex = errors.New("wizard: bulk row out of range")
	// ErrSessionNotFound is returned by the registry for unknown or expired ids
	ErrSessionNotFound = errors.New("wizard: session not found")
	// ErrNoBeneficiary is returned when there is no single named recipient to save
	ErrNoBeneficiary = errors.New("wizard: no single recipient with a name and phone")
)

// GateError lists what blocks a step
type GateError struct {
	Step    int
	Missing []models.Field
}

func (e *GateError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("step %d incomplete: missing %s", e.Step, strings.Join(names, ", "))
}

func (e *GateError) Unwrap() error { return ErrStepIncomplete }

func notApplicable(t models.PurchaseType, what string) error {
	return fmt.Errorf("%w: %s on %s", ErrFieldNotApplicable, what, t)
}
