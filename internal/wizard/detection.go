package wizard

import (
	"github.com/ArowuTest/billstack-storefront/internal/catalog"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/msisdn"
)

// phoneChangedLocked (re)schedules detection for the single phone field
func (s *Session) phoneChangedLocked(phone string) {
	if !msisdn.ReadyForDetection(phone) {
		s.detector.Cancel(msisdn.PrimaryKey)
		s.phoneValidation = nil
		return
	}
	s.detector.Schedule(msisdn.PrimaryKey, phone, s.applyPhoneResult)
}

func (s *Session) applyPhoneResult(r msisdn.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || !s.detector.Current(r) {
		return
	}
	s.phoneValidation = r.Validation

	if _, ok := models.Get(s.details, models.FieldNetwork); !ok {
		return
	}
	op := r.Validation.Operator
	if matched, ok := msisdn.MatchNetwork(op.ID, op.Name, s.lookups[CatalogNetworks].options); ok {
		s.setNetworkLocked(matched.ID)
	}
}

// rowPhoneChangedLocked (re)schedules detection for airtime bulk row idx
func (s *Session) rowPhoneChangedLocked(idx int, phone string) {
	if !msisdn.RowReadyForDetection(phone) {
		s.detector.Cancel(idx)
		return
	}
	s.detector.Schedule(idx, phone, s.applyRowResult)
}

// applyRowResult sets the row's network when the detected operator maps to a different one
func (s *Session) applyRowResult(r msisdn.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || !s.detector.Current(r) {
		return
	}
	d, ok := s.details.(*models.AirtimeDetails)
	if !ok || r.Key < 0 || r.Key >= len(d.Recipients) {
		return
	}

	networks := s.lookups[CatalogNetworks].options
	if len(networks) == 0 {
		networks = catalog.FallbackNetworks()
	}
	op := r.Validation.Operator
	matched, ok := msisdn.MatchNetwork(op.ID, op.Name, networks)
	if !ok {
		return
	}
	if d.Recipients[r.Key].Network != matched.ID {
		d.Recipients[r.Key].Network = matched.ID
	}
}
