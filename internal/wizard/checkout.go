package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/msisdn"
	"github.com/ArowuTest/billstack-storefront/internal/pricing"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"golang.org/x/exp/slog"
)

// Checkout is a confirmed purchase ready for order submission
type Checkout struct {
	SessionID    string
	ClientID     string
	Type         models.PurchaseType
	Reference    string
	Email        string
	FullName     string
	ReferralCode string
	Amount       string
	Bonus        int64
	Items        []models.OrderItem
}

var newReference = utils.GenerateReference

// gatewayMessage is the user-facing text of a failed gateway call
func gatewayMessage(err error) string {
	var apiErr *billstack.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// guestRegistration builds the best-effort account registration sent after the contact step
func guestRegistration(email, phone, fullName string) billstack.RegisterUserRequest {
	first, last := "Guest", "User"
	if parts := strings.Fields(fullName); len(parts) > 0 {
		first = parts[0]
		if len(parts) > 1 {
			last = strings.Join(parts[1:], " ")
		}
	}
	return billstack.RegisterUserRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     msisdn.ToE164(phone),
		Country:   "NG",
	}
}

// Checkout returns the order the session would submit from its current state
func (s *Session) Checkout() Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutLocked()
}

func (s *Session) checkoutLocked() Checkout {
	c := s.details.ContactInfo()
	amount := s.payableAmountLocked()
	return Checkout{
		SessionID:    s.id,
		ClientID:     s.clientID,
		Type:         s.typ,
		Reference:    s.reference,
		Email:        c.Email,
		FullName:     c.FullName,
		ReferralCode: c.ReferralCode,
		Amount:       amount,
		Bonus:        pricing.Bonus(amount),
		Items:        s.orderItemsLocked(),
	}
}

// electricityPlanLocked is the biller's first payment plan, the product both meter
// validation and the order line use
func (s *Session) electricityPlanLocked() string {
	if plans := s.lookups[CatalogPaymentPlans].options; len(plans) > 0 {
		return plans[0].ID
	}
	return ""
}

func (s *Session) orderItemsLocked() []models.OrderItem {
	items := orderItems(s.details)
	if s.typ == models.PurchaseElectricity && len(items) == 1 {
		if plan := s.electricityPlanLocked(); plan != "" {
			items[0].ProductID = plan
		}
	}
	return items
}

func item(product, operator, number, amount, country string) models.OrderItem {
	n, _ := pricing.ParseAmount(amount)
	f, _ := n.Float64()
	return models.OrderItem{ProductID: product, OperatorID: operator, MSISDN: number, Amount: f, CountryCode: country}
}

// orderItems maps the entered details onto one order line per recipient
func orderItems(d models.Details) []models.OrderItem {
	switch d := d.(type) {
	case *models.AirtimeDetails:
		if !d.Bulk {
			return []models.OrderItem{item(d.Network, d.Network, msisdn.Normalize(d.Phone), d.Amount, "NG")}
		}
		var out []models.OrderItem
		for _, r := range d.CompleteRecipients() {
			out = append(out, item(r.Network, r.Network, msisdn.Normalize(r.Phone), r.Amount, "NG"))
		}
		return out
	case *models.DataDetails:
		numbers := []string{d.Phone}
		if d.Bulk {
			numbers = d.FilledNumbers()
		}
		out := make([]models.OrderItem, 0, len(numbers))
		for _, n := range numbers {
			out = append(out, item(d.Plan, d.Network, msisdn.Normalize(n), d.Amount, "NG"))
		}
		return out
	case *models.ElectricityDetails:
		return []models.OrderItem{item(d.Biller, d.Biller, d.MeterNumber, d.Amount, "NG")}
	case *models.CableTVDetails:
		return []models.OrderItem{item(d.Plan, d.Provider, d.DecoderNumber, d.Amount, "NG")}
	case *models.BettingDetails:
		return []models.OrderItem{item(d.Platform, d.Platform, d.UserID, d.Amount, "NG")}
	case *models.GiftCardDetails:
		return []models.OrderItem{item(d.SubCategory, d.Category, msisdn.Normalize(d.Phone), d.Amount, d.Country)}
	case *models.ESimDetails:
		return []models.OrderItem{item(d.Package, d.Provider, msisdn.Normalize(d.Phone), d.Amount, d.Country)}
	}
	return nil
}

// submitLocked hands the confirmed purchase to the submitter. A failure keeps the
// session on the confirm step with the gateway's message.
func (s *Session) submitLocked(ctx context.Context) error {
	if s.submitter == nil {
		return nil
	}
	order, err := s.submitter.SubmitOrder(ctx, s.checkoutLocked())
	if err != nil {
		slog.Error("Order submission failed", "sessionId", s.id, "reference", s.reference, "error", err)
		s.message = gatewayMessage(err)
		return err
	}
	s.order = order
	s.message = ""
	return nil
}
