package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ArowuTest/billstack-storefront/internal/catalog"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/pricing"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/shopspring/decimal"
)

// dateTimeLayout matches the en-NG medium date, short time style
const dateTimeLayout = "2 Jan 2006, 15:04"

// View is a point-in-time copy of a session
type View struct {
	ID               string                        `json:"id"`
	Type             models.PurchaseType           `json:"type"`
	Open             bool                          `json:"open"`
	Step             int                           `json:"step"`
	TotalSteps       int                           `json:"totalSteps"`
	ConfirmStep      int                           `json:"confirmStep"`
	StepLabels       []string                      `json:"stepLabels"`
	Details          json.RawMessage               `json:"details"`
	Missing          []models.Field                `json:"missing,omitempty"`
	Lookups          map[Catalog]LookupView        `json:"lookups"`
	StaticOptions    map[string][]string           `json:"staticOptions,omitempty"`
	ValidatedAccount *billstack.AccountValidation  `json:"validatedAccount,omitempty"`
	PhoneValidation  *billstack.PhoneValidation    `json:"phoneValidation,omitempty"`
	Quote            pricing.Quote                 `json:"quote"`
	Summary          []models.ConfirmRow           `json:"summary,omitempty"`
	Reference        string                        `json:"reference,omitempty"`
	Order            *models.Order                 `json:"order,omitempty"`
	Message          string                        `json:"message,omitempty"`
}

// Snapshot copies the session state for rendering
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	details, _ := json.Marshal(s.details)
	v := View{
		ID:               s.id,
		Type:             s.typ,
		Open:             s.open,
		Step:             s.step,
		TotalSteps:       s.typ.TotalSteps(),
		ConfirmStep:      s.typ.ConfirmStep(),
		StepLabels:       s.typ.StepLabels(),
		Details:          details,
		Lookups:          make(map[Catalog]LookupView, len(s.lookups)),
		StaticOptions:    staticOptions(s.typ),
		ValidatedAccount: s.account,
		PhoneValidation:  s.phoneValidation,
		Quote:            pricing.NewQuote(s.payableAmountLocked()),
		Reference:        s.reference,
		Order:            s.order,
		Message:          s.message,
	}
	if s.step < s.typ.ConfirmStep() {
		v.Missing = s.details.Missing(s.step)
	}
	for c, l := range s.lookups {
		v.Lookups[c] = LookupView{
			Options: append([]models.CatalogOption(nil), l.options...),
			Loading: l.loading,
			Error:   l.err,
		}
	}
	if s.step >= s.typ.ConfirmStep() {
		v.Summary = s.summaryLocked()
	}
	return v
}

func staticOptions(t models.PurchaseType) map[string][]string {
	switch t {
	case models.PurchaseBetting:
		return map[string][]string{string(models.FieldBettingPlatform): models.BettingPlatforms}
	case models.PurchaseGiftCard:
		return map[string][]string{
			string(models.FieldGiftCardCategory):    models.GiftCardCategories,
			string(models.FieldGiftCardCountry):     models.GiftCardCountries,
			string(models.FieldGiftCardSubCategory): models.GiftCardSubCategories,
			string(models.FieldGiftCardAmount):      models.GiftCardAmounts,
		}
	case models.PurchaseESim:
		return map[string][]string{string(models.FieldESimCountry): models.ESimCountries}
	}
	return nil
}

// payableAmountLocked is the amount the bonus and summary are based on. Bulk airtime sums
// its complete rows; bulk data multiplies the plan price by the number count.
func (s *Session) payableAmountLocked() string {
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		if !d.Bulk {
			return d.Amount
		}
		total := decimal.Zero
		for _, r := range d.CompleteRecipients() {
			if n, ok := pricing.ParseAmount(r.Amount); ok {
				total = total.Add(n)
			}
		}
		return total.String()
	case *models.DataDetails:
		if !d.Bulk {
			return d.Amount
		}
		n, ok := pricing.ParseAmount(d.Amount)
		if !ok {
			return d.Amount
		}
		return n.Mul(decimal.NewFromInt(int64(len(d.FilledNumbers())))).String()
	case *models.GiftCardDetails:
		return d.Amount
	}
	return models.Value(s.details, models.FieldAmount)
}

func orDash(v string) string {
	if v == "" {
		return pricing.EmptyValue
	}
	return v
}

func row(label, value string) models.ConfirmRow {
	return models.ConfirmRow{Label: label, Value: value}
}

func (s *Session) phoneRowLocked() string {
	switch d := s.details.(type) {
	case *models.AirtimeDetails:
		if d.Bulk {
			return recipients(len(d.CompleteRecipients()))
		}
	case *models.DataDetails:
		if d.Bulk {
			return recipients(len(d.FilledNumbers()))
		}
	}
	return orDash(models.Value(s.details, models.FieldPhone))
}

func recipients(n int) string {
	if n == 1 {
		return "1 recipient"
	}
	return strconv.Itoa(n) + " recipients"
}

// summaryLocked builds the confirm rows for the session's purchase type
func (s *Session) summaryLocked() []models.ConfirmRow {
	c := s.details.ContactInfo()
	val := func(f models.Field) string { return models.Value(s.details, f) }
	nameIn := func(cat Catalog, f models.Field) string {
		return orDash(catalog.NameOf(s.lookups[cat].options, val(f)))
	}
	accountName := "Not validated"
	if s.account != nil && s.account.CustomerName != "" {
		accountName = s.account.CustomerName
	}

	amount := s.payableAmountLocked()
	rows := []models.ConfirmRow{row("Name:", orDash(c.FullName)), row("Email:", orDash(c.Email))}
	tail := func(amountLabel string) []models.ConfirmRow {
		return []models.ConfirmRow{
			row("Amount:", amountLabel),
			row("Stamp Duty:", pricing.StampDuty),
			row("Ref No:", s.reference),
		}
	}

	switch s.typ {
	case models.PurchaseAirtime:
		rows = append(rows, row("Network:", nameIn(CatalogNetworks, models.FieldNetwork)), row("Phone Number:", s.phoneRowLocked()))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
	case models.PurchaseData:
		rows = append(rows,
			row("Network:", nameIn(CatalogNetworks, models.FieldNetwork)),
			row("Data Plan:", nameIn(CatalogPlans, models.FieldPlan)),
			row("Phone Number:", s.phoneRowLocked()))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
	case models.PurchaseElectricity:
		rows = append(rows,
			row("Biller Name:", nameIn(CatalogBillers, models.FieldBiller)),
			row("Account Name:", accountName),
			row("Meter Number:", orDash(val(models.FieldMeterNumber))))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
	case models.PurchaseCableTV:
		rows = append(rows,
			row("Provider:", nameIn(CatalogBillers, models.FieldCableProvider)),
			row("Account Name:", accountName),
			row("Plan:", nameIn(CatalogPaymentPlans, models.FieldCablePlan)),
			row("Decoder Number:", orDash(val(models.FieldDecoderNumber))))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
	case models.PurchaseGiftCard:
		rows = append(rows,
			row("Category:", orDash(val(models.FieldGiftCardCategory))),
			row("Country:", orDash(val(models.FieldGiftCardCountry))),
			row("Type:", orDash(val(models.FieldGiftCardSubCategory))))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
	case models.PurchaseBetting:
		rows = append(rows,
			row("Platform:", orDash(val(models.FieldBettingPlatform))),
			row("User ID:", orDash(val(models.FieldBettingUserID))))
		rows = append(rows, tail(pricing.AmountLabel(amount))...)
		rows = append(rows, row("Date & Time:", s.now().Format(dateTimeLayout)))
	case models.PurchaseESim:
		rows = append(rows,
			row("Country:", orDash(models.ESimCountryName(val(models.FieldESimCountry)))),
			row("Service Provider:", nameIn(CatalogProviders, models.FieldESimProvider)),
			row("Package:", nameIn(CatalogPlans, models.FieldESimPackage)),
			row("Amount:", pricing.AmountLabelAnyCurrency(amount)),
			row("Phone Number:", s.phoneRowLocked()),
			row("Stamp Duty:", pricing.StampDuty),
			row("Ref No:", s.reference))
	default:
		panic(fmt.Sprintf("wizard: no summary for %q", s.typ))
	}
	return append(rows, row("Loyalty Bonus:", pricing.BonusLabel(amount)))
}
