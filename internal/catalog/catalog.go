// Package catalog converts gateway catalogs into wizard options and classifies data plans.
package catalog

import (
	"regexp"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
)

// FallbackNetworks is shown for airtime and data until the live list arrives
func FallbackNetworks() []models.CatalogOption {
	return []models.CatalogOption{
		{ID: "mtn", Name: "MTN Nigeria", Currency: "NGN"},
		{ID: "airtel", Name: "Airtel Nigeria", Currency: "NGN"},
		{ID: "glo", Name: "Glo Nigeria", Currency: "NGN"},
		{ID: "9mobile", Name: "9mobile (Etisalat)", Currency: "NGN"},
	}
}

// Data bundle category ids
const (
	DataDaily    = "4.1"
	DataWeekly   = "4.2"
	DataMonthly  = "4.3"
	DataExtended = "4.4"
	DataSpecial  = "4.5"
	DataSME      = "4.6"
)

var (
	dailyPattern    = regexp.MustCompile(`(?i)\(1\s*day\)|\(2\s*days?\)|\bdaily\b`)
	weeklyPattern   = regexp.MustCompile(`(?i)\([7-9]\s*days?\)|\(1[0-4]\s*days?\)|\bweekly\b`)
	monthlyPattern  = regexp.MustCompile(`(?i)\(30\s*days?\)|\bmonthly\b`)
	extendedPattern = regexp.MustCompile(`(?i)2-month|3-month|\(90\s*days?\)|\b1\s*year\b|broadband|\b3\s*months\b|\b2\s*months\b`)
	specialPattern  = regexp.MustCompile(`(?i)special|bonus|xtraview|promo`)
	smePattern      = regexp.MustCompile(`(?i)hynetflex|xtra bundle|5g router|sme`)
)

// Classify reports whether a plan name belongs to a data category. Unknown categories accept everything.
func Classify(name, categoryID string) bool {
	switch categoryID {
	case DataDaily:
		return dailyPattern.MatchString(name)
	case DataWeekly:
		return weeklyPattern.MatchString(name)
	case DataMonthly:
		return monthlyPattern.MatchString(name) && !smePattern.MatchString(name)
	case DataExtended:
		return extendedPattern.MatchString(name)
	case DataSpecial:
		return specialPattern.MatchString(name)
	case DataSME:
		return smePattern.MatchString(name)
	}
	return true
}

// FilterPlans keeps the plans of a category. The gateway does not filter by type, and an
// empty result falls back to the full list so the selector is never blank.
func FilterPlans(plans []models.CatalogOption, categoryID string) []models.CatalogOption {
	var out []models.CatalogOption
	for _, p := range plans {
		if Classify(p.Name, categoryID) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return plans
	}
	return out
}

// FromOperators converts networks, billers and providers
func FromOperators(ops []billstack.Operator) []models.CatalogOption {
	out := make([]models.CatalogOption, 0, len(ops))
	for _, o := range ops {
		out = append(out, models.CatalogOption{ID: o.ID, Name: o.Name, Currency: o.Currency, Prefixes: o.Prefixes})
	}
	return out
}

// FromDataTypes converts data categories; the option id is the category id
func FromDataTypes(types []billstack.DataType) []models.CatalogOption {
	out := make([]models.CatalogOption, 0, len(types))
	for _, t := range types {
		out = append(out, models.CatalogOption{ID: t.CategoryID, Name: t.Name})
	}
	return out
}

// FromProducts converts data plans and eSIM packages
func FromProducts(products []billstack.Product) []models.CatalogOption {
	out := make([]models.CatalogOption, 0, len(products))
	for _, p := range products {
		out = append(out, models.CatalogOption{
			ID:            p.ID,
			Name:          p.Name,
			Currency:      p.Currency.User,
			Price:         p.Price.User,
			OperatorPrice: p.Price.Operator,
		})
	}
	return out
}

// FromPaymentPlans converts electricity and cable TV plans
func FromPaymentPlans(plans []billstack.PaymentPlan) []models.CatalogOption {
	out := make([]models.CatalogOption, 0, len(plans))
	for _, p := range plans {
		opt := models.CatalogOption{
			ID:            p.ID,
			Name:          p.Name,
			Currency:      p.Currency.User,
			Price:         p.Price.User,
			OperatorPrice: p.Price.Operator,
		}
		if p.Price.Min != nil {
			opt.MinAmount = firstNonEmpty(p.Price.Min.User, p.Price.Min.Operator)
		}
		if p.Price.Max != nil {
			opt.MaxAmount = firstNonEmpty(p.Price.Max.User, p.Price.Max.Operator)
		}
		out = append(out, opt)
	}
	return out
}

// Find returns the option with id
func Find(options []models.CatalogOption, id string) (models.CatalogOption, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return models.CatalogOption{}, false
}

// NameOf returns the display name for id, falling back to the id itself
func NameOf(options []models.CatalogOption, id string) string {
	if o, ok := Find(options, id); ok && o.Name != "" {
		return o.Name
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
