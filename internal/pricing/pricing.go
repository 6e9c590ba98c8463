// Package pricing computes the loyalty bonus and formats naira amounts for the confirm summary.
package pricing

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StampDuty is the flat display-only duty shown on every summary
const StampDuty = "₦25.00"

// EmptyValue is shown for unset summary values
const EmptyValue = "—"

var (
	bonusThreshold = decimal.NewFromInt(1000)
	bonusRate      = decimal.New(1, -2)
	printer        = message.NewPrinter(language.Make("en-NG"))
)

// Clean strips currency markers, thousands separators and whitespace
func Clean(amount string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '₦', r == 'N', r == '$', r == ',', unicode.IsSpace(r):
			return -1
		}
		return r
	}, amount)
}

// ParseAmount parses a user-entered amount such as "N1,000" or "₦ 2500"
func ParseAmount(amount string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(Clean(amount))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Bonus is 1% of the amount, floored, for amounts of at least 1000. Invalid input earns nothing.
func Bonus(amount string) int64 {
	n, ok := ParseAmount(amount)
	if !ok || n.LessThan(bonusThreshold) {
		return 0
	}
	return n.Mul(bonusRate).Floor().IntPart()
}

// Quote is what the customer pays and what they get back
type Quote struct {
	Pay   decimal.Decimal `json:"pay"`
	Bonus int64           `json:"bonus"`
	Get   decimal.Decimal `json:"get"`
}

// NewQuote builds the price display for amount
func NewQuote(amount string) Quote {
	pay, ok := ParseAmount(amount)
	if !ok {
		pay = decimal.Zero
	}
	bonus := Bonus(amount)
	return Quote{Pay: pay, Bonus: bonus, Get: pay.Add(decimal.NewFromInt(bonus))}
}

// Group formats n with en-NG thousands separators
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// BonusLabel renders the loyalty bonus summary value
func BonusLabel(amount string) string {
	b := Bonus(amount)
	if b <= 0 {
		return EmptyValue
	}
	return "+₦" + Group(b) + " (1%)"
}

// AmountLabel renders "₦" plus the amount with any naira markers removed
func AmountLabel(amount string) string {
	if amount == "" {
		amount = "0"
	}
	return "₦" + strings.NewReplacer("₦", "", "N", "").Replace(amount)
}

// AmountLabelAnyCurrency also strips a dollar sign, for eSIM packages priced in USD
func AmountLabelAnyCurrency(amount string) string {
	return AmountLabel(strings.ReplaceAll(amount, "$", ""))
}
