// Package msisdn normalises Nigerian phone numbers and maps gateway operators onto network options.
package msisdn

import (
	"strings"
	"unicode/utf8"

	"github.com/ArowuTest/billstack-storefront/internal/models"
)

// CountryPrefix is the Nigerian country calling code
const CountryPrefix = "234"

// MinDetectLength is the length at which a number is worth validating
const MinDetectLength = 10

// Digits drops every non-digit character
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Normalize converts local and international spellings to the 234XXXXXXXXXX form the gateway expects.
// Inputs it cannot place are returned as bare digits.
func Normalize(phone string) string {
	d := Digits(phone)
	switch {
	case strings.HasPrefix(d, CountryPrefix):
		return d
	case strings.HasPrefix(d, "0"):
		return CountryPrefix + d[1:]
	case len(d) == 10:
		return CountryPrefix + d
	}
	return d
}

// ToE164 formats phone as +234XXXXXXXXXX for account registration. Short input is returned unchanged.
func ToE164(phone string) string {
	d := Digits(phone)
	switch {
	case strings.HasPrefix(d, CountryPrefix) && len(d) == 13:
		return "+" + d
	case strings.HasPrefix(d, "0") && len(d) == 11:
		return "+" + CountryPrefix + d[1:]
	case len(d) >= 10:
		return "+" + d
	}
	return phone
}

// ReadyForDetection applies the single-field trigger: the raw input must be at least ten characters.
func ReadyForDetection(raw string) bool {
	return utf8.RuneCountInString(raw) >= MinDetectLength
}

// RowReadyForDetection applies the bulk-row trigger: at least ten digits.
func RowReadyForDetection(raw string) bool {
	return len(Digits(raw)) >= MinDetectLength
}

var brands = [][]string{
	{"mtn"},
	{"airtel"},
	{"glo"},
	{"9mobile", "etisalat"},
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MatchNetwork finds the option for a detected operator: by exact id first, then by brand keyword on both names.
func MatchNetwork(operatorID, operatorName string, networks []models.CatalogOption) (models.CatalogOption, bool) {
	for _, n := range networks {
		if operatorID != "" && n.ID == operatorID {
			return n, true
		}
	}

	detected := strings.ToLower(operatorName)
	for _, n := range networks {
		name := strings.ToLower(n.Name)
		for _, keys := range brands {
			if containsAny(detected, keys) && containsAny(name, keys) {
				return n, true
			}
		}
	}
	return models.CatalogOption{}, false
}
