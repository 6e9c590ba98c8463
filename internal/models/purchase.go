package models

import "fmt"

// PurchaseType selects the product flow a wizard session drives
type PurchaseType string

const (
	PurchaseAirtime     PurchaseType = "airtime"
	PurchaseData        PurchaseType = "data"
	PurchaseElectricity PurchaseType = "electricity"
	PurchaseGiftCard    PurchaseType = "giftcard"
	PurchaseCableTV     PurchaseType = "cabletv"
	PurchaseBetting     PurchaseType = "betting"
	PurchaseESim        PurchaseType = "esim"
)

// PurchaseTypes lists every supported flow
var PurchaseTypes = []PurchaseType{
	PurchaseAirtime,
	PurchaseData,
	PurchaseElectricity,
	PurchaseGiftCard,
	PurchaseCableTV,
	PurchaseBetting,
	PurchaseESim,
}

// ParsePurchaseType validates s against the closed set of purchase types
func ParsePurchaseType(s string) (PurchaseType, error) {
	for _, t := range PurchaseTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown purchase type %q", s)
}

// StepLabels returns the indicator labels, one per step
func (t PurchaseType) StepLabels() []string {
	switch t {
	case PurchaseElectricity:
		return []string{"Info", "Amount", "Confirm", "Done"}
	case PurchaseGiftCard:
		return []string{"Card", "Contact", "Confirm", "Done"}
	case PurchaseCableTV:
		return []string{"Provider", "Plan", "Confirm", "Done"}
	case PurchaseESim:
		return []string{"Country", "Package", "Confirm", "Done"}
	default:
		return []string{"Details", "Confirm", "Done"}
	}
}

// TotalSteps is the number of steps including the success step
func (t PurchaseType) TotalSteps() int {
	return len(t.StepLabels())
}

// ConfirmStep is the step showing the summary
func (t PurchaseType) ConfirmStep() int {
	return t.TotalSteps() - 1
}

// SuccessStep is the terminal step
func (t PurchaseType) SuccessStep() int {
	return t.TotalSteps()
}

// Field names a user-editable wizard input
type Field string

const (
	FieldFullName     Field = "fullName"
	FieldEmail        Field = "email"
	FieldReferralCode Field = "referralCode"
	FieldPhone        Field = "phone"
	FieldNetwork      Field = "network"
	FieldAmount       Field = "amount"
	FieldDataType     Field = "dataType"
	FieldPlan         Field = "plan"

	FieldBiller      Field = "billerName"
	FieldMeterNumber Field = "meterNumber"

	FieldCableProvider Field = "cableProvider"
	FieldCablePlan     Field = "cablePlan"
	FieldDecoderNumber Field = "decoderNumber"

	FieldBettingPlatform Field = "bettingPlatform"
	FieldBettingUserID   Field = "bettingUserId"

	FieldGiftCardCategory    Field = "giftCardCategory"
	FieldGiftCardCountry     Field = "giftCardCountry"
	FieldGiftCardSubCategory Field = "giftCardSubCategory"
	FieldGiftCardAmount      Field = "giftCardAmount"

	FieldESimCountry  Field = "esimCountry"
	FieldESimProvider Field = "esimProvider"
	FieldESimPackage  Field = "esimPackage"

	// FieldRecipients is reported when bulk mode has no usable row
	FieldRecipients Field = "recipients"
)

// Static option lists for flows without a gateway catalog
var (
	BettingPlatforms      = []string{"Bet9ja", "SportyBet", "1xBet", "BetKing"}
	GiftCardCategories    = []string{"Amazon", "iTunes", "Google Play", "Steam"}
	GiftCardCountries     = []string{"US", "UK", "NG"}
	GiftCardSubCategories = []string{"Physical", "Digital"}
	GiftCardAmounts       = []string{"5000", "10000", "20000", "50000"}
	ESimCountries         = []string{"NG", "GH", "KE", "ZA"}
)

// ESimCountryName returns the display name for the supported eSIM countries
func ESimCountryName(code string) string {
	switch code {
	case "NG":
		return "🇳🇬 Nigeria"
	case "GH":
		return "🇬🇭 Ghana"
	case "KE":
		return "🇰🇪 Kenya"
	case "ZA":
		return "🇿🇦 South Africa"
	}
	return code
}
