package models

import "strings"

// GuestPhoneFallback is sent on guest registration when the flow collected no number
const GuestPhoneFallback = "+2340000000000"

// Details is the per-type field set of a wizard session. Only the variants in this package implement it.
type Details interface {
	Type() PurchaseType
	ContactInfo() *Contact
	// Missing lists the required fields of step that are still empty.
	Missing(step int) []Field
	fields() map[Field]*string
}

// Get returns the value of f and whether f applies to d's purchase type
func Get(d Details, f Field) (string, bool) {
	p, ok := d.fields()[f]
	if !ok {
		return "", false
	}
	return *p, true
}

// Set writes v into f and reports whether f applies to d's purchase type
func Set(d Details, f Field, v string) bool {
	p, ok := d.fields()[f]
	if !ok {
		return false
	}
	*p = v
	return true
}

// Value returns the value of f, or "" when f does not apply
func Value(d Details, f Field) string {
	v, _ := Get(d, f)
	return v
}

// Fields lists the fields d accepts
func Fields(d Details) []Field {
	out := make([]Field, 0, len(d.fields()))
	for f := range d.fields() {
		out = append(out, f)
	}
	return out
}

// RegistrationPhone picks the best contact number for guest registration
func RegistrationPhone(d Details) string {
	for _, f := range []Field{FieldPhone, FieldMeterNumber, FieldDecoderNumber, FieldBettingUserID} {
		if v := Value(d, f); v != "" {
			return v
		}
	}
	return GuestPhoneFallback
}

// NewDetails returns an empty field set for t, with bulk lists holding one empty row
func NewDetails(t PurchaseType) Details {
	switch t {
	case PurchaseAirtime:
		return &AirtimeDetails{Recipients: []BulkRecipient{{}}}
	case PurchaseData:
		return &DataDetails{Numbers: []string{""}}
	case PurchaseElectricity:
		return &ElectricityDetails{}
	case PurchaseCableTV:
		return &CableTVDetails{}
	case PurchaseBetting:
		return &BettingDetails{}
	case PurchaseGiftCard:
		return &GiftCardDetails{}
	case PurchaseESim:
		return &ESimDetails{}
	}
	return nil
}

// Contact holds the fields every flow collects
type Contact struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode,omitempty"`
}

func (c *Contact) ContactInfo() *Contact { return c }

func (c *Contact) contactFields(m map[Field]*string) map[Field]*string {
	m[FieldFullName] = &c.FullName
	m[FieldEmail] = &c.Email
	m[FieldReferralCode] = &c.ReferralCode
	return m
}

// BulkRecipient is one airtime bulk row
type BulkRecipient struct {
	Phone   string `json:"phone"`
	Network string `json:"network"`
	Amount  string `json:"amount"`
}

// Complete reports whether every column of the row is filled
func (r BulkRecipient) Complete() bool {
	return r.Phone != "" && r.Network != "" && r.Amount != ""
}

func missing(pairs ...interface{}) []Field {
	var out []Field
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1].(string) == "" {
			out = append(out, pairs[i].(Field))
		}
	}
	return out
}

// AirtimeDetails is the airtime flow's field set
type AirtimeDetails struct {
	Contact
	Phone      string          `json:"phone"`
	Network    string          `json:"network"`
	Amount     string          `json:"amount"`
	Bulk       bool            `json:"bulk"`
	Recipients []BulkRecipient `json:"recipients"`
}

func (d *AirtimeDetails) Type() PurchaseType { return PurchaseAirtime }

func (d *AirtimeDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldPhone:   &d.Phone,
		FieldNetwork: &d.Network,
		FieldAmount:  &d.Amount,
	})
}

func (d *AirtimeDetails) Missing(step int) []Field {
	if step != 1 {
		return nil
	}
	out := missing(FieldEmail, d.Email, FieldFullName, d.FullName)
	if !d.Bulk {
		return append(out, missing(FieldPhone, d.Phone, FieldNetwork, d.Network, FieldAmount, d.Amount)...)
	}
	for _, r := range d.Recipients {
		if r.Complete() {
			return out
		}
	}
	return append(out, FieldRecipients)
}

// CompleteRecipients returns the rows ready for submission
func (d *AirtimeDetails) CompleteRecipients() []BulkRecipient {
	var out []BulkRecipient
	for _, r := range d.Recipients {
		if r.Complete() {
			out = append(out, r)
		}
	}
	return out
}

// DataDetails is the data flow's field set. Bulk numbers share the selected plan.
type DataDetails struct {
	Contact
	Phone    string   `json:"phone"`
	Network  string   `json:"network"`
	DataType string   `json:"dataType"`
	Plan     string   `json:"plan"`
	Amount   string   `json:"amount"`
	Bulk     bool     `json:"bulk"`
	Numbers  []string `json:"numbers"`
}

func (d *DataDetails) Type() PurchaseType { return PurchaseData }

func (d *DataDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldPhone:    &d.Phone,
		FieldNetwork:  &d.Network,
		FieldDataType: &d.DataType,
		FieldPlan:     &d.Plan,
		FieldAmount:   &d.Amount,
	})
}

func (d *DataDetails) Missing(step int) []Field {
	if step != 1 {
		return nil
	}
	out := missing(FieldNetwork, d.Network, FieldPlan, d.Plan, FieldEmail, d.Email, FieldFullName, d.FullName)
	if !d.Bulk {
		return append(out, missing(FieldPhone, d.Phone)...)
	}
	if len(d.FilledNumbers()) == 0 {
		out = append(out, FieldRecipients)
	}
	return out
}

// FilledNumbers returns the non-blank bulk numbers
func (d *DataDetails) FilledNumbers() []string {
	var out []string
	for _, n := range d.Numbers {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}

// ElectricityDetails is the electricity flow's field set
type ElectricityDetails struct {
	Contact
	Biller      string `json:"billerName"`
	MeterNumber string `json:"meterNumber"`
	Amount      string `json:"amount"`
}

func (d *ElectricityDetails) Type() PurchaseType { return PurchaseElectricity }

func (d *ElectricityDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldBiller:      &d.Biller,
		FieldMeterNumber: &d.MeterNumber,
		FieldAmount:      &d.Amount,
	})
}

func (d *ElectricityDetails) Missing(step int) []Field {
	switch step {
	case 1:
		return missing(FieldFullName, d.FullName, FieldBiller, d.Biller, FieldMeterNumber, d.MeterNumber, FieldEmail, d.Email)
	case 2:
		return missing(FieldAmount, d.Amount)
	}
	return nil
}

// CableTVDetails is the cable TV flow's field set
type CableTVDetails struct {
	Contact
	Provider      string `json:"cableProvider"`
	Plan          string `json:"cablePlan"`
	DecoderNumber string `json:"decoderNumber"`
	Amount        string `json:"amount"`
}

func (d *CableTVDetails) Type() PurchaseType { return PurchaseCableTV }

func (d *CableTVDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldCableProvider: &d.Provider,
		FieldCablePlan:     &d.Plan,
		FieldDecoderNumber: &d.DecoderNumber,
		FieldAmount:        &d.Amount,
	})
}

func (d *CableTVDetails) Missing(step int) []Field {
	switch step {
	case 1:
		return missing(FieldFullName, d.FullName, FieldEmail, d.Email, FieldCableProvider, d.Provider)
	case 2:
		return missing(FieldCablePlan, d.Plan, FieldDecoderNumber, d.DecoderNumber)
	}
	return nil
}

// BettingDetails is the betting top-up field set
type BettingDetails struct {
	Contact
	Platform string `json:"bettingPlatform"`
	UserID   string `json:"bettingUserId"`
	Amount   string `json:"amount"`
}

func (d *BettingDetails) Type() PurchaseType { return PurchaseBetting }

func (d *BettingDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldBettingPlatform: &d.Platform,
		FieldBettingUserID:   &d.UserID,
		FieldAmount:          &d.Amount,
	})
}

func (d *BettingDetails) Missing(step int) []Field {
	if step != 1 {
		return nil
	}
	return missing(FieldBettingPlatform, d.Platform, FieldBettingUserID, d.UserID, FieldAmount, d.Amount,
		FieldEmail, d.Email, FieldFullName, d.FullName)
}

// GiftCardDetails is the gift card field set. Images hold uploaded card photo URLs.
type GiftCardDetails struct {
	Contact
	Phone       string   `json:"phone"`
	Category    string   `json:"giftCardCategory"`
	Country     string   `json:"giftCardCountry"`
	SubCategory string   `json:"giftCardSubCategory"`
	Amount      string   `json:"giftCardAmount"`
	Images      []string `json:"giftCardImages"`
}

func (d *GiftCardDetails) Type() PurchaseType { return PurchaseGiftCard }

func (d *GiftCardDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldPhone:               &d.Phone,
		FieldGiftCardCategory:    &d.Category,
		FieldGiftCardCountry:     &d.Country,
		FieldGiftCardSubCategory: &d.SubCategory,
		FieldGiftCardAmount:      &d.Amount,
	})
}

func (d *GiftCardDetails) Missing(step int) []Field {
	switch step {
	case 1:
		return missing(FieldGiftCardCategory, d.Category, FieldGiftCardAmount, d.Amount)
	case 2:
		return missing(FieldPhone, d.Phone, FieldEmail, d.Email, FieldFullName, d.FullName)
	}
	return nil
}

// ESimDetails is the eSIM field set
type ESimDetails struct {
	Contact
	Phone    string `json:"phone"`
	Country  string `json:"esimCountry"`
	Provider string `json:"esimProvider"`
	Package  string `json:"esimPackage"`
	Amount   string `json:"amount"`
}

func (d *ESimDetails) Type() PurchaseType { return PurchaseESim }

func (d *ESimDetails) fields() map[Field]*string {
	return d.contactFields(map[Field]*string{
		FieldPhone:        &d.Phone,
		FieldESimCountry:  &d.Country,
		FieldESimProvider: &d.Provider,
		FieldESimPackage:  &d.Package,
		FieldAmount:       &d.Amount,
	})
}

func (d *ESimDetails) Missing(step int) []Field {
	switch step {
	case 1:
		return missing(FieldESimCountry, d.Country)
	case 2:
		return missing(FieldESimProvider, d.Provider, FieldPhone, d.Phone, FieldEmail, d.Email,
			FieldFullName, d.FullName, FieldESimPackage, d.Package)
	}
	return nil
}
