package billstack

import (
	"strings"

	"github.com/google/uuid"
)

const mockOTP = "123456"

// mockNetworks mocks the airtime and data network lists
func mockNetworks() []Operator {
	return []Operator{
		{ID: "1", Name: "MTN Nigeria", Currency: "NGN", Prefixes: []string{"0803", "0806", "0703", "0706", "0813", "0816", "0810", "0814", "0903", "0906"}},
		{ID: "2", Name: "Airtel Nigeria", Currency: "NGN", Prefixes: []string{"0802", "0808", "0708", "0812", "0701", "0902", "0901", "0907"}},
		{ID: "3", Name: "Glo Nigeria", Currency: "NGN", Prefixes: []string{"0805", "0807", "0705", "0815", "0811", "0905"}},
		{ID: "4", Name: "9mobile Nigeria", Currency: "NGN", Prefixes: []string{"0809", "0817", "0818", "0909", "0908"}},
	}
}

func mockDataTypes() []DataType {
	return []DataType{
		{Name: "Daily", CategoryID: "4.1"},
		{Name: "Weekly", CategoryID: "4.2"},
		{Name: "Monthly", CategoryID: "4.3"},
		{Name: "Long Term", CategoryID: "4.4"},
		{Name: "Special", CategoryID: "4.5"},
		{Name: "Router & SME", CategoryID: "4.6"},
	}
}

// mockDataPlans returns the same catalogue for every type; callers classify by name.
func mockDataPlans(networkID string) []Product {
	brand := "MTN"
	for _, n := range mockNetworks() {
		if n.ID == networkID {
			brand = strings.Fields(n.Name)[0]
		}
	}
	plan := func(id, name, price string) Product {
		return Product{
			ID:        networkID + "-" + id,
			Name:      brand + " " + name,
			PriceType: "FIXED",
			Price:     PricePair{Operator: price, User: price},
			Currency:  PricePair{Operator: "NGN", User: "NGN"},
		}
	}
	return []Product{
		plan("d1", "100MB (1 day)", "100"),
		plan("d2", "1GB (2 days)", "350"),
		plan("w1", "1.5GB (7 days)", "1000"),
		plan("w2", "6GB (14 days)", "2500"),
		plan("m1", "10GB (30 days)", "4500"),
		plan("m2", "Monthly 25GB", "9000"),
		plan("l1", "120GB (90 days)", "30000"),
		plan("l2", "Broadband 1 Year", "150000"),
		plan("s1", "Xtraview Bonus 2GB", "500"),
		plan("r1", "SME 5GB (30 days)", "2000"),
		plan("r2", "5G Router 100GB", "25000"),
	}
}

func mockElectricityBillers() []Operator {
	return []Operator{
		{ID: "ikedc", Name: "Ikeja Electric", Currency: "NGN"},
		{ID: "ekedc", Name: "Eko Electricity", Currency: "NGN"},
		{ID: "aedc", Name: "Abuja Electricity", Currency: "NGN"},
	}
}

func mockElectricityPlans(billerID string) []PaymentPlan {
	return []PaymentPlan{
		{
			ID:        billerID + "-prepaid",
			Name:      "Prepaid",
			PriceType: "RANGE",
			Price: PlanPrice{
				Min: &PricePair{Operator: "500", User: "500"},
				Max: &PricePair{Operator: "500000", User: "500000"},
			},
			Currency: PricePair{Operator: "NGN", User: "NGN"},
		},
	}
}

func mockCableBillers() []Operator {
	return []Operator{
		{ID: "dstv", Name: "DStv", Currency: "NGN"},
		{ID: "gotv", Name: "GOtv", Currency: "NGN"},
		{ID: "startimes", Name: "StarTimes", Currency: "NGN"},
	}
}

func mockCablePlans(billerID string) []PaymentPlan {
	fixed := func(id, name, price string) PaymentPlan {
		return PaymentPlan{
			ID:        billerID + "-" + id,
			Name:      name,
			PriceType: "FIXED",
			Price:     PlanPrice{Operator: price, User: price},
			Currency:  PricePair{Operator: "NGN", User: "NGN"},
		}
	}
	return []PaymentPlan{
		fixed("basic", "Basic Bouquet", "4000"),
		fixed("family", "Family Bouquet", "7500"),
		fixed("premium", "Premium Bouquet", "24500"),
	}
}

func mockESimProviders(countryCode string) []Operator {
	return []Operator{
		{ID: strings.ToLower(countryCode) + "-airalo", Name: "Airalo", Currency: "USD"},
		{ID: strings.ToLower(countryCode) + "-holafly", Name: "Holafly", Currency: "USD"},
	}
}

func mockESimPackages(providerID string) []Product {
	pkg := func(id, name, price string) Product {
		return Product{
			ID:        providerID + "-" + id,
			Name:      name,
			PriceType: "FIXED",
			Price:     PricePair{Operator: price, User: price},
			Currency:  PricePair{Operator: "NGN", User: "NGN"},
		}
	}
	return []Product{
		pkg("1gb", "1GB / 7 days", "3500"),
		pkg("5gb", "5GB / 30 days", "12000"),
	}
}

// mockValidatePhone resolves the operator from the local four-digit prefix
func mockValidatePhone(msisdn string) *PhoneValidation {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, msisdn)
	local := digits
	if strings.HasPrefix(local, "234") {
		local = "0" + local[3:]
	}

	result := &PhoneValidation{
		Original:   msisdn,
		Normalized: digits,
		Country:    PhoneCountry{ID: "NG", Name: "Nigeria", Prefix: "234"},
	}
	if len(local) < 4 {
		return result
	}
	for _, n := range mockNetworks() {
		for _, p := range n.Prefixes {
			if strings.HasPrefix(local, p) {
				result.IsValid = len(local) == 11
				result.IsFormallyValid = result.IsValid
				result.Operator = PhoneOperator{ID: n.ID, Name: n.Name, Prefix: p, Confidence: 1}
				return result
			}
		}
	}
	return result
}

func mockCreateOrder(req CreateOrderRequest) *Order {
	return &Order{
		ID:               uuid.NewString(),
		Status:           "PENDING",
		RequestReference: req.RequestReference,
	}
}
