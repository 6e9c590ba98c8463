package billstack

import (
	"encoding/json"
	"fmt"
)

// envelope is the wrapper every Billstack endpoint responds with.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
}

// APIError is a business failure reported by the gateway (status=false or a 4xx/5xx with a message).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("billstack: %s (http %d)", e.Message, e.StatusCode)
	}
	return "billstack: " + e.Message
}

// Operator is a network, biller or provider.
type Operator struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Prefixes []string `json:"prefixes"`
}

// DataType is a data bundle category such as "4.3" (monthly).
type DataType struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

// PricePair holds the operator and user-facing price of an item.
type PricePair struct {
	Operator string `json:"operator"`
	User     string `json:"user"`
}

// Product is a data plan or eSIM package.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PriceType string    `json:"priceType"`
	Price     PricePair `json:"price"`
	Currency  PricePair `json:"currency"`
}

// PlanPrice is either a fixed price or a min/max band.
type PlanPrice struct {
	Min      *PricePair `json:"min,omitempty"`
	Max      *PricePair `json:"max,omitempty"`
	Operator string     `json:"operator,omitempty"`
	User     string     `json:"user,omitempty"`
}

// PaymentPlan is an electricity or cable TV plan.
type PaymentPlan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PriceType string    `json:"priceType"`
	Price     PlanPrice `json:"price"`
	Currency  PricePair `json:"currency"`
}

// PhoneOperator is the operator block of a phone validation.
type PhoneOperator struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BrandID    string  `json:"brandId"`
	FullPrefix string  `json:"fullprefix"`
	Prefix     string  `json:"prefix"`
	Number     string  `json:"number"`
	Confidence float64 `json:"confidence"`
}

// PhoneCountry is the country block of a phone validation.
type PhoneCountry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// PhoneValidation is the result of /public/validate/phone-number.
type PhoneValidation struct {
	Original        string        `json:"original"`
	Normalized      string        `json:"normalized"`
	IsValid         bool          `json:"isValid"`
	IsFormallyValid bool          `json:"isFormallyValid"`
	Country         PhoneCountry  `json:"country"`
	Operator        PhoneOperator `json:"operator"`
}

// AccountValidation is the result of /public/validate/account.
type AccountValidation struct {
	AccountID     string `json:"accountId"`
	AccountStatus string `json:"accountStatus"`
	CustomerName  string `json:"customerName"`
}

// RegisterUserRequest is the body of POST /auth/register/user. Phone must be E.164.
type RegisterUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// OTPChallenge is returned by /auth/otp-login. SandboxOTP is only set by sandbox gateways.
type OTPChallenge struct {
	Email      string `json:"email"`
	SandboxOTP string `json:"token,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Login is the outcome of a successful OTP verification.
type Login struct {
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message,omitempty"`
}

// OrderItem is one recipient line of an order.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	OperatorID  string  `json:"operatorId"`
	MSISDN      string  `json:"msisdn"`
	Amount      float64 `json:"amount"`
	CountryCode string  `json:"countryCode"`
}

// CreateOrderRequest is the body of POST /public/orders.
type CreateOrderRequest struct {
	UserID           string      `json:"userId"`
	RequestReference string      `json:"requestReference"`
	ReferralCode     string      `json:"referralCode,omitempty"`
	Items            []OrderItem `json:"items"`
}

// Order is the subset of the order payload the storefront tracks. Raw keeps the full body.
type Order struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"orderId"`
	Status           string          `json:"status"`
	RequestReference string          `json:"requestReference"`
	Raw              json.RawMessage `json:"-"`
}

// Identifier returns whichever order id the gateway populated.
func (o *Order) Identifier() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return o.ID
}
