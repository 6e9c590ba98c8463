package billstack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Billstack gateway.
const DefaultBaseURL = "https://billstack.apps.fuspay.finance"

// ErrUnauthorized is returned when the gateway rejects the bearer token.
var ErrUnauthorized = errors.New("billstack: unauthorized")

type tokenKey struct{}

// WithToken attaches a bearer token to outgoing gateway calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client represents a Billstack API client
type Client struct {
	BaseURL string
	MockAPI bool
	client  *http.Client
}

// NewClient creates a new Billstack API client
func NewClient(baseURL string, timeout time.Duration, mockAPI bool) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: timeout},
	}
}

// AirtimeNetworks lists airtime networks.
func (c *Client) AirtimeNetworks(ctx context.Context) ([]Operator, error) {
	if c.MockAPI {
		return mockNetworks(), nil
	}
	var out []Operator
	return out, c.get(ctx, "/public/airtime/networks", nil, &out)
}

// DataNetworks lists data networks.
func (c *Client) DataNetworks(ctx context.Context) ([]Operator, error) {
	if c.MockAPI {
		return mockNetworks(), nil
	}
	var out []Operator
	return out, c.get(ctx, "/public/data/networks", nil, &out)
}

// DataTypes lists data bundle categories.
func (c *Client) DataTypes(ctx context.Context) ([]DataType, error) {
	if c.MockAPI {
		return mockDataTypes(), nil
	}
	var out []DataType
	return out, c.get(ctx, "/public/data/types", nil, &out)
}

// DataPlans lists plans for a data type on a network. The gateway names the network parameter networkId.
func (c *Client) DataPlans(ctx context.Context, typeID, networkID string) ([]Product, error) {
	if c.MockAPI {
		return mockDataPlans(networkID), nil
	}
	q := url.Values{}
	q.Set("typeId", typeID)
	q.Set("networkId", networkID)
	var out []Product
	return out, c.get(ctx, "/public/data/plans", q, &out)
}

// ElectricityBillers lists electricity distribution companies.
func (c *Client) ElectricityBillers(ctx context.Context) ([]Operator, error) {
	if c.MockAPI {
		return mockElectricityBillers(), nil
	}
	var out []Operator
	return out, c.get(ctx, "/public/electricity/billers", nil, &out)
}

// ElectricityPaymentPlans lists payment plans for a biller.
func (c *Client) ElectricityPaymentPlans(ctx context.Context, billerID string) ([]PaymentPlan, error) {
	if c.MockAPI {
		return mockElectricityPlans(billerID), nil
	}
	q := url.Values{}
	q.Set("billerId", billerID)
	var out []PaymentPlan
	return out, c.get(ctx, "/public/electricity/payment-plan", q, &out)
}

// CableTVBillers lists cable TV providers.
func (c *Client) CableTVBillers(ctx context.Context) ([]Operator, error) {
	if c.MockAPI {
		return mockCableBillers(), nil
	}
	var out []Operator
	return out, c.get(ctx, "/public/cable-tv/billers", nil, &out)
}

// CableTVPaymentPlans lists bouquets for a cable TV provider.
func (c *Client) CableTVPaymentPlans(ctx context.Context, billerID string) ([]PaymentPlan, error) {
	if c.MockAPI {
		return mockCablePlans(billerID), nil
	}
	q := url.Values{}
	q.Set("billerId", billerID)
	var out []PaymentPlan
	return out, c.get(ctx, "/public/cable-tv/payment-plan", q, &out)
}

// ESimProviders lists eSIM providers for an ISO country code.
func (c *Client) ESimProviders(ctx context.Context, countryCode string) ([]Operator, error) {
	if c.MockAPI {
		return mockESimProviders(countryCode), nil
	}
	q := url.Values{}
	q.Set("countryCode", countryCode)
	var out []Operator
	return out, c.get(ctx, "/public/e-sim/providers", q, &out)
}

// ESimPackages lists packages for an eSIM provider.
func (c *Client) ESimPackages(ctx context.Context, providerID string) ([]Product, error) {
	if c.MockAPI {
		return mockESimPackages(providerID), nil
	}
	q := url.Values{}
	q.Set("providerId", providerID)
	var out []Product
	return out, c.get(ctx, "/public/e-sim/packages", q, &out)
}

// ValidatePhoneNumber resolves the operator behind an MSISDN.
func (c *Client) ValidatePhoneNumber(ctx context.Context, msisdn string) (*PhoneValidation, error) {
	if c.MockAPI {
		return mockValidatePhone(msisdn), nil
	}
	q := url.Values{}
	q.Set("msisdn", msisdn)
	var out PhoneValidation
	if err := c.get(ctx, "/public/validate/phone-number", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateAccount resolves the customer behind a meter or decoder number.
func (c *Client) ValidateAccount(ctx context.Context, msisdn, productID string) (*AccountValidation, error) {
	if c.MockAPI {
		return &AccountValidation{AccountID: msisdn, AccountStatus: "ACTIVE", CustomerName: "MOCK CUSTOMER"}, nil
	}
	q := url.Values{}
	q.Set("msisdn", msisdn)
	q.Set("productId", productID)
	var out AccountValidation
	if err := c.get(ctx, "/public/validate/account", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterUser creates a passwordless gateway account.
func (c *Client) RegisterUser(ctx context.Context, req RegisterUserRequest) error {
	if c.MockAPI {
		return nil
	}
	env, err := c.do(ctx, http.MethodPost, "/auth/register/user", nil, req)
	if err != nil {
		return err
	}
	if !env.Status {
		return &APIError{Message: orDefault(env.Message, "registration failed")}
	}
	return nil
}

// OTPLogin asks the gateway to send a one-time password to email.
func (c *Client) OTPLogin(ctx context.Context, email string) (*OTPChallenge, error) {
	if c.MockAPI {
		return &OTPChallenge{Email: email, SandboxOTP: mockOTP, Message: "OTP sent"}, nil
	}
	env, err := c.do(ctx, http.MethodPost, "/auth/otp-login", nil, map[string]string{"email": email})
	if err != nil {
		return nil, err
	}
	// a 200 counts as sent even when status is omitted
	challenge := OTPChallenge{Email: email}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		_ = json.Unmarshal(env.Data, &challenge)
	}
	challenge.Message = env.Message
	return &challenge, nil
}

// VerifyOTPLogin exchanges an OTP for a bearer token. The token may arrive in data.token or at the top level.
func (c *Client) VerifyOTPLogin(ctx context.Context, email, otp string) (*Login, error) {
	if c.MockAPI {
		if otp != mockOTP {
			return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "Invalid or expired OTP"}
		}
		user, _ := json.Marshal(map[string]string{"email": email})
		return &Login{Token: "mock-token-" + email, User: user}, nil
	}
	env, err := c.do(ctx, http.MethodPost, "/auth/verify-otp-login", nil, map[string]string{"email": email, "token": otp})
	if err != nil {
		return nil, err
	}

	login := Login{Message: env.Message}
	var data map[string]json.RawMessage
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil {
		if raw, ok := data["token"]; ok {
			_ = json.Unmarshal(raw, &login.Token)
			delete(data, "token")
		}
		if raw, ok := data["user"]; ok && len(data) == 1 {
			login.User = raw
		} else {
			login.User, _ = json.Marshal(data)
		}
	}
	if login.Token == "" {
		login.Token = env.Token
	}
	if login.Token == "" {
		return nil, &APIError{Message: orDefault(env.Message, "Invalid or expired OTP")}
	}
	return &login, nil
}

// CreateOrder submits an order for fulfilment.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if c.MockAPI {
		return mockCreateOrder(req), nil
	}
	env, err := c.do(ctx, http.MethodPost, "/public/orders", nil, req)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, &APIError{Message: orDefault(env.Message, "Failed to create order")}
	}
	return decodeOrder(env.Data)
}

// VerifyOrder fetches the current state of an order.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) (*Order, error) {
	if c.MockAPI {
		return &Order{ID: orderID, Status: "SUCCESSFUL"}, nil
	}
	env, err := c.do(ctx, http.MethodGet, "/public/orders/"+url.PathEscape(orderID), nil, nil)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, &APIError{Message: orDefault(env.Message, "Failed to verify order status")}
	}
	return decodeOrder(env.Data)
}

func decodeOrder(raw json.RawMessage) (*Order, error) {
	var order Order
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order: %w", err)
		}
	}
	order.Raw = raw
	return &order, nil
}

// get performs a GET and decodes data into out, failing on status=false.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	env, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if !env.Status {
		return &APIError{Message: orDefault(env.Message, "request failed")}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s data: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*envelope, error) {
	reqURL := c.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode >= http.StatusBadRequest {
		if decodeErr == nil && env.Message != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		}
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", decodeErr)
	}
	return &env, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
