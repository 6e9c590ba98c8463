package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories/memory"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockGateway() *billstack.Client {
	return billstack.NewClient("", time.Second, true)
}

func TestBeneficiaryFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := NewBeneficiaryService(memory.NewKVStore())

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Save(ctx, "c1", models.Beneficiary{Name: "Mum", Phone: "08031234567"})
	require.NoError(t, err)
	list, err = svc.Save(ctx, "c1", models.Beneficiary{Name: "Mother", Phone: "08031234567"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mum", list[0].Name)

	list, err = svc.Save(ctx, "c1", models.Beneficiary{Name: "Dad", Phone: "08051234567"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mum", "Dad"}, []string{list[0].Name, list[1].Name})

	other, err := svc.List(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = svc.Save(ctx, "c1", models.Beneficiary{Name: " ", Phone: "0803"})
	assert.ErrorIs(t, err, ErrInvalidBeneficiary)

	list, err = svc.Remove(ctx, "c1", "08031234567")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dad", list[0].Name)
}

func TestBeneficiaryCorruptSlotReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, beneficiariesKey+"c1", "{not json"))
	svc := NewBeneficiaryService(kv)

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.Save(ctx, "c1", models.Beneficiary{Name: "Mum", Phone: "0803"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(memory.NewKVStore())

	ok, err := store.IsAuthenticated(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
	user, err := store.User(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, store.Save(ctx, "c1", "tok", json.RawMessage(`{"email":"a@b.c"}`)))
	ok, err = store.IsAuthenticated(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	user, err = store.User(ctx, "c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(user))

	require.NoError(t, store.Clear(ctx, "c1"))
	ok, err = store.IsAuthenticated(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return cfg
}

func TestAuthVerifyOTP(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionStore(memory.NewKVStore())
	customers := memory.NewCustomerRepository()
	cfg := testConfig()
	svc := NewAuthService(mockGateway(), sessions, customers, cfg)

	_, err := svc.Me(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	challenge, err := svc.RequestOTP(ctx, " Ada@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", challenge.Email)

	_, err = svc.VerifyOTP(ctx, "c1", &models.VerifyOTPRequest{Email: "ada@example.com", OTP: "000000"})
	require.Error(t, err)
	var apiErr *billstack.APIError
	assert.ErrorAs(t, err, &apiErr)

	resp, err := svc.VerifyOTP(ctx, "c1", &models.VerifyOTPRequest{Email: "Ada@Example.com", OTP: challenge.SandboxOTP})
	require.NoError(t, err)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := utils.ValidateJWT(resp.Token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, "c1", claims.ClientID)

	token, err := sessions.Token(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "mock-token-ada@example.com", token)

	customer, err := customers.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "c1", customer.LastClient)

	me, err := svc.Me(ctx, "c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"ada@example.com"}`, string(me))

	require.NoError(t, svc.Logout(ctx, "c1"))
	_, err = svc.Me(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func checkout(ref, clientID string) wizard.Checkout {
	return wizard.Checkout{
		SessionID: "s1",
		ClientID:  clientID,
		Type:      models.PurchaseAirtime,
		Reference: ref,
		Email:     "ada@example.com",
		Amount:    "1000",
		Bonus:     10,
		Items: []models.OrderItem{
			{OperatorID: "1", MSISDN: "08031234567", Amount: 1000, CountryCode: "NG"},
		},
	}
}

func TestOrderSubmitAndVerify(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository()
	svc := NewOrderService(mockGateway(), orders, NewSessionStore(memory.NewKVStore()))

	order, err := svc.SubmitOrder(ctx, checkout("rf000001", "c1"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.GatewayOrderID)
	assert.Equal(t, 1000.0, order.Amount)

	_, err = svc.Verify(ctx, "c2", "rf000001")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.Verify(ctx, "c1", "rf-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	verified, err := svc.Verify(ctx, "c1", "rf000001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccessful, verified.Status)

	stored, err := orders.FindByReference(ctx, "rf000001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccessful, stored.Status)
}

func TestSubmitOrderStoresFormattedAmount(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository()
	svc := NewOrderService(mockGateway(), orders, NewSessionStore(memory.NewKVStore()))

	c := checkout("rf000009", "c1")
	c.Amount = "₦1,500"
	_, err := svc.SubmitOrder(ctx, c)
	require.NoError(t, err)

	stored, err := orders.FindByReference(ctx, "rf000009")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stored.Amount)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(mockGateway(), memory.NewOrderRepository(), NewSessionStore(memory.NewKVStore()))
	for _, ref := range []string{"rf000001", "rf000002", "rf000003"} {
		_, err := svc.SubmitOrder(ctx, checkout(ref, "c1"))
		require.NoError(t, err)
	}

	page, total, err := svc.ListOrders(ctx, "ada@example.com", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, _, err = svc.ListOrders(ctx, "ada@example.com", 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	page, total, err = svc.ListOrders(ctx, "nobody@example.com", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

type rejectingGateway struct{}

func (rejectingGateway) CreateOrder(context.Context, billstack.CreateOrderRequest) (*billstack.Order, error) {
	return nil, billstack.ErrUnauthorized
}

func (rejectingGateway) VerifyOrder(context.Context, string) (*billstack.Order, error) {
	return nil, billstack.ErrUnauthorized
}

func TestRejectedTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionStore(memory.NewKVStore())
	require.NoError(t, sessions.Save(ctx, "c1", "stale", nil))
	svc := NewOrderService(rejectingGateway{}, memory.NewOrderRepository(), sessions)

	_, err := svc.SubmitOrder(ctx, checkout("rf000001", "c1"))
	require.ErrorIs(t, err, billstack.ErrUnauthorized)

	ok, err := sessions.IsAuthenticated(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

type memoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *memoryBucket) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = data
	return "https://cdn.test/" + name, nil
}

func TestGiftCardImageUpload(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2560, 1280))
	for x := 0; x < 2560; x += 7 {
		src.Set(x, x%1280, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	bucket := &memoryBucket{objects: make(map[string][]byte)}
	svc := NewGiftCardImageService(bucket)
	url, err := svc.Upload(context.Background(), "s1", &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.test/giftcards/s1/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	require.Len(t, bucket.objects, 1)
	for _, data := range bucket.objects {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 1280, cfg.Width)
		assert.Equal(t, 640, cfg.Height)
	}

	_, err = svc.Upload(context.Background(), "s1", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestWizardRegistry(t *testing.T) {
	ctx := context.Background()
	svc := NewWizardService(mockGateway(), nil, NewSessionStore(memory.NewKVStore()), WizardOptions{
		PhoneDebounce: 10 * time.Millisecond,
		LookupTimeout: time.Second,
	})

	sess, err := svc.Open(ctx, "c1", models.PurchaseAirtime)
	require.NoError(t, err)
	assert.True(t, sess.IsOpen())

	got, err := svc.Get("c1", sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = svc.Get("c2", sess.ID())
	assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close("c2", sess.ID()), wizard.ErrSessionNotFound)

	require.NoError(t, svc.Close("c1", sess.ID()))
	assert.False(t, sess.IsOpen())
	reopened, err := svc.Reopen(ctx, "c1", sess.ID())
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen())
	assert.Equal(t, 1, reopened.Step())

	assert.Equal(t, 0, svc.Reap(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, svc.Reap(time.Now().Add(time.Hour)))
	assert.False(t, sess.IsOpen())
	_, err = svc.Get("c1", sess.ID())
	assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
}
