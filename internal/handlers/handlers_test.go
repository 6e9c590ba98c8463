package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/billstack-storefront/api/routes"
	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/handlers"
	"github.com/ArowuTest/billstack-storefront/internal/repositories/memory"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.AllowedHosts = []string{"http://localhost:3000"}
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.ExpiresIn = 3600

	gateway := billstack.NewClient("", time.Second, true)
	kv := memory.NewKVStore()
	sessions := services.NewSessionStore(kv)
	orders := services.NewOrderService(gateway, memory.NewOrderRepository(), sessions)
	wizards := services.NewWizardService(gateway, orders, sessions, services.WizardOptions{
		PhoneDebounce: 10 * time.Millisecond,
		LookupTimeout: time.Second,
	})

	beneficiaries := services.NewBeneficiaryService(kv)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		WizardHandler:      handlers.NewWizardHandler(wizards, beneficiaries, nil),
		BeneficiaryHandler: handlers.NewBeneficiaryHandler(beneficiaries),
		AuthHandler:        handlers.NewAuthHandler(services.NewAuthService(gateway, sessions, memory.NewCustomerRepository(), cfg)),
		OrderHandler:       handlers.NewOrderHandler(orders),
	})
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, clientID, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthMintsClientID(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Client-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestWizardEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/wizard/sessions", "c1", "", gin.H{"type": "lottery"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions", "c1", "", gin.H{"type": "airtime"})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decodeBody(t, w)
	id := view["id"].(string)
	assert.Equal(t, "airtime", view["type"])
	assert.Equal(t, float64(1), view["step"])

	w = s.do(t, http.MethodGet, "/api/v1/wizard/sessions/"+id, "c2", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/wizard/sessions/"+id+"/fields", "c1", "", []gin.H{{"field": "meterNumber", "value": "123"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/advance", "c1", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	gate := decodeBody(t, w)
	assert.Equal(t, float64(1), gate["step"])
	assert.NotEmpty(t, gate["missing"])

	w = s.do(t, http.MethodPatch, "/api/v1/wizard/sessions/"+id+"/fields", "c1", "", []gin.H{
		{"field": "fullName", "value": "Ada Obi"},
		{"field": "amount", "value": "500"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	details := decodeBody(t, w)["details"].(map[string]interface{})
	assert.Equal(t, "Ada Obi", details["fullName"])

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/back", "c1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["step"])

	w = s.do(t, http.MethodDelete, "/api/v1/wizard/sessions/"+id, "c1", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/wizard/sessions/"+id+"/fields", "c1", "", []gin.H{{"field": "fullName", "value": "Ada"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/open", "c1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reopened := decodeBody(t, w)
	assert.Equal(t, true, reopened["open"])
	assert.Empty(t, reopened["details"].(map[string]interface{})["fullName"])

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/giftcard-images", "c1", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBulkRowEndpoints(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/wizard/sessions", "c1", "", gin.H{"type": "airtime"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = s.do(t, http.MethodPut, "/api/v1/wizard/sessions/"+id+"/bulk", "c1", "", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/wizard/sessions/"+id+"/bulk/rows/7", "c1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/wizard/sessions/"+id+"/bulk/rows/abc", "c1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeneficiaryEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/beneficiaries", "c1", "", gin.H{"name": "Mum"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/beneficiaries", "c1", "", gin.H{"name": "Mum", "phone": "08031234567"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/beneficiaries", "c1", "", gin.H{"name": "Mother", "phone": "08031234567"})
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]string
	w = s.do(t, http.MethodGet, "/api/v1/beneficiaries", "c1", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Mum", list[0]["name"])

	w = s.do(t, http.MethodGet, "/api/v1/beneficiaries", "c2", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	w = s.do(t, http.MethodDelete, "/api/v1/beneficiaries/08031234567", "c1", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestSaveSessionBeneficiary(t *testing.T) {
	s := newTestServer(t)
	open := func(typ string) string {
		w := s.do(t, http.MethodPost, "/api/v1/wizard/sessions", "c1", "", gin.H{"type": typ})
		require.Equal(t, http.StatusCreated, w.Code)
		return decodeBody(t, w)["id"].(string)
	}

	id := open("airtime")
	w := s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/beneficiary", "c1", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/wizard/sessions/"+id+"/fields", "c1", "", []gin.H{
		{"field": "fullName", "value": "Ada Obi"},
		{"field": "phone", "value": "0803 123 4567"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/beneficiary", "c2", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/beneficiary", "c1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Ada Obi", list[0]["name"])
	assert.Equal(t, "08031234567", list[0]["phone"])

	w = s.do(t, http.MethodPut, "/api/v1/wizard/sessions/"+id+"/bulk", "c1", "", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/beneficiary", "c1", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	betting := open("betting")
	w = s.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+betting+"/beneficiary", "c1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/beneficiaries", "c1", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestAuthAndAccountEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/account/me", "c1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/otp", "c1", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/otp", "c1", "", gin.H{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/otp/verify", "c1", "", gin.H{"email": "ada@example.com", "otp": "999999"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/otp/verify", "c1", "", gin.H{"email": "ada@example.com", "otp": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["token"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/account/me", "c2", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/account/me", "c1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decodeBody(t, w)["email"])

	w = s.do(t, http.MethodGet, "/api/v1/account/orders", "c1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["total"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", "c1", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/account/me", "c1", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownOrder(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/orders/rfzzzzzz", "c1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
