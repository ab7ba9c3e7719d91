package transport_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"b2b-catalog/internal/config"
	"b2b-catalog/internal/server"
	"b2b-catalog/internal/transport"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestHandler assembles the full application against an in-process
// redis, exactly as main does.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Redis: config.RedisConfig{
			Host:      mr.Host(),
			Port:      mr.Port(),
			Namespace: "test",
		},
		JWT: config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return server.NewServer(cfg, zap.NewNop(), rdb).Handler
}

func postJSON(t *testing.T, handler http.Handler, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, handler http.Handler, usernameOrEmail, password string) (string, transport.UserProfile) {
	t.Helper()

	w := postJSON(t, handler, "/api/auth/login", "", map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login response: %s", w.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	w := getJSON(t, handler, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLoginAndProfileFlow(t *testing.T) {
	handler := newTestHandler(t)

	token, user := loginAs(t, handler, "admin", "admin123")
	assert.Equal(t, "super_admin", user.Role)
	assert.NotEmpty(t, user.PhoneNumber, "profile fields come through on the seed account")

	w := getJSON(t, handler, "/api/auth/me", token)
	assert.Equal(t, http.StatusOK, w.Code)

	var me transport.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)
	assert.NotContains(t, w.Body.String(), "admin123", "the credential never leaves the server")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/auth/login", "", map[string]string{
		"usernameOrEmail": "admin",
		"password":        "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisteredAccountCannotLoginUntilApproved(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/auth/register", "", map[string]string{
		"name":     "New Buyer",
		"email":    "buyer@corp.example.com",
		"username": "newbuyer",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register response: %s", w.Body.String())

	var created transport.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.IsPendingApproval)

	w = postJSON(t, handler, "/api/auth/login", "", map[string]string{
		"usernameOrEmail": "newbuyer",
		"password":        "secret1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "pending")

	// Approve through the admin API, then login succeeds.
	adminToken, _ := loginAs(t, handler, "admin", "admin123")
	w = postJSON(t, handler, fmt.Sprintf("/api/users/%s/approve", created.ID), adminToken, struct{}{})
	require.Equal(t, http.StatusOK, w.Code, "approve response: %s", w.Body.String())

	token, _ := loginAs(t, handler, "newbuyer", "secret1")
	assert.NotEmpty(t, token)
}

func TestCatalogRequiresAuthentication(t *testing.T) {
	handler := newTestHandler(t)

	w := getJSON(t, handler, "/api/catalog", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogHidesInaccessibleCategories(t *testing.T) {
	handler := newTestHandler(t)
	adminToken, _ := loginAs(t, handler, "admin", "admin123")

	// A plain user limited to Software sees no hardware.
	w := postJSON(t, handler, "/api/users", adminToken, map[string]interface{}{
		"name":                 "Limited Buyer",
		"email":                "limited@corp.example.com",
		"username":             "limited",
		"password":             "secret1",
		"role":                 "user",
		"isActive":             true,
		"accessibleCategories": []string{"Software"},
	})
	require.Equal(t, http.StatusCreated, w.Code, "create user response: %s", w.Body.String())

	token, _ := loginAs(t, handler, "limited", "secret1")
	w = getJSON(t, handler, "/api/catalog", token)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog transport.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	for _, p := range catalog.Products {
		assert.Equal(t, "Software", string(p.Category))
	}

	// The admin sees the whole seeded catalog.
	w = getJSON(t, handler, "/api/catalog", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var adminCatalog transport.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adminCatalog))
	assert.Greater(t, len(adminCatalog.Products), len(catalog.Products))
}

func TestProductManagementForbiddenForPlainUsers(t *testing.T) {
	handler := newTestHandler(t)
	adminToken, _ := loginAs(t, handler, "admin", "admin123")

	w := postJSON(t, handler, "/api/users", adminToken, map[string]interface{}{
		"name":     "Plain Buyer",
		"email":    "plain@corp.example.com",
		"username": "plainbuyer",
		"password": "secret1",
		"role":     "user",
		"isActive": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	token, _ := loginAs(t, handler, "plainbuyer", "secret1")

	w = getJSON(t, handler, "/api/products", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(t, handler, "/api/products", token, map[string]interface{}{
		"name":     "Sneaky Product",
		"category": "Hardware",
		"price":    1,
		"stock":    1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	handler := newTestHandler(t)
	adminToken, adminUser := loginAs(t, handler, "admin", "admin123")

	// Pick a seeded product off the catalog.
	w := getJSON(t, handler, "/api/catalog", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog transport.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	require.NotEmpty(t, catalog.Products)
	product := catalog.Products[0]

	w = postJSON(t, handler, "/api/cart/items", adminToken, map[string]interface{}{
		"productId": product.ID,
		"quantity":  1,
	})
	require.Equal(t, http.StatusOK, w.Code, "add to cart response: %s", w.Body.String())

	w = postJSON(t, handler, "/api/orders", adminToken, struct{}{})
	require.Equal(t, http.StatusCreated, w.Code, "checkout response: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), "ORDER_CONFIRMED")
	assert.Contains(t, w.Body.String(), adminUser.ID)

	// The cart is empty after checkout.
	w = getJSON(t, handler, "/api/cart", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var cart transport.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)

	// Checking out again with the empty cart fails.
	w = postJSON(t, handler, "/api/orders", adminToken, struct{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSendWithoutBridgeReturnsServiceUnavailable(t *testing.T) {
	handler := newTestHandler(t)
	token, _ := loginAs(t, handler, "admin", "admin123")

	// No chat endpoint is configured, so the failure must arrive as a
	// real status code, not a streamed 200.
	w := postJSON(t, handler, "/api/chat/messages", token, map[string]string{
		"text": "hello",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEqual(t, "application/x-ndjson", w.Header().Get("Content-Type"))
}

func TestPaymentProofUploadOverHTTP(t *testing.T) {
	handler := newTestHandler(t)
	adminToken, _ := loginAs(t, handler, "admin", "admin123")

	w := getJSON(t, handler, "/api/catalog", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog transport.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	require.NotEmpty(t, catalog.Products)

	w = postJSON(t, handler, "/api/cart/items", adminToken, map[string]interface{}{
		"productId": catalog.Products[0].ID,
		"quantity":  1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, handler, "/api/orders", adminToken, struct{}{})
	require.Equal(t, http.StatusCreated, w.Code)

	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = postJSON(t, handler, "/api/orders/"+order.ID+"/payment-proof", adminToken, map[string]string{
		"fileName":      "receipt.pdf",
		"customerNotes": "wired this morning",
	})
	require.Equal(t, http.StatusOK, w.Code, "payment proof response: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), "PAYMENT_PROOF_UPLOADED")
	assert.True(t, strings.Contains(w.Body.String(), "simulated_uploads/payment/receipt.pdf"))
}
