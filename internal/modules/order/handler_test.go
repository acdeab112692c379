package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmulenga/kwacha-commerce/internal/modules/auth"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*chi.Mux, *fixture) {
	t.Helper()
	f := newFixture(t)
	router := chi.NewRouter()
	NewHandler(f.svc, nil).RegisterRoutes(router)
	return router, f
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

// tokenVerifier accepts exactly one bearer token.
type tokenVerifier struct{ token string }

func (v tokenVerifier) Login(context.Context, string, string) (string, error) {
	return v.token, nil
}

func (v tokenVerifier) Verify(token string) (int64, error) {
	if token != v.token {
		return 0, auth.ErrInvalidCredentials
	}
	return 1, nil
}

func TestOrderRoutesRequireBearerToken(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Mug", 9.5, 5)
	router := chi.NewRouter()
	NewHandler(f.svc, auth.Middleware(tokenVerifier{token: "tok-1"})).RegisterRoutes(router)

	body, err := json.Marshal(map[string]any{
		"user_id": 1,
		"items":   []map[string]any{{"name": "Mug"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "no token")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "bad token")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok-1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	rr, env := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id": 1,
		"items":   []map[string]any{{"name": "Mug", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.True(t, env.Success)

	var o Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, 19.00, o.TotalPrice)
	assert.Equal(t, StatusPending, o.Status)
}

func TestPlaceOrderEndpointLegacyFlatPayload(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	rr, env := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id":   1,
		"item_name": "Mug",
		"quantity":  1,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var o Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Mug", o.Items[0].Name)
}

func TestPlaceOrderEndpointInsufficientStock(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "GPU-X", 500, 1)

	rr, env := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id": 1,
		"items":   []map[string]any{{"name": "GPU-X", "quantity": 2}},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
}

func TestPlaceOrderEndpointFailures(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	rr, env := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id": 99,
		"items":   []map[string]any{{"name": "Mug"}},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rr, env = doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id": 1,
		"items":   []map[string]any{{"name": "missing"}},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, env = doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestGetOrderEndpoint(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	placed, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: 1,
		Items:  []LineItemRequest{{Name: "Mug"}},
	})
	require.NoError(t, err)

	rr, env := doJSON(t, router, http.MethodGet, "/api/v1/orders/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var o Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, placed.ID, o.ID)

	rr, env = doJSON(t, router, http.MethodGet, "/api/v1/orders/99", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rr, _ = doJSON(t, router, http.MethodGet, "/api/v1/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListOrderEndpoints(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: 1,
		Items:  []LineItemRequest{{Name: "Mug"}},
	})
	require.NoError(t, err)

	rr, env := doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []Order
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)

	rr, env = doJSON(t, router, http.MethodGet, "/api/v1/orders/user/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []Order
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	rr, env = doJSON(t, router, http.MethodGet, "/api/v1/orders/user/2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Empty(t, mine)

	rr, _ = doJSON(t, router, http.MethodGet, "/api/v1/orders/user/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	placed, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: 1,
		Items:  []LineItemRequest{{Name: "Mug"}},
	})
	require.NoError(t, err)

	rr, env := doJSON(t, router, http.MethodPut, "/api/v1/orders/1",
		map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rr.Code)
	var o Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, StatusProcessing, o.Status)

	rr, env = doJSON(t, router, http.MethodPut, "/api/v1/orders/1",
		map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	rr, env = doJSON(t, router, http.MethodPut, "/api/v1/orders/1",
		map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rr, _ = doJSON(t, router, http.MethodPut, "/api/v1/orders/99",
		map[string]string{"status": "processing"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// shortcut transitions
	rr, _ = doJSON(t, router, http.MethodPut, "/api/v1/orders/1/deliver", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "processing -> delivered is invalid")

	_, err = f.svc.UpdateStatus(context.Background(), placed.ID, "shipped")
	require.NoError(t, err)
	rr, env = doJSON(t, router, http.MethodPut, "/api/v1/orders/1/deliver", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, StatusDelivered, o.Status)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	router, f := setupRouter(t)
	f.addProduct(t, "Mug", 9.5, 5)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: 1,
		Items:  []LineItemRequest{{Name: "Mug"}},
	})
	require.NoError(t, err)

	rr, env := doJSON(t, router, http.MethodDelete, "/api/v1/orders/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)

	rr, env = doJSON(t, router, http.MethodDelete, "/api/v1/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
