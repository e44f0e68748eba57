package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderuz/internal/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:         ":0",
		LogLevel:        "disabled",
		DBDriver:        config.DriverMemory,
		EventBroker:     config.BrokerNone,
		CartTTL:         time.Hour,
		JWTSecret:       "test_jwt_secret",
		TrackerInterval: 0,
		PublicBaseURL:   "http://localhost:8080",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func request(t *testing.T, app *App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, body := request(t, app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.DriverMemory, body["db_driver"])
}

func TestNewAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "oracle"
	_, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestNewAppRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := NewApp(cfg)
	assert.Error(t, err)
}

// TestCheckoutFlow walks a guest cart through signup, checkout and tracking
// with carts kept in Redis.
func TestCheckoutFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	app := newTestApp(t, cfg)

	session := map[string]string{"X-Session-ID": "smoke"}
	resp, _ := request(t, app, http.MethodPost, "/api/v1/cart/items", map[string]string{"food_id": "food-1"}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = request(t, app, http.MethodPost, "/api/v1/cart/items", map[string]string{"food_id": "food-2"}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, mr.Exists("cart:smoke"))

	resp, _ = request(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Aziz", "email": "aziz@example.uz", "password": "secret123", "phone": "+998901234567",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := request(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "aziz@example.uz", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	authed := map[string]string{"X-Session-ID": "smoke", "Authorization": "Bearer " + token}
	resp, body = request(t, app, http.MethodPost, "/api/v1/orders", map[string]string{"delivery_address": "Chilanzar 7"}, authed)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orders, _ := body["orders"].([]interface{})
	assert.Len(t, orders, 2)
	assert.False(t, mr.Exists("cart:smoke"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?scope=active", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var active []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&active))
	assert.Len(t, active, 2)
}

// TestStoredRequestValuesSurviveLaterRequests keeps route params and
// session headers intact after the request that carried them is gone.
func TestStoredRequestValuesSurviveLaterRequests(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, _ := request(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Aziz", "email": "aziz@example.uz", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, body := request(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "aziz@example.uz", "password": "secret123",
	}, nil)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	authed := map[string]string{"Authorization": "Bearer " + token}

	resp, _ = request(t, app, http.MethodPost, "/api/v1/restaurants/res-1/follow", nil, authed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = request(t, app, http.MethodPost, "/api/v1/cart/items", map[string]string{"food_id": "food-1"}, map[string]string{"X-Session-ID": "alpha"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for i := 0; i < 20; i++ {
		request(t, app, http.MethodGet, "/api/v1/restaurants/xyz-9/videos", nil, map[string]string{"X-Session-ID": "zzzzz"})
		request(t, app, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Session-ID": "omega"})
	}

	resp, body = request(t, app, http.MethodGet, "/api/v1/account", nil, authed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{"res-1"}, body["followed_restaurants"])

	_, body = request(t, app, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Session-ID": "alpha"})
	assert.EqualValues(t, 1, body["total_items"])
}
