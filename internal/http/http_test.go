package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prayerbox/keyguard/internal/config"
	contentHTTP "github.com/prayerbox/keyguard/internal/content/http"
	keysHTTP "github.com/prayerbox/keyguard/internal/keys/http"
	"github.com/prayerbox/keyguard/internal/metrics"
	recoveryHTTP "github.com/prayerbox/keyguard/internal/recovery/http"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestRouter builds a router with handlers whose use cases are never
// reached by these tests.
func createTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := testLogger()
	business := metrics.NewNoOpBusinessMetrics()

	router := NewRouter(
		cfg,
		logger,
		db,
		keysHTTP.NewKeyHandler(nil, business, logger),
		recoveryHTTP.NewRecoveryHandler(nil, business, logger, 0),
		contentHTTP.NewContentHandler(nil, business, logger),
	)

	return router, mock
}

func TestRouter_Health(t *testing.T) {
	router, _ := createTestRouter(t, &config.Config{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestRouter_Ready(t *testing.T) {
	router, mock := createTestRouter(t, &config.Config{})
	mock.ExpectPing()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ready", response["status"])
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := createTestRouter(t, &config.Config{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router, _ := createTestRouter(t, &config.Config{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 1,
		RateLimitBurst:          2,
	}
	router, _ := createTestRouter(t, cfg)

	// Empty bodies fail validation before the use case is touched, so the
	// limiter is the only stateful component exercised here.
	statuses := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/keys/unlock", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, http.StatusUnprocessableEntity, statuses[0])
	assert.Equal(t, http.StatusUnprocessableEntity, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example.com"}, parseOrigins("https://a.example.com"))
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		parseOrigins(" https://a.example.com , https://b.example.com "),
	)
}

func TestCreateCORSMiddleware(t *testing.T) {
	logger := testLogger()

	assert.Nil(t, createCORSMiddleware(false, "https://a.example.com", logger))
	assert.Nil(t, createCORSMiddleware(true, "", logger))
	assert.NotNil(t, createCORSMiddleware(true, "https://a.example.com", logger))
}

func TestMetricsServer(t *testing.T) {
	provider, err := metrics.NewProvider("keyguard_test")
	require.NoError(t, err)

	server := NewMetricsServer("localhost", 8081, testLogger(), provider)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
