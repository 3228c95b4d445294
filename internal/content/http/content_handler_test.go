package http

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prayerbox/keyguard/internal/content/http/dto"
	contentUseCase "github.com/prayerbox/keyguard/internal/content/usecase"
	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
	keysService "github.com/prayerbox/keyguard/internal/keys/service"
	"github.com/prayerbox/keyguard/internal/metrics"
	"github.com/prayerbox/keyguard/internal/session"
)

// setupTestHandler wires the handler to a real content use case and cache so
// encrypt and decrypt round-trip through the actual cipher path.
func setupTestHandler(t *testing.T) (*ContentHandler, *session.Cache) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cache := session.NewCache(0)
	t.Cleanup(cache.Close)

	useCase := contentUseCase.NewContentUseCase(cache, keysService.NewAEADManager(), keysDomain.AESGCM)
	handler := NewContentHandler(useCase, metrics.NewNoOpBusinessMetrics(), logger)

	return handler, cache
}

func unlockUser(t *testing.T, cache *session.Cache, userID string) {
	t.Helper()
	dek := make([]byte, 32)
	_, err := rand.Read(dek)
	require.NoError(t, err)
	cache.Unlock(userID, dek)
}

// createTestContext builds a gin context with a JSON request body.
func createTestContext(method, url string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestContentHandler_RoundTrip(t *testing.T) {
	handler, cache := setupTestHandler(t)
	unlockUser(t, cache, "user-1")

	plaintext := []byte("a prayer request")

	c, w := createTestContext(http.MethodPost, "/v1/content/encrypt", dto.EncryptPayloadRequest{
		UserID:    "user-1",
		ContextID: "prayer-42",
		Plaintext: base64.StdEncoding.EncodeToString(plaintext),
	})

	handler.EncryptHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var encResponse dto.EncryptPayloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encResponse))
	assert.NotEmpty(t, encResponse.Ciphertext)
	assert.NotEmpty(t, encResponse.IV)
	assert.Equal(t, 1, encResponse.SchemaVersion)

	c, w = createTestContext(http.MethodPost, "/v1/content/decrypt", dto.DecryptPayloadRequest{
		UserID:        "user-1",
		ContextID:     "prayer-42",
		Ciphertext:    encResponse.Ciphertext,
		IV:            encResponse.IV,
		SchemaVersion: encResponse.SchemaVersion,
	})

	handler.DecryptHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var decResponse dto.DecryptPayloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decResponse))

	decoded, err := base64.StdEncoding.DecodeString(decResponse.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decoded)
}

func TestContentHandler_LockedSession(t *testing.T) {
	handler, _ := setupTestHandler(t)

	c, w := createTestContext(http.MethodPost, "/v1/content/encrypt", dto.EncryptPayloadRequest{
		UserID:    "user-1",
		ContextID: "prayer-42",
		Plaintext: base64.StdEncoding.EncodeToString([]byte("content")),
	})

	handler.EncryptHandler(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContentHandler_WrongContext(t *testing.T) {
	handler, cache := setupTestHandler(t)
	unlockUser(t, cache, "user-1")

	c, w := createTestContext(http.MethodPost, "/v1/content/encrypt", dto.EncryptPayloadRequest{
		UserID:    "user-1",
		ContextID: "prayer-42",
		Plaintext: base64.StdEncoding.EncodeToString([]byte("content")),
	})

	handler.EncryptHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var encResponse dto.EncryptPayloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encResponse))

	// Presenting the blob under a different context must fail authentication
	c, w = createTestContext(http.MethodPost, "/v1/content/decrypt", dto.DecryptPayloadRequest{
		UserID:        "user-1",
		ContextID:     "prayer-43",
		Ciphertext:    encResponse.Ciphertext,
		IV:            encResponse.IV,
		SchemaVersion: encResponse.SchemaVersion,
	})

	handler.DecryptHandler(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContentHandler_BadRequests(t *testing.T) {
	handler, cache := setupTestHandler(t)
	unlockUser(t, cache, "user-1")

	t.Run("invalid base64 plaintext", func(t *testing.T) {
		c, w := createTestContext(http.MethodPost, "/v1/content/encrypt", dto.EncryptPayloadRequest{
			UserID:    "user-1",
			ContextID: "prayer-42",
			Plaintext: "!!!not-base64!!!",
		})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("missing context id", func(t *testing.T) {
		c, w := createTestContext(http.MethodPost, "/v1/content/encrypt", dto.EncryptPayloadRequest{
			UserID:    "user-1",
			Plaintext: base64.StdEncoding.EncodeToString([]byte("content")),
		})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
