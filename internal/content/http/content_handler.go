// Package http provides HTTP handlers for payload encryption and decryption.
// Both operations require an unlocked session; plaintext crosses the wire
// base64-encoded and is never persisted here.
package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prayerbox/keyguard/internal/content/http/dto"
	contentUseCase "github.com/prayerbox/keyguard/internal/content/usecase"
	"github.com/prayerbox/keyguard/internal/httputil"
	"github.com/prayerbox/keyguard/internal/metrics"
	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// ContentHandler handles HTTP requests for payload encryption operations.
type ContentHandler struct {
	contentUseCase contentUseCase.ContentUseCase
	business       metrics.BusinessMetrics
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler with required dependencies.
func NewContentHandler(
	useCase contentUseCase.ContentUseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		contentUseCase: useCase,
		business:       business,
		logger:         logger,
	}
}

// EncryptHandler encrypts a payload under the user's session DEK.
// POST /v1/content/encrypt
// Returns 200 OK with the encrypted blob, or 401 when the session is locked.
func (h *ContentHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptPayloadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	blob, err := h.contentUseCase.EncryptPayload(c.Request.Context(), req.UserID, req.ContextID, plaintext)
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "content", "payload_encrypt", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "content", "payload_encrypt", "success")
	c.JSON(http.StatusOK, dto.MapBlobToResponse(blob))
}

// DecryptHandler decrypts a blob under the user's session DEK.
// POST /v1/content/decrypt
// Returns 200 OK with base64 plaintext, 401 when the session is locked, or
// 422 when the blob fails authentication.
func (h *ContentHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptPayloadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.contentUseCase.DecryptPayload(c.Request.Context(), req.UserID, req.ContextID, req.ToBlob())
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "content", "payload_decrypt", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "content", "payload_decrypt", "success")
	c.JSON(http.StatusOK, dto.DecryptPayloadResponse{
		Plaintext: base64.StdEncoding.EncodeToString(plaintext),
	})
}
