// Package http provides HTTP handlers for key envelope operations.
// Key material never appears in responses; unlock places the DEK in the
// server-side session cache and returns only an acknowledgement.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prayerbox/keyguard/internal/httputil"
	"github.com/prayerbox/keyguard/internal/keys/http/dto"
	keysUseCase "github.com/prayerbox/keyguard/internal/keys/usecase"
	"github.com/prayerbox/keyguard/internal/metrics"
	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// KeyHandler handles HTTP requests for key envelope operations.
type KeyHandler struct {
	keyUseCase keysUseCase.KeyUseCase
	business   metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(
	keyUseCase keysUseCase.KeyUseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
) *KeyHandler {
	return &KeyHandler{
		keyUseCase: keyUseCase,
		business:   business,
		logger:     logger,
	}
}

// SetupHandler provisions the initial key envelope for a user.
// POST /v1/keys/setup
// Returns 201 Created. The user is left unlocked.
func (h *KeyHandler) SetupHandler(c *gin.Context) {
	var req dto.SetupKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keyUseCase.Setup(c.Request.Context(), req.UserID, req.Password); err != nil {
		h.business.RecordOperation(c.Request.Context(), "keys", "setup", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "keys", "setup", "success")
	c.JSON(http.StatusCreated, dto.StatusResponse{Status: "created"})
}

// UnlockHandler unwraps the user's DEK into the session cache.
// POST /v1/keys/unlock
// Returns 200 OK, or 401 for a wrong password or an absent record.
func (h *KeyHandler) UnlockHandler(c *gin.Context) {
	var req dto.UnlockRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keyUseCase.Unlock(c.Request.Context(), req.UserID, req.Password); err != nil {
		h.business.RecordOperation(c.Request.Context(), "keys", "unlock", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "keys", "unlock", "success")
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "unlocked"})
}

// LockHandler evicts the user's DEK from the session cache.
// POST /v1/keys/lock
// Returns 200 OK. Locking an already locked user succeeds.
func (h *KeyHandler) LockHandler(c *gin.Context) {
	var req dto.LockRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keyUseCase.Lock(c.Request.Context(), req.UserID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "locked"})
}

// RotatePasswordHandler rewraps the DEK under a new password.
// POST /v1/keys/rotate-password
// Returns 200 OK, or 401 when the current password fails to unwrap.
func (h *KeyHandler) RotatePasswordHandler(c *gin.Context) {
	var req dto.RotatePasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.keyUseCase.RotatePassword(c.Request.Context(), req.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "keys", "rotate_password", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "keys", "rotate_password", "success")
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "rotated"})
}

// DiagnoseHandler reports the state of a user's key envelope.
// GET /v1/keys/:user_id/diagnosis
// Returns 200 OK with the migration state and recovery availability.
func (h *KeyHandler) DiagnoseHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("user_id cannot be empty"), h.logger)
		return
	}

	diagnosis, err := h.keyUseCase.Diagnose(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDiagnosisToResponse(diagnosis))
}
