// Package http provides HTTP handlers for recovery phrase operations.
// Phrases appear in responses only at enrollment and after a completed
// step-up reveal; both are one-time displays bounded by the reveal window.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prayerbox/keyguard/internal/httputil"
	"github.com/prayerbox/keyguard/internal/metrics"
	"github.com/prayerbox/keyguard/internal/recovery/http/dto"
	recoveryUseCase "github.com/prayerbox/keyguard/internal/recovery/usecase"
	customValidation "github.com/prayerbox/keyguard/internal/validation"
)

// RecoveryHandler handles HTTP requests for recovery phrase operations.
type RecoveryHandler struct {
	recoveryUseCase recoveryUseCase.RecoveryUseCase
	business        metrics.BusinessMetrics
	logger          *slog.Logger
	revealWindow    time.Duration
}

// NewRecoveryHandler creates a new recovery handler with required dependencies.
func NewRecoveryHandler(
	useCase recoveryUseCase.RecoveryUseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
	revealWindow time.Duration,
) *RecoveryHandler {
	return &RecoveryHandler{
		recoveryUseCase: useCase,
		business:        business,
		logger:          logger,
		revealWindow:    revealWindow,
	}
}

// SetupHandler enrolls a recovery phrase for a user.
// POST /v1/recovery/setup
// Returns 201 Created with the phrase for one-time display.
func (h *RecoveryHandler) SetupHandler(c *gin.Context) {
	var req dto.SetupRecoveryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	phrase, err := h.recoveryUseCase.SetupRecovery(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "recovery", "setup", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "recovery", "setup", "success")
	c.JSON(http.StatusCreated, dto.PhraseResponse{
		Phrase:              phrase,
		RevealWindowSeconds: int(h.revealWindow.Seconds()),
	})
}

// ConfirmSavedHandler verifies the user wrote the phrase down.
// POST /v1/recovery/confirm
// Returns 200 OK, or 422 when the last word does not match.
func (h *RecoveryHandler) ConfirmSavedHandler(c *gin.Context) {
	var req dto.ConfirmSavedRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.recoveryUseCase.ConfirmSaved(c.Request.Context(), req.UserID, req.LastWord); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "confirmed"})
}

// RestoreHandler restores access with a recovery phrase and sets a new password.
// POST /v1/recovery/restore
// Returns 200 OK, 401 for a bad phrase, or 410 when no recovery exists for
// a record whose password is lost.
func (h *RecoveryHandler) RestoreHandler(c *gin.Context) {
	var req dto.RestoreRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.recoveryUseCase.RestoreFromRecovery(c.Request.Context(), req.UserID, req.Phrase, req.NewPassword)
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "recovery", "restore", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "recovery", "restore", "success")
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "restored"})
}

// ChallengeHandler issues a one-time step-up code for the reveal flow.
// POST /v1/recovery/challenge
// Returns 202 Accepted; the code travels out of band, never in the response.
func (h *RecoveryHandler) ChallengeHandler(c *gin.Context) {
	var req dto.ChallengeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.recoveryUseCase.IssueStepUpChallenge(c.Request.Context(), req.UserID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Status: "challenge_sent"})
}

// RevealHandler re-displays the enrolled phrase after password and step-up checks.
// POST /v1/recovery/reveal
// Returns 200 OK with the phrase; the step-up code is consumed on success.
func (h *RecoveryHandler) RevealHandler(c *gin.Context) {
	var req dto.RevealRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	phrase, err := h.recoveryUseCase.RevealRecoveryCode(c.Request.Context(), req.UserID, req.Password, req.Code)
	if err != nil {
		h.business.RecordOperation(c.Request.Context(), "recovery", "reveal", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.business.RecordOperation(c.Request.Context(), "recovery", "reveal", "success")
	c.JSON(http.StatusOK, dto.PhraseResponse{
		Phrase:              phrase,
		RevealWindowSeconds: int(h.revealWindow.Seconds()),
	})
}
