package http

import (
	"database/sql"
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/prayerbox/keyguard/internal/config"
	contentHTTP "github.com/prayerbox/keyguard/internal/content/http"
	keysHTTP "github.com/prayerbox/keyguard/internal/keys/http"
	recoveryHTTP "github.com/prayerbox/keyguard/internal/recovery/http"
)

// NewRouter builds the gin engine with all middleware and API routes.
//
// Credential-bearing endpoints (unlock, rotate, restore, reveal) sit behind
// the IP rate limiter when enabled; they are the online guessing surface.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	keyHandler *keysHTTP.KeyHandler,
	recoveryHandler *recoveryHTTP.RecoveryHandler,
	contentHandler *contentHTTP.ContentHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", HealthHandler())
	router.GET("/ready", ReadinessHandler(db))

	// Pass-through middleware when rate limiting is disabled.
	var rateLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		rateLimit = IPRateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger)
	}

	v1 := router.Group("/v1")

	keys := v1.Group("/keys")
	{
		keys.POST("/setup", keyHandler.SetupHandler)
		keys.POST("/unlock", rateLimit, keyHandler.UnlockHandler)
		keys.POST("/lock", keyHandler.LockHandler)
		keys.POST("/rotate-password", rateLimit, keyHandler.RotatePasswordHandler)
		keys.GET("/:user_id/diagnosis", keyHandler.DiagnoseHandler)
	}

	recovery := v1.Group("/recovery")
	{
		recovery.POST("/setup", recoveryHandler.SetupHandler)
		recovery.POST("/confirm", recoveryHandler.ConfirmSavedHandler)
		recovery.POST("/restore", rateLimit, recoveryHandler.RestoreHandler)
		recovery.POST("/challenge", rateLimit, recoveryHandler.ChallengeHandler)
		recovery.POST("/reveal", rateLimit, recoveryHandler.RevealHandler)
	}

	content := v1.Group("/content")
	{
		content.POST("/encrypt", contentHandler.EncryptHandler)
		content.POST("/decrypt", contentHandler.DecryptHandler)
	}

	return router
}
