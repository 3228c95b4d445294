package service

import (
	"context"
	"log/slog"
)

// LogCodeSender writes step-up codes to the application log instead of
// delivering them out of band. Development and test use only: production
// deployments must plug in a real sender (email, SMS) at container setup.
type LogCodeSender struct {
	logger *slog.Logger
}

// NewLogCodeSender creates a CodeSender that logs codes.
func NewLogCodeSender(logger *slog.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

// Send logs the code for the user.
func (s *LogCodeSender) Send(ctx context.Context, userID, code string) error {
	s.logger.Warn("step-up code issued via log sender, do not use in production",
		slog.String("user_id", userID),
		slog.String("code", code),
	)
	return nil
}
