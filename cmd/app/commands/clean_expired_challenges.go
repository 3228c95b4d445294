package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prayerbox/keyguard/internal/app"
	"github.com/prayerbox/keyguard/internal/config"
)

// RunCleanExpiredChallenges deletes step-up challenges that expired more than
// the specified number of days ago. Consumed and unconsumed challenges are
// treated alike: once expired they can never be redeemed.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredChallenges(ctx context.Context, days int) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("cleaning expired step-up challenges", slog.Int("days", days))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get challenge repository from container
	challengeRepo, err := container.ChallengeRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize challenge repository: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := challengeRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete expired challenges: %w", err)
	}

	fmt.Printf("Successfully deleted %d expired challenge(s) older than %d day(s)\n", count, days)

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
	)

	return nil
}
