package app

import (
	"fmt"

	recoveryHTTP "github.com/prayerbox/keyguard/internal/recovery/http"
	recoveryRepository "github.com/prayerbox/keyguard/internal/recovery/repository"
	recoveryService "github.com/prayerbox/keyguard/internal/recovery/service"
	recoveryUseCase "github.com/prayerbox/keyguard/internal/recovery/usecase"
)

// ChallengeRepository returns the step-up challenge repository based on the database driver.
func (c *Container) ChallengeRepository() (recoveryUseCase.ChallengeRepository, error) {
	var err error
	c.challengeRepoInit.Do(func() {
		c.challengeRepo, err = c.initChallengeRepository()
		if err != nil {
			c.initErrors["challengeRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["challengeRepo"]; exists {
		return nil, storedErr
	}
	return c.challengeRepo, nil
}

// CodeSender returns the step-up code delivery collaborator.
// The default logs codes and must be replaced for production deployments.
func (c *Container) CodeSender() recoveryUseCase.CodeSender {
	c.codeSenderInit.Do(func() {
		if c.codeSender == nil {
			c.codeSender = recoveryService.NewLogCodeSender(c.Logger())
		}
	})
	return c.codeSender
}

// SetCodeSender replaces the code sender. Must be called before the recovery
// use case is constructed.
func (c *Container) SetCodeSender(sender recoveryUseCase.CodeSender) {
	c.codeSender = sender
}

// RecoveryUseCase returns the recovery phrase use case.
func (c *Container) RecoveryUseCase() (recoveryUseCase.RecoveryUseCase, error) {
	var err error
	c.recoveryUseCaseInit.Do(func() {
		c.recoveryUseCase, err = c.initRecoveryUseCase()
		if err != nil {
			c.initErrors["recoveryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryUseCase"]; exists {
		return nil, storedErr
	}
	return c.recoveryUseCase, nil
}

// RecoveryHandler returns the HTTP handler for recovery operations.
func (c *Container) RecoveryHandler() (*recoveryHTTP.RecoveryHandler, error) {
	useCase, err := c.RecoveryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery use case for recovery handler: %w", err)
	}

	business, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for recovery handler: %w", err)
	}

	return recoveryHTTP.NewRecoveryHandler(useCase, business, c.Logger(), c.config.RevealWindow), nil
}

// initChallengeRepository creates the challenge repository based on the database driver.
func (c *Container) initChallengeRepository() (recoveryUseCase.ChallengeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for challenge repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return recoveryRepository.NewPostgreSQLChallengeRepository(db), nil
	case "mysql":
		return recoveryRepository.NewMySQLChallengeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecoveryUseCase creates the recovery use case with all its dependencies.
func (c *Container) initRecoveryUseCase() (recoveryUseCase.RecoveryUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for recovery use case: %w", err)
	}

	keyRepo, err := c.KeyRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key record repository for recovery use case: %w", err)
	}

	challengeRepo, err := c.ChallengeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge repository for recovery use case: %w", err)
	}

	envelope, err := c.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope for recovery use case: %w", err)
	}

	sealer, err := c.RecordSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get record sealer for recovery use case: %w", err)
	}

	business, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for recovery use case: %w", err)
	}

	useCase := recoveryUseCase.NewRecoveryUseCase(
		txManager,
		keyRepo,
		challengeRepo,
		envelope,
		sealer,
		recoveryService.NewPhraseService(),
		recoveryService.NewChallengeService(),
		c.CodeSender(),
		c.SessionCache(),
		c.CredentialRotator(),
		c.config.StepUpCodeTTL,
	)

	return recoveryUseCase.NewRecoveryUseCaseWithMetrics(useCase, business), nil
}
