package app

import (
	"context"
	"fmt"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
	keysHTTP "github.com/prayerbox/keyguard/internal/keys/http"
	keysRepository "github.com/prayerbox/keyguard/internal/keys/repository"
	keysService "github.com/prayerbox/keyguard/internal/keys/service"
	keysUseCase "github.com/prayerbox/keyguard/internal/keys/usecase"
)

// Kdf returns the Argon2id key derivation service.
func (c *Container) Kdf() keysService.KDF {
	c.kdfInit.Do(func() {
		c.kdf = keysService.NewArgon2Kdf(
			c.config.KDFTimeCost,
			c.config.KDFMemoryKiB,
			c.config.KDFParallelism,
		)
	})
	return c.kdf
}

// AEADManager returns the AEAD cipher manager service.
func (c *Container) AEADManager() keysService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = keysService.NewAEADManager()
	})
	return c.aeadManager
}

// Envelope returns the envelope wrap/unwrap service.
func (c *Container) Envelope() (keysService.Envelope, error) {
	var err error
	c.envelopeInit.Do(func() {
		var alg keysDomain.Algorithm
		alg, err = c.payloadAlgorithm()
		if err != nil {
			c.initErrors["envelope"] = err
			return
		}
		c.envelope = keysService.NewEnvelopeService(c.Kdf(), c.AEADManager(), alg)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelope"]; exists {
		return nil, storedErr
	}
	return c.envelope, nil
}

// KMSService returns the KMS service used to open the at-rest keeper.
func (c *Container) KMSService() keysService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = keysService.NewKMSService()
	})
	return c.kmsService
}

// RecordSealer returns the at-rest sealer for persisted key blobs.
// When no KMS provider is configured the sealer passes blobs through unchanged.
func (c *Container) RecordSealer() (*keysService.RecordSealer, error) {
	var err error
	c.recordSealerInit.Do(func() {
		c.recordSealer, err = c.initRecordSealer()
		if err != nil {
			c.initErrors["recordSealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordSealer"]; exists {
		return nil, storedErr
	}
	return c.recordSealer, nil
}

// KeyRecordRepository returns the key record repository based on the database driver.
func (c *Container) KeyRecordRepository() (keysUseCase.KeyRecordRepository, error) {
	var err error
	c.keyRecordRepoInit.Do(func() {
		c.keyRecordRepo, err = c.initKeyRecordRepository()
		if err != nil {
			c.initErrors["keyRecordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRecordRepo"]; exists {
		return nil, storedErr
	}
	return c.keyRecordRepo, nil
}

// CredentialRotator returns the credential rotator collaborator.
// The default is a no-op; deployments wanting the external credential updated
// inside the rotation transaction replace this at container setup.
func (c *Container) CredentialRotator() keysUseCase.CredentialRotator {
	c.credentialRotatorInit.Do(func() {
		if c.credentialRotator == nil {
			c.credentialRotator = keysUseCase.NewNoOpCredentialRotator()
		}
	})
	return c.credentialRotator
}

// SetCredentialRotator replaces the credential rotator. Must be called before
// the first use case is constructed.
func (c *Container) SetCredentialRotator(rotator keysUseCase.CredentialRotator) {
	c.credentialRotator = rotator
}

// KeyUseCase returns the key envelope use case.
func (c *Container) KeyUseCase() (keysUseCase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// KeyHandler returns the HTTP handler for key envelope operations.
func (c *Container) KeyHandler() (*keysHTTP.KeyHandler, error) {
	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for key handler: %w", err)
	}

	business, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key handler: %w", err)
	}

	return keysHTTP.NewKeyHandler(keyUseCase, business, c.Logger()), nil
}

// payloadAlgorithm validates and returns the configured content algorithm.
func (c *Container) payloadAlgorithm() (keysDomain.Algorithm, error) {
	alg := keysDomain.Algorithm(c.config.PayloadAlgorithm)
	switch alg {
	case keysDomain.AESGCM, keysDomain.ChaCha20:
		return alg, nil
	default:
		return "", fmt.Errorf("unsupported payload algorithm: %s", c.config.PayloadAlgorithm)
	}
}

// initRecordSealer opens the configured KMS keeper, if any.
func (c *Container) initRecordSealer() (*keysService.RecordSealer, error) {
	if c.config.KMSProvider == "" {
		return keysService.NewRecordSealer(nil), nil
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}

	c.Logger().Info("at-rest keeper enabled")
	return keysService.NewRecordSealer(keeper), nil
}

// initKeyRecordRepository creates the key record repository based on the database driver.
func (c *Container) initKeyRecordRepository() (keysUseCase.KeyRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return keysRepository.NewPostgreSQLKeyRecordRepository(db), nil
	case "mysql":
		return keysRepository.NewMySQLKeyRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeyUseCase creates the key use case with all its dependencies.
func (c *Container) initKeyUseCase() (keysUseCase.KeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for key use case: %w", err)
	}

	repo, err := c.KeyRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key record repository for key use case: %w", err)
	}

	envelope, err := c.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope for key use case: %w", err)
	}

	sealer, err := c.RecordSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get record sealer for key use case: %w", err)
	}

	alg, err := c.payloadAlgorithm()
	if err != nil {
		return nil, err
	}

	business, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key use case: %w", err)
	}

	useCase := keysUseCase.NewKeyUseCase(
		txManager,
		repo,
		envelope,
		sealer,
		c.SessionCache(),
		c.CredentialRotator(),
		alg,
	)

	return keysUseCase.NewKeyUseCaseWithMetrics(useCase, business), nil
}
