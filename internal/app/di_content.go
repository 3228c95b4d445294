package app

import (
	"fmt"

	contentHTTP "github.com/prayerbox/keyguard/internal/content/http"
	contentUseCase "github.com/prayerbox/keyguard/internal/content/usecase"
)

// ContentUseCase returns the payload encryption use case.
func (c *Container) ContentUseCase() (contentUseCase.ContentUseCase, error) {
	var err error
	c.contentUseCaseInit.Do(func() {
		c.contentUseCase, err = c.initContentUseCase()
		if err != nil {
			c.initErrors["contentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentUseCase"]; exists {
		return nil, storedErr
	}
	return c.contentUseCase, nil
}

// ContentHandler returns the HTTP handler for payload encryption operations.
func (c *Container) ContentHandler() (*contentHTTP.ContentHandler, error) {
	useCase, err := c.ContentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get content use case for content handler: %w", err)
	}

	business, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for content handler: %w", err)
	}

	return contentHTTP.NewContentHandler(useCase, business, c.Logger()), nil
}

// initContentUseCase creates the content use case with all its dependencies.
func (c *Container) initContentUseCase() (contentUseCase.ContentUseCase, error) {
	alg, err := c.payloadAlgorithm()
	if err != nil {
		return nil, err
	}

	return contentUseCase.NewContentUseCase(
		c.SessionCache(),
		c.AEADManager(),
		alg,
	), nil
}
