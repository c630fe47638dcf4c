package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	RelayService RelayService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Profile     *providers.Profile
	Credentials config.CredentialSource
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(cfg *ServiceConfig) (*ServiceContainer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("service config cannot be nil")
	}

	relayService, err := NewRelayService(&RelayConfig{
		Profile:     cfg.Profile,
		Credentials: cfg.Credentials,
		Timeout:     cfg.Timeout,
		HTTPClient:  cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create relay service: %w", err)
	}

	return &ServiceContainer{
		RelayService: relayService,
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.RelayService == nil {
		return fmt.Errorf("relay service is nil")
	}
	return nil
}

// Close releases idle provider connections
func (sc *ServiceContainer) Close() error {
	if closer, ok := sc.RelayService.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}
