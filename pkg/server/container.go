package server

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/metrics"
	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
	"github.com/sigrod-cmd/Examen-licencia/internal/services"
)

// Version is reported by the health endpoint and the build info metric
const Version = "1.0.0"

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Profile      *providers.Profile
	RelayService services.RelayService

	services *services.ServiceContainer
}

// Option customizes container construction
type Option func(*containerOptions)

type containerOptions struct {
	credentials config.CredentialSource
	httpClient  *http.Client
}

// WithCredentials overrides the environment credential source
func WithCredentials(src config.CredentialSource) Option {
	return func(o *containerOptions) {
		o.credentials = src
	}
}

// WithHTTPClient sets the HTTP client used for provider calls
func WithHTTPClient(client *http.Client) Option {
	return func(o *containerOptions) {
		o.httpClient = client
	}
}

// NewContainer creates a new dependency injection container.
// A missing credential is not an error here: it is reported per request.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	options := &containerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.credentials == nil {
		options.credentials = config.NewEnvCredentialSource(config.CredentialKeys...)
	}

	profile, err := cfg.Provider.ResolveProfile()
	if err != nil {
		return nil, err
	}

	serviceContainer, err := services.NewServiceContainer(&services.ServiceConfig{
		Profile:     profile,
		Credentials: options.credentials,
		Timeout:     cfg.Relay.Timeout,
		HTTPClient:  options.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}
	if err := serviceContainer.Validate(); err != nil {
		return nil, err
	}

	metrics.RegisterDefault()
	metrics.SetBuildInfo(Version, profile.Name)

	if options.credentials.Credential() == "" {
		logrus.WithField("profile", profile.Name).Warn("Provider credential is not configured; generation requests will fail")
	}

	logrus.WithFields(logrus.Fields{
		"profile":   profile.Name,
		"auth_mode": profile.AuthMode,
		"timeout":   cfg.Relay.Timeout.String(),
	}).Info("Relay container initialized")

	return &Container{
		Config:       cfg,
		Profile:      profile,
		RelayService: serviceContainer.RelayService,
		services:     serviceContainer,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.services != nil {
		if err := c.services.Close(); err != nil {
			return fmt.Errorf("failed to close services: %w", err)
		}
	}
	return nil
}
