package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/metrics"
	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
	"github.com/sigrod-cmd/Examen-licencia/internal/secret"
)

// maxLoggedPayload bounds how much of an unexpected provider body is logged
const maxLoggedPayload = 2048

// RelayConfig holds relay service configuration
type RelayConfig struct {
	Profile     *providers.Profile
	Credentials config.CredentialSource
	Timeout     time.Duration
	HTTPClient  *http.Client // optional, mostly for tests
}

// relayService implements the RelayService interface
type relayService struct {
	profile     *providers.Profile
	credentials config.CredentialSource
	client      *resty.Client
}

// NewRelayService creates a new relay service instance
func NewRelayService(cfg *RelayConfig) (RelayService, error) {
	if cfg == nil || cfg.Profile == nil {
		return nil, fmt.Errorf("provider profile is required")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultRelayTimeout
	}

	// Generation calls are billable; a failed call is never repeated
	client.
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logrus.WithField("component", "resty")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &relayService{
		profile:     cfg.Profile,
		credentials: cfg.Credentials,
		client:      client,
	}, nil
}

// Profile returns the provider profile the service relays to
func (s *relayService) Profile() *providers.Profile {
	return s.profile
}

// Generate sends the prompt to the provider and extracts the generated content
func (s *relayService) Generate(ctx context.Context, prompt string) (*GenerationResult, error) {
	credential := s.credentials.Credential()
	if credential == "" {
		return nil, ErrMissingCredential
	}

	body, err := s.profile.BuildBody(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	req := s.client.R().
		SetContext(ctx).
		SetBody(body)

	switch s.profile.AuthMode {
	case providers.AuthQuery:
		req.SetQueryParam(s.profile.AuthParam, credential)
	case providers.AuthBearer:
		req.SetAuthToken(credential)
	}

	log := logrus.WithFields(logrus.Fields{
		"profile":       s.profile.Name,
		"prompt_length": len(prompt),
	})

	start := time.Now()
	resp, err := req.Post(s.profile.BaseURL)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveUpstreamDuration(s.profile.Name, "error", elapsed)
		cause := errors.New(secret.Redact(err.Error(), credential))
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = fmt.Errorf("%w: %v", ctxErr, cause)
		}
		log.WithFields(logrus.Fields{
			"latency_ms": elapsed.Milliseconds(),
			"error":      cause.Error(),
		}).Error("Provider request failed")
		return nil, &UpstreamError{Err: cause}
	}

	status := resp.StatusCode()
	payload := resp.Body()
	metrics.ObserveUpstreamDuration(s.profile.Name, strconv.Itoa(status), elapsed)

	log = log.WithFields(logrus.Fields{
		"status_code": status,
		"latency_ms":  elapsed.Milliseconds(),
	})

	if !resp.IsSuccess() {
		message := secret.Redact(providers.ErrorMessage(payload), credential)
		log.WithField("provider_message", message).Error("Provider returned an error response")
		return nil, &UpstreamError{StatusCode: status, Message: message}
	}

	result, err := s.profile.ExtractResult(payload)
	if err != nil {
		log.WithFields(logrus.Fields{
			"error":   err.Error(),
			"payload": truncate(secret.Redact(string(payload), credential), maxLoggedPayload),
		}).Error("Unexpected provider response format")
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	log.Debug("Provider response extracted")

	return &GenerationResult{
		Profile:    s.profile.Name,
		Text:       result.Text,
		Structured: result.Structured,
	}, nil
}

// CloseIdleConnections closes keep-alive connections to the provider
func (s *relayService) CloseIdleConnections() {
	s.client.GetClient().CloseIdleConnections()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
