package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Prompt validation errors; all of them are client errors
var (
	ErrInvalidBody     = errors.New("request body must be a JSON object")
	ErrPromptMissing   = errors.New("prompt is required")
	ErrPromptNotString = errors.New("prompt must be a string")
	ErrPromptBlank     = errors.New("prompt must not be blank")
)

// GenerateRequest is the inbound request body
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// GenerateResponse is the success body. Result holds either a string or
// the provider's structured JSON value.
type GenerateResponse struct {
	Result interface{} `json:"result"`
}

// ParseGenerateRequest decodes and validates an inbound body. The returned
// prompt has surrounding whitespace removed.
func ParseGenerateRequest(body []byte) (*GenerateRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrPromptMissing
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrInvalidBody
	}

	raw, ok := fields["prompt"]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, ErrPromptMissing
	}

	req := &GenerateRequest{}
	if err := json.Unmarshal(raw, &req.Prompt); err != nil {
		return nil, ErrPromptNotString
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	return req, nil
}

// Validate checks the request against its validation tags
func (r *GenerateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// A present but empty prompt is reported the same way as a blank one
			return ErrPromptBlank
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// IsValidationError reports whether err is a client-side request error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidBody) ||
		errors.Is(err, ErrPromptMissing) ||
		errors.Is(err, ErrPromptNotString) ||
		errors.Is(err, ErrPromptBlank)
}
