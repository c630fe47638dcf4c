package services

import (
	"context"
	"encoding/json"

	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
)

// RelayService forwards a prompt to the configured provider and returns the
// generated content
type RelayService interface {
	Generate(ctx context.Context, prompt string) (*GenerationResult, error)
	Profile() *providers.Profile
}

// GenerationResult is the normalized provider output
type GenerationResult struct {
	Profile    string
	Text       string
	Structured json.RawMessage
}

// Value returns the structured result when present, the text otherwise
func (r *GenerationResult) Value() interface{} {
	if r.Structured != nil {
		return r.Structured
	}
	return r.Text
}
