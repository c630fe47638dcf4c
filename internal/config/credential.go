package config

import (
	"strings"

	"github.com/spf13/viper"
)

// CredentialSource yields the provider credential. It is consulted on every
// request; an empty string means the credential is not configured.
type CredentialSource interface {
	Credential() string
}

// EnvCredentialSource reads the credential from the environment through viper
// each time it is asked, so a missing key surfaces per request.
type EnvCredentialSource struct {
	keys []string
}

// NewEnvCredentialSource binds the given keys, consulted in order
func NewEnvCredentialSource(keys ...string) *EnvCredentialSource {
	if len(keys) == 0 {
		keys = CredentialKeys
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
	return &EnvCredentialSource{keys: keys}
}

// Credential implements CredentialSource
func (s *EnvCredentialSource) Credential() string {
	for _, key := range s.keys {
		if value := strings.TrimSpace(viper.GetString(key)); value != "" {
			return value
		}
	}
	return ""
}

// StaticCredential is a fixed credential, mostly useful in tests
type StaticCredential string

// Credential implements CredentialSource
func (s StaticCredential) Credential() string {
	return strings.TrimSpace(string(s))
}
