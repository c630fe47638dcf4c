package providers

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
)

// AuthMode selects where the provider credential is attached to the outbound request
type AuthMode string

const (
	AuthQuery  AuthMode = "query"
	AuthBearer AuthMode = "bearer"
)

// BodySchema selects the JSON shape the prompt is embedded in
type BodySchema string

const (
	// SchemaContents is {"contents":[{"parts":[{"text":...}]}]}
	SchemaContents BodySchema = "contents"
	// SchemaMessages is {"prompt":{"messages":[{"content":...}]}}
	SchemaMessages BodySchema = "messages"
	// SchemaPrompt is {"prompt":...}
	SchemaPrompt BodySchema = "prompt"
)

const defaultAuthParam = "key"

var (
	ErrUnknownProfile = errors.New("unknown provider profile")
	ErrInvalidProfile = errors.New("invalid provider profile")
)

// Profile describes one external generation API: its endpoint, how the
// credential is attached, the request body schema and where the generated
// content lives in the response.
type Profile struct {
	Name           string
	BaseURL        string
	AuthMode       AuthMode
	AuthParam      string
	Schema         BodySchema
	PromptTemplate string
	ResultPath     string
	StripFences    bool

	resultKeys []string
	tmpl       *template.Template
}

// Overrides replaces individual fields of a built-in profile. Empty strings
// and a nil StripFences leave the built-in value untouched.
type Overrides struct {
	BaseURL        string
	AuthMode       string
	AuthParam      string
	ResultPath     string
	PromptTemplate string
	StripFences    *bool
}

// Resolve looks up a built-in profile, applies overrides and compiles it
func Resolve(name string, o Overrides) (*Profile, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if o.BaseURL != "" {
		p.BaseURL = o.BaseURL
	}
	if o.AuthMode != "" {
		p.AuthMode = AuthMode(strings.ToLower(o.AuthMode))
	}
	if o.AuthParam != "" {
		p.AuthParam = o.AuthParam
	}
	if o.ResultPath != "" {
		p.ResultPath = o.ResultPath
	}
	if o.PromptTemplate != "" {
		p.PromptTemplate = o.PromptTemplate
	}
	if o.StripFences != nil {
		p.StripFences = *o.StripFences
	}

	if err := p.Compile(); err != nil {
		return nil, err
	}
	return p, nil
}

// Compile validates the profile and prepares its result path and prompt template
func (p *Profile) Compile() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("%w: %s: base URL is required", ErrInvalidProfile, p.Name)
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s: base URL must be an absolute URL", ErrInvalidProfile, p.Name)
	}

	switch p.AuthMode {
	case AuthQuery:
		if p.AuthParam == "" {
			p.AuthParam = defaultAuthParam
		}
	case AuthBearer:
	default:
		return fmt.Errorf("%w: %s: unsupported auth mode %q", ErrInvalidProfile, p.Name, p.AuthMode)
	}

	switch p.Schema {
	case SchemaContents, SchemaMessages, SchemaPrompt:
	default:
		return fmt.Errorf("%w: %s: unsupported body schema %q", ErrInvalidProfile, p.Name, p.Schema)
	}

	keys, err := ParsePath(p.ResultPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
	}
	p.resultKeys = keys

	p.tmpl = nil
	if p.PromptTemplate != "" {
		tmpl, err := template.New(p.Name).Option("missingkey=error").Parse(p.PromptTemplate)
		if err != nil {
			return fmt.Errorf("%w: %s: prompt template: %v", ErrInvalidProfile, p.Name, err)
		}
		p.tmpl = tmpl
	}

	return nil
}

// ResultKeys returns the compiled result path
func (p *Profile) ResultKeys() []string {
	return p.resultKeys
}

// RenderPrompt applies the profile's prompt template, if any
func (p *Profile) RenderPrompt(prompt string) (string, error) {
	if p.tmpl == nil {
		return prompt, nil
	}
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, struct{ Prompt string }{Prompt: prompt}); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}
	return sb.String(), nil
}

// Lookup returns a copy of the named built-in profile
func Lookup(name string) (*Profile, error) {
	p, ok := builtinProfiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(Names(), ", "))
	}
	cp := p
	return &cp, nil
}

// Names lists the built-in profile names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
