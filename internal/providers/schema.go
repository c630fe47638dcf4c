package providers

import "fmt"

type contentsBody struct {
	Contents []contentEntry `json:"contents"`
}

type contentEntry struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type messagesBody struct {
	Prompt messagePrompt `json:"prompt"`
}

type messagePrompt struct {
	Messages []message `json:"messages"`
}

type message struct {
	Content string `json:"content"`
}

type promptBody struct {
	Prompt string `json:"prompt"`
}

// BuildBody renders the prompt and embeds it in the profile's body schema.
// The returned value is ready to be JSON encoded.
func (p *Profile) BuildBody(prompt string) (interface{}, error) {
	text, err := p.RenderPrompt(prompt)
	if err != nil {
		return nil, err
	}

	switch p.Schema {
	case SchemaContents:
		return contentsBody{
			Contents: []contentEntry{{Parts: []contentPart{{Text: text}}}},
		}, nil
	case SchemaMessages:
		return messagesBody{
			Prompt: messagePrompt{Messages: []message{{Content: text}}},
		}, nil
	case SchemaPrompt:
		return promptBody{Prompt: text}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported body schema %q", ErrInvalidProfile, p.Name, p.Schema)
	}
}
