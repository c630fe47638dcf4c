package providers

const (
	DefaultProfile = "gemini-svg"

	geminiFlashURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
	palmChatURL    = "https://generativelanguage.googleapis.com/v1beta2/models/chat-bison-001:generateMessage"

	svgPromptTemplate = "Generate only the clean, complete, and valid SVG code for the following traffic sign: {{.Prompt}}. " +
		"The SVG must be responsive, start with <svg> and end with </svg>. " +
		"Do not include any other text, explanations, or markdown characters like ```."
)

// Profiles with an empty BaseURL must be given one through configuration.
var builtinProfiles = map[string]Profile{
	"gemini-svg": {
		Name:           "gemini-svg",
		BaseURL:        geminiFlashURL,
		AuthMode:       AuthQuery,
		AuthParam:      defaultAuthParam,
		Schema:         SchemaContents,
		PromptTemplate: svgPromptTemplate,
		ResultPath:     "candidates[0].content.parts[0].text",
		StripFences:    true,
	},
	"gemini-text": {
		Name:       "gemini-text",
		BaseURL:    geminiFlashURL,
		AuthMode:   AuthQuery,
		AuthParam:  defaultAuthParam,
		Schema:     SchemaContents,
		ResultPath: "candidates[0].content.parts[0].text",
	},
	"palm-chat": {
		Name:       "palm-chat",
		BaseURL:    palmChatURL,
		AuthMode:   AuthQuery,
		AuthParam:  defaultAuthParam,
		Schema:     SchemaMessages,
		ResultPath: "candidates[0].content",
	},
	"image": {
		Name:       "image",
		AuthMode:   AuthBearer,
		Schema:     SchemaPrompt,
		ResultPath: "image",
	},
	"expected-result": {
		Name:       "expected-result",
		AuthMode:   AuthBearer,
		Schema:     SchemaPrompt,
		ResultPath: "resultadoEsperado",
	},
}
