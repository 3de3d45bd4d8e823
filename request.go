package llmprovider

// Call mode constants. Modes select how the provider shapes the request:
// regular chat, forced single-tool output, or JSON-object output.
const (
	ModeRegular    = "regular"
	ModeObjectTool = "object-tool"
	ModeObjectJSON = "object-json"
)

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Messages contains the conversation history, in order.
	// System-role messages are lifted into the provider's system field.
	Messages []Message

	// Model is the provider model identifier
	// (e.g. "anthropic.claude-3-5-sonnet-20240620-v1:0")
	Model string

	// Mode selects the call mode: "regular", "object-tool", or "object-json".
	// An empty Mode means "regular".
	Mode string

	// Settings contains generation parameters (max tokens, temperature,
	// tools, provider options, ...). Nil means provider defaults.
	Settings *GenerationSettings

	// Headers are per-call request headers. They override the provider's
	// instance-default headers on key collision; transport-computed headers
	// (e.g. a signed Authorization) take final precedence.
	Headers map[string]string
}

// GetMode returns the call mode, defaulting to "regular".
func (r *GenerateRequest) GetMode() string {
	if r.Mode == "" {
		return ModeRegular
	}
	return r.Mode
}
