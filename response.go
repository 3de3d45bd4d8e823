package llmprovider

import "net/http"

// ToolCall is one completed tool invocation in a response.
type ToolCall struct {
	// ToolCallID is the provider-assigned invocation id
	ToolCallID string `json:"tool_call_id"`

	// ToolName is the invoked tool's name
	ToolName string `json:"tool_name"`

	// Args is the invocation's argument payload as JSON text, exactly as
	// produced by the model. The library never re-serializes it.
	Args string `json:"args"`
}

// RawResponse exposes transport-level response data alongside a result.
type RawResponse struct {
	// Headers are the provider's response headers, unmodified
	Headers http.Header
}

// GenerateResponse contains the provider's complete (non-streaming) response.
type GenerateResponse struct {
	// Text is the concatenation of the response's text content, in order
	Text string

	// ToolCalls lists tool invocations requested by the model, in order
	ToolCalls []ToolCall

	// Usage reports token consumption. Always present; fields are NaN when
	// the provider never supplied usage.
	Usage Usage

	// FinishReason indicates why generation stopped
	FinishReason FinishReason

	// RawResponse exposes response headers unmodified (nil if the provider
	// has no transport-level response to surface)
	RawResponse *RawResponse

	// ProviderMetadata contains provider-specific response data keyed by
	// provider name (e.g. ProviderMetadata["bedrock"]["trace"])
	ProviderMetadata map[string]map[string]any
}
