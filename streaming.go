package llmprovider

import "math"

// FinishReason enumerates why a generation stopped.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool-calls"
	FinishReasonContentFilter FinishReason = "content-filter"
	FinishReasonError         FinishReason = "error"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Usage reports token consumption for one call.
//
// Both fields are always structurally present. When the provider never
// supplied usage (e.g. a stream that terminated with an error), they hold
// NaN rather than zero so downstream arithmetic propagates the "unknown"
// instead of silently counting zero tokens.
type Usage struct {
	PromptTokens     float64 `json:"prompt_tokens"`
	CompletionTokens float64 `json:"completion_tokens"`
}

// UnknownUsage returns a Usage with both fields set to the NaN sentinel.
func UnknownUsage() Usage {
	return Usage{PromptTokens: math.NaN(), CompletionTokens: math.NaN()}
}

// Known returns true if usage was actually reported by the provider.
func (u Usage) Known() bool {
	return !math.IsNaN(u.PromptTokens) && !math.IsNaN(u.CompletionTokens)
}

// Stream part type constants
const (
	StreamPartTextDelta     = "text-delta"      // Incremental text content
	StreamPartToolCallDelta = "tool-call-delta" // Incremental tool argument text
	StreamPartToolCall      = "tool-call"       // Completed tool call with full arguments
	StreamPartError         = "error"           // In-band stream failure
	StreamPartFinish        = "finish"          // Terminal part; always last, exactly once
)

// StreamPart represents a single element of a translated response stream.
// This is a tagged union: Type selects which of the remaining fields are
// meaningful.
//
// Every stream ends with exactly one finish part, on both success and
// failure paths, so consumers can always read FinishReason and Usage from
// the last part without special-casing errors.
type StreamPart struct {
	// Type indicates the part kind
	// Values: "text-delta", "tool-call-delta", "tool-call", "error", "finish"
	Type string `json:"type"`

	// === text-delta ===

	// TextDelta contains incremental text content
	TextDelta string `json:"text_delta,omitempty"`

	// === tool-call-delta ===

	// ToolCallID and ToolName identify the tool call the delta belongs to
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`

	// ArgsTextDelta is one fragment of the tool call's argument JSON text
	ArgsTextDelta string `json:"args_text_delta,omitempty"`

	// === tool-call ===

	// ToolCall is the completed invocation; its Args field is the exact
	// ordered concatenation of the block's ArgsTextDelta fragments
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// === error ===

	// Error carries the failure payload verbatim (a decoded wire exception
	// object, or an error value for local decode failures)
	Error any `json:"error,omitempty"`

	// === finish ===

	// FinishReason indicates why the stream ended
	FinishReason FinishReason `json:"finish_reason,omitempty"`

	// Usage is always populated on finish parts (NaN sentinel if unknown)
	Usage Usage `json:"usage,omitempty"`

	// ProviderMetadata contains provider-specific stream metadata keyed by
	// provider name (e.g. ProviderMetadata["bedrock"]["trace"])
	ProviderMetadata map[string]map[string]any `json:"provider_metadata,omitempty"`
}

// StreamResponse is the result of a streaming call.
type StreamResponse struct {
	// Parts emits translated stream parts in arrival order. The channel is
	// closed after the terminal finish part. Single-pass; a new call always
	// starts a fresh stream.
	Parts <-chan StreamPart

	// RawResponse exposes the stream handshake's response headers
	RawResponse *RawResponse
}

// IsTerminal returns true for the stream's final part.
func (p *StreamPart) IsTerminal() bool {
	return p.Type == StreamPartFinish
}
