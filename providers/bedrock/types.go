// Package bedrock implements the llmprovider.Provider interface on top of
// Amazon Bedrock's Converse and ConverseStream wire APIs.
//
// The package talks to the wire protocol directly: it builds the Converse
// JSON request body, decodes the vnd.amazon.eventstream response framing,
// and translates the provider's heterogeneous stream events into the
// library's generic stream parts. Request signing is delegated to a
// Transport collaborator (see transport.go).
package bedrock

import "encoding/json"

// ===== Request wire shapes =====

type wireSystemBlock struct {
	Text string `json:"text"`
}

type wireMessage struct {
	Role    string             `json:"role"`
	Content []wireContentBlock `json:"content"`
}

// wireContentBlock is a union: exactly one field is set.
type wireContentBlock struct {
	Text       *string              `json:"text,omitempty"`
	Image      *wireImageBlock      `json:"image,omitempty"`
	Document   *wireDocumentBlock   `json:"document,omitempty"`
	ToolUse    *wireToolUseBlock    `json:"toolUse,omitempty"`
	ToolResult *wireToolResultBlock `json:"toolResult,omitempty"`
}

type wireBytesSource struct {
	// Bytes is base64-encoded by encoding/json, matching the REST API's
	// representation of binary content.
	Bytes []byte `json:"bytes"`
}

type wireImageBlock struct {
	Format string          `json:"format"` // "png", "jpeg", "gif", "webp"
	Source wireBytesSource `json:"source"`
}

type wireDocumentBlock struct {
	Format string          `json:"format"` // "pdf", "txt", "md", ...
	Name   string          `json:"name"`
	Source wireBytesSource `json:"source"`
}

type wireToolUseBlock struct {
	ToolUseID string `json:"toolUseId"`
	Name      string `json:"name"`

	// Input is the tool's argument JSON, reproduced verbatim from the
	// part's opaque Args text.
	Input json.RawMessage `json:"input"`
}

type wireToolResultBlock struct {
	ToolUseID string                  `json:"toolUseId"`
	Content   []wireToolResultContent `json:"content"`
}

type wireToolResultContent struct {
	JSON any     `json:"json,omitempty"`
	Text *string `json:"text,omitempty"`
}

type wireInferenceConfig struct {
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"topP,omitempty"`
}

type wireToolConfig struct {
	Tools      []wireTool      `json:"tools"`
	ToolChoice *wireToolChoice `json:"toolChoice,omitempty"`
}

type wireTool struct {
	ToolSpec wireToolSpec `json:"toolSpec"`
}

type wireToolSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	InputSchema wireToolInputSchema `json:"inputSchema"`
}

type wireToolInputSchema struct {
	JSON any `json:"json"`
}

// wireToolChoice is a union: exactly one field is set.
type wireToolChoice struct {
	Auto *struct{}           `json:"auto,omitempty"`
	Tool *wireToolChoiceTool `json:"tool,omitempty"`
}

type wireToolChoiceTool struct {
	Name string `json:"name"`
}

// ===== Response wire shapes =====

type wireConverseResponse struct {
	Output struct {
		Message struct {
			Role    string                     `json:"role"`
			Content []wireResponseContentBlock `json:"content"`
		} `json:"message"`
	} `json:"output"`
	StopReason string         `json:"stopReason"`
	Usage      *wireUsage     `json:"usage"`
	Trace      map[string]any `json:"trace"`
}

type wireResponseContentBlock struct {
	Text    *string              `json:"text"`
	ToolUse *wireResponseToolUse `json:"toolUse"`
}

type wireResponseToolUse struct {
	ToolUseID string          `json:"toolUseId"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
}

type wireUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// ===== Stream event wire shapes =====

// streamEvent is the decoded stream event union. Exactly one field is
// non-nil; which one acts as the event's tag.
type streamEvent struct {
	MessageStart      *messageStartEvent      `json:"messageStart,omitempty"`
	ContentBlockStart *contentBlockStartEvent `json:"contentBlockStart,omitempty"`
	ContentBlockDelta *contentBlockDeltaEvent `json:"contentBlockDelta,omitempty"`
	ContentBlockStop  *contentBlockStopEvent  `json:"contentBlockStop,omitempty"`
	MessageStop       *messageStopEvent       `json:"messageStop,omitempty"`
	Metadata          *metadataEvent          `json:"metadata,omitempty"`
	Exception         *exceptionEvent         `json:"-"`
}

type messageStartEvent struct {
	Role string `json:"role"`
}

type contentBlockStartEvent struct {
	ContentBlockIndex int `json:"contentBlockIndex"`
	Start             struct {
		ToolUse *struct {
			ToolUseID string `json:"toolUseId"`
			Name      string `json:"name"`
		} `json:"toolUse"`
	} `json:"start"`
}

type contentBlockDeltaEvent struct {
	ContentBlockIndex int `json:"contentBlockIndex"`
	Delta             struct {
		Text    *string `json:"text"`
		ToolUse *struct {
			// Input is one fragment of the block's argument JSON text.
			Input string `json:"input"`
		} `json:"toolUse"`
	} `json:"delta"`
}

type contentBlockStopEvent struct {
	ContentBlockIndex int `json:"contentBlockIndex"`
}

type messageStopEvent struct {
	StopReason string `json:"stopReason"`
}

type metadataEvent struct {
	Usage   *wireUsage     `json:"usage"`
	Metrics map[string]any `json:"metrics"`
	Trace   map[string]any `json:"trace"`
}

// exceptionEvent carries a wire exception (internalServerException,
// modelStreamErrorException, throttlingException, validationException, or
// any future similarly-shaped *Exception event). All exception names are
// handled uniformly; Payload is passed through to consumers verbatim.
type exceptionEvent struct {
	Name    string
	Payload map[string]any
}
