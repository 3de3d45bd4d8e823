package llmprovider

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Part type constants
const (
	PartTypeText       = "text"
	PartTypeFile       = "file"        // Raw file bytes with a mime type (images, documents)
	PartTypeToolCall   = "tool_call"   // Assistant-issued tool invocation
	PartTypeToolResult = "tool_result" // Result sent back from a client-executed tool call
)

// Message represents a single message in the conversation.
type Message struct {
	// Role is one of "system", "user", "assistant", or "tool"
	Role string `json:"role"`

	// Parts is the ordered list of content parts for this message
	Parts []Part `json:"parts"`
}

// Part represents one unit of message content.
// This is a tagged union: PartType selects which of the remaining fields
// are meaningful.
//
// Part fields by type:
//   - text: Text
//   - file: Data, MimeType
//   - tool_call: ToolCallID, ToolName, Args
//   - tool_result: ToolCallID, Result
type Part struct {
	// PartType indicates the kind of part
	// Values: "text", "file", "tool_call", "tool_result"
	PartType string `json:"part_type"`

	// Text contains the text for text parts
	Text string `json:"text,omitempty"`

	// Data contains the raw bytes for file parts
	Data []byte `json:"data,omitempty"`

	// MimeType is the media type of Data (e.g. "image/png", "application/pdf")
	MimeType string `json:"mime_type,omitempty"`

	// ToolCallID identifies a tool invocation (tool_call and tool_result parts)
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolName is the invoked tool's name (tool_call parts)
	ToolName string `json:"tool_name,omitempty"`

	// Args is the tool invocation's argument payload as JSON text.
	// It is treated as an opaque string and reproduced verbatim on the
	// wire; the library never re-serializes or validates it.
	Args string `json:"args,omitempty"`

	// Result carries the tool execution outcome for tool_result parts.
	// Any JSON-encodable value is accepted.
	Result any `json:"result,omitempty"`
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{PartType: PartTypeText, Text: text}
}

// FilePart creates a file part from raw bytes and a mime type.
func FilePart(data []byte, mimeType string) Part {
	return Part{PartType: PartTypeFile, Data: data, MimeType: mimeType}
}

// ToolCallPart creates a tool_call part. args is the raw JSON argument text.
func ToolCallPart(toolCallID, toolName, args string) Part {
	return Part{
		PartType:   PartTypeToolCall,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Args:       args,
	}
}

// ToolResultPart creates a tool_result part.
func ToolResultPart(toolCallID string, result any) Part {
	return Part{
		PartType:   PartTypeToolResult,
		ToolCallID: toolCallID,
		Result:     result,
	}
}

// IsText returns true if this is a text part
func (p *Part) IsText() bool {
	return p.PartType == PartTypeText
}

// IsFile returns true if this is a file part
func (p *Part) IsFile() bool {
	return p.PartType == PartTypeFile
}

// IsToolCall returns true if this is a tool_call part
func (p *Part) IsToolCall() bool {
	return p.PartType == PartTypeToolCall
}

// IsToolResult returns true if this is a tool_result part
func (p *Part) IsToolResult() bool {
	return p.PartType == PartTypeToolResult
}

// IsImage returns true if this is a file part carrying an image mime type
func (p *Part) IsImage() bool {
	return p.IsFile() && len(p.MimeType) > 6 && p.MimeType[:6] == "image/"
}

// SystemMessage creates a system message with a single text part.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart(text)}}
}

// UserMessage creates a user message with a single text part.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

// AssistantMessage creates an assistant message with a single text part.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart(text)}}
}

// ToolMessage creates a tool message carrying one tool result.
func ToolMessage(toolCallID string, result any) Message {
	return Message{Role: RoleTool, Parts: []Part{ToolResultPart(toolCallID, result)}}
}
