package bedrock

import (
	"encoding/json"
	"fmt"
	"strings"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

// mapConverseRequest builds the Converse wire request body from the generic
// prompt, settings, and call mode.
//
// The function is pure: identical inputs always produce an identical body
// (encodeConverseRequest marshals maps with sorted keys, so the encoding is
// byte-stable). It performs no validation beyond shape mapping; tool
// parameter schemas and provider options pass through untouched.
func mapConverseRequest(messages []llmprovider.Message, settings *llmprovider.GenerationSettings, mode string) (map[string]any, error) {
	body := make(map[string]any)

	system, wireMessages, err := mapPrompt(messages)
	if err != nil {
		return nil, err
	}
	body["messages"] = wireMessages
	if len(system) > 0 {
		body["system"] = system
	}

	if settings == nil {
		settings = &llmprovider.GenerationSettings{}
	}

	if cfg := inferenceConfig(settings); cfg != nil {
		body["inferenceConfig"] = cfg
	}

	toolConfig, err := mapToolConfig(settings, mode)
	if err != nil {
		return nil, err
	}
	if toolConfig != nil {
		body["toolConfig"] = toolConfig
	}

	if guardrail := settings.GuardrailConfig(); guardrail != nil {
		body["guardrailConfig"] = guardrail
	}

	// Remaining provider options merge verbatim at the top level. This is
	// an intentionally unvalidated extension point: compatibility depends
	// on exact passthrough, so unknown keys are never filtered or reshaped.
	for key, value := range settings.ProviderOptions {
		if key == llmprovider.GuardrailConfigKey {
			continue
		}
		body[key] = value
	}

	return body, nil
}

// encodeConverseRequest marshals the mapped body to its wire JSON.
func encodeConverseRequest(body map[string]any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode converse request: %w", err)
	}
	return data, nil
}

// mapPrompt splits the prompt into the top-level system array and the
// messages array, preserving message and part order.
func mapPrompt(messages []llmprovider.Message) ([]wireSystemBlock, []wireMessage, error) {
	var system []wireSystemBlock
	wireMessages := make([]wireMessage, 0, len(messages))

	for i, msg := range messages {
		if msg.Role == llmprovider.RoleSystem {
			for _, part := range msg.Parts {
				if !part.IsText() {
					return nil, nil, fmt.Errorf("message %d: system messages only support text parts, got %q", i, part.PartType)
				}
				system = append(system, wireSystemBlock{Text: part.Text})
			}
			continue
		}

		content := make([]wireContentBlock, 0, len(msg.Parts))
		for j, part := range msg.Parts {
			block, err := mapPart(part)
			if err != nil {
				return nil, nil, fmt.Errorf("message %d, part %d: %w", i, j, err)
			}
			content = append(content, block)
		}

		wireMessages = append(wireMessages, wireMessage{
			Role:    wireRole(msg.Role),
			Content: content,
		})
	}

	return system, wireMessages, nil
}

// wireRole maps generic roles onto the two roles Converse accepts.
// Tool results travel in user-role messages.
func wireRole(role string) string {
	if role == llmprovider.RoleAssistant {
		return "assistant"
	}
	return "user"
}

func mapPart(part llmprovider.Part) (wireContentBlock, error) {
	switch part.PartType {
	case llmprovider.PartTypeText:
		text := part.Text
		return wireContentBlock{Text: &text}, nil

	case llmprovider.PartTypeFile:
		return mapFilePart(part)

	case llmprovider.PartTypeToolCall:
		input := json.RawMessage(part.Args)
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return wireContentBlock{ToolUse: &wireToolUseBlock{
			ToolUseID: part.ToolCallID,
			Name:      part.ToolName,
			Input:     input,
		}}, nil

	case llmprovider.PartTypeToolResult:
		return wireContentBlock{ToolResult: &wireToolResultBlock{
			ToolUseID: part.ToolCallID,
			Content:   []wireToolResultContent{{JSON: part.Result}},
		}}, nil

	default:
		return wireContentBlock{}, fmt.Errorf("unsupported part type %q", part.PartType)
	}
}

// mapFilePart maps a file part to an image or document block based on its
// mime type. The format is the mime subtype ("image/png" -> "png").
func mapFilePart(part llmprovider.Part) (wireContentBlock, error) {
	subtype := mimeSubtype(part.MimeType)
	if subtype == "" {
		return wireContentBlock{}, fmt.Errorf("file part has unusable mime type %q", part.MimeType)
	}

	if part.IsImage() {
		format := subtype
		if format == "jpg" {
			format = "jpeg"
		}
		return wireContentBlock{Image: &wireImageBlock{
			Format: format,
			Source: wireBytesSource{Bytes: part.Data},
		}}, nil
	}

	return wireContentBlock{Document: &wireDocumentBlock{
		Format: subtype,
		Name:   "document",
		Source: wireBytesSource{Bytes: part.Data},
	}}, nil
}

func mimeSubtype(mimeType string) string {
	_, subtype, found := strings.Cut(mimeType, "/")
	if !found {
		return ""
	}
	// Strip parameters like "; charset=utf-8"
	if idx := strings.IndexByte(subtype, ';'); idx >= 0 {
		subtype = strings.TrimSpace(subtype[:idx])
	}
	return subtype
}

// inferenceConfig maps present sampling settings; absent settings are
// omitted entirely, never sent as null.
func inferenceConfig(settings *llmprovider.GenerationSettings) *wireInferenceConfig {
	if settings.MaxTokens == nil && settings.Temperature == nil && settings.TopP == nil {
		return nil
	}
	return &wireInferenceConfig{
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
		TopP:        settings.TopP,
	}
}

// mapToolConfig builds toolConfig from the settings and call mode.
//
// Mode handling:
//   - regular: tools and tool choice map straight through. A "none" tool
//     choice omits toolConfig entirely (the wire protocol has no none
//     variant; withholding the tools is equivalent).
//   - object-tool: a single forced tool; tool choice is {tool:{name}}.
//   - object-json: the Converse API has no native JSON mode; callers use
//     object-tool instead.
func mapToolConfig(settings *llmprovider.GenerationSettings, mode string) (*wireToolConfig, error) {
	switch mode {
	case "", llmprovider.ModeRegular:
	case llmprovider.ModeObjectTool:
		if len(settings.Tools) != 1 {
			return nil, fmt.Errorf("object-tool mode requires exactly one tool, got %d", len(settings.Tools))
		}
		return &wireToolConfig{
			Tools:      []wireTool{mapTool(settings.Tools[0])},
			ToolChoice: &wireToolChoice{Tool: &wireToolChoiceTool{Name: settings.Tools[0].Name}},
		}, nil
	case llmprovider.ModeObjectJSON:
		return nil, fmt.Errorf("object-json mode is not supported by the Converse API; use object-tool mode")
	default:
		return nil, fmt.Errorf("unsupported call mode %q", mode)
	}

	if len(settings.Tools) == 0 {
		return nil, nil
	}
	if settings.ToolChoice != nil && settings.ToolChoice.Type == llmprovider.ToolChoiceTypeNone {
		return nil, nil
	}

	tools := make([]wireTool, 0, len(settings.Tools))
	for _, def := range settings.Tools {
		tools = append(tools, mapTool(def))
	}

	cfg := &wireToolConfig{Tools: tools}
	if settings.ToolChoice != nil {
		switch settings.ToolChoice.Type {
		case llmprovider.ToolChoiceTypeAuto:
			cfg.ToolChoice = &wireToolChoice{Auto: &struct{}{}}
		case llmprovider.ToolChoiceTypeTool:
			cfg.ToolChoice = &wireToolChoice{Tool: &wireToolChoiceTool{Name: settings.ToolChoice.ToolName}}
		default:
			return nil, fmt.Errorf("unsupported tool choice type %q", settings.ToolChoice.Type)
		}
	}

	return cfg, nil
}

func mapTool(def llmprovider.ToolDefinition) wireTool {
	return wireTool{ToolSpec: wireToolSpec{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: wireToolInputSchema{JSON: def.ParameterSchema},
	}}
}
