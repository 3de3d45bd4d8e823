package bedrock

import (
	"encoding/json"
	"fmt"
	"net/http"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

// mapConverseResponse maps a buffered Converse JSON response to the generic
// completion result. Response headers are exposed unmodified.
func mapConverseResponse(body []byte, headers http.Header) (*llmprovider.GenerateResponse, error) {
	var wire wireConverseResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode converse response: %w", err)
	}

	resp := &llmprovider.GenerateResponse{
		FinishReason: mapFinishReason(wire.StopReason),
		Usage:        llmprovider.UnknownUsage(),
		RawResponse:  &llmprovider.RawResponse{Headers: headers},
	}

	for _, block := range wire.Output.Message.Content {
		switch {
		case block.Text != nil:
			resp.Text += *block.Text
		case block.ToolUse != nil:
			resp.ToolCalls = append(resp.ToolCalls, llmprovider.ToolCall{
				ToolCallID: block.ToolUse.ToolUseID,
				ToolName:   block.ToolUse.Name,
				Args:       string(block.ToolUse.Input),
			})
		}
	}

	if wire.Usage != nil {
		resp.Usage = llmprovider.Usage{
			PromptTokens:     float64(wire.Usage.InputTokens),
			CompletionTokens: float64(wire.Usage.OutputTokens),
		}
	}

	if wire.Trace != nil {
		resp.ProviderMetadata = bedrockMetadata(wire.Trace)
	}

	return resp, nil
}

// mapFinishReason translates a wire stopReason into the generic finish
// reason. Unrecognized values map to "unknown", never to an error.
func mapFinishReason(stopReason string) llmprovider.FinishReason {
	switch stopReason {
	case "stop_sequence", "end_turn":
		return llmprovider.FinishReasonStop
	case "max_tokens":
		return llmprovider.FinishReasonLength
	case "tool_use":
		return llmprovider.FinishReasonToolCalls
	case "content_filtered", "guardrail_intervened":
		return llmprovider.FinishReasonContentFilter
	default:
		return llmprovider.FinishReasonUnknown
	}
}

// bedrockMetadata wraps a guardrail trace as provider metadata at
// providerMetadata["bedrock"]["trace"], verbatim.
func bedrockMetadata(trace map[string]any) map[string]map[string]any {
	return map[string]map[string]any{
		"bedrock": {"trace": trace},
	}
}
