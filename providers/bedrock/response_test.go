package bedrock

import (
	"net/http"
	"testing"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

func TestMapConverseResponse_Text(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [
			{"text": "Hello, "},
			{"text": "World!"}
		]}},
		"stopReason": "end_turn",
		"usage": {"inputTokens": 10, "outputTokens": 5, "totalTokens": 15}
	}`)

	headers := http.Header{"X-Amzn-Requestid": []string{"req-1"}}
	resp, err := mapConverseResponse(body, headers)
	if err != nil {
		t.Fatalf("mapConverseResponse() error = %v", err)
	}

	if resp.Text != "Hello, World!" {
		t.Errorf("Text = %q, want ordered concatenation", resp.Text)
	}
	if resp.FinishReason != llmprovider.FinishReasonStop {
		t.Errorf("FinishReason = %q, want stop", resp.FinishReason)
	}
	if resp.Usage.PromptTokens != 10 || resp.Usage.CompletionTokens != 5 {
		t.Errorf("Usage = %+v, want {10 5}", resp.Usage)
	}
	if resp.RawResponse == nil || resp.RawResponse.Headers.Get("X-Amzn-Requestid") != "req-1" {
		t.Error("response headers were not exposed unmodified")
	}
}

func TestMapConverseResponse_ToolCalls(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [
			{"text": "Checking."},
			{"toolUse": {"toolUseId": "call-1", "name": "lookup", "input": {"q":"weather"}}},
			{"toolUse": {"toolUseId": "call-2", "name": "math", "input": {"expr":"1+1"}}}
		]}},
		"stopReason": "tool_use",
		"usage": {"inputTokens": 3, "outputTokens": 7}
	}`)

	resp, err := mapConverseResponse(body, nil)
	if err != nil {
		t.Fatalf("mapConverseResponse() error = %v", err)
	}

	if resp.FinishReason != llmprovider.FinishReasonToolCalls {
		t.Errorf("FinishReason = %q, want tool-calls", resp.FinishReason)
	}
	if len(resp.ToolCalls) != 2 {
		t.Fatalf("got %d tool calls, want 2", len(resp.ToolCalls))
	}
	first := resp.ToolCalls[0]
	if first.ToolCallID != "call-1" || first.ToolName != "lookup" {
		t.Errorf("tool call 0 = %+v", first)
	}
	if first.Args != `{"q":"weather"}` {
		t.Errorf("tool call 0 args = %q, want the input's JSON text", first.Args)
	}
	if resp.ToolCalls[1].ToolCallID != "call-2" {
		t.Errorf("tool call 1 = %+v", resp.ToolCalls[1])
	}
}

func TestMapConverseResponse_Trace(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [{"text": "ok"}]}},
		"stopReason": "end_turn",
		"usage": {"inputTokens": 1, "outputTokens": 1},
		"trace": {"guardrail": {"action": "INTERVENED"}}
	}`)

	resp, err := mapConverseResponse(body, nil)
	if err != nil {
		t.Fatalf("mapConverseResponse() error = %v", err)
	}

	bedrockMeta, ok := resp.ProviderMetadata["bedrock"]
	if !ok {
		t.Fatal("missing providerMetadata.bedrock")
	}
	trace, ok := bedrockMeta["trace"].(map[string]any)
	if !ok {
		t.Fatalf("trace type = %T", bedrockMeta["trace"])
	}
	guardrail, ok := trace["guardrail"].(map[string]any)
	if !ok || guardrail["action"] != "INTERVENED" {
		t.Errorf("trace = %v, want verbatim guardrail trace", trace)
	}
}

func TestMapConverseResponse_UnknownStopReason(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [{"text": "ok"}]}},
		"stopReason": "eos",
		"usage": {"inputTokens": 1, "outputTokens": 1}
	}`)

	resp, err := mapConverseResponse(body, nil)
	if err != nil {
		t.Fatalf("mapConverseResponse() should never fail on an unknown stopReason, got %v", err)
	}
	if resp.FinishReason != llmprovider.FinishReasonUnknown {
		t.Errorf("FinishReason = %q, want unknown", resp.FinishReason)
	}
}

func TestMapConverseResponse_MissingUsage(t *testing.T) {
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": []}},
		"stopReason": "end_turn"
	}`)

	resp, err := mapConverseResponse(body, nil)
	if err != nil {
		t.Fatalf("mapConverseResponse() error = %v", err)
	}
	if resp.Usage.Known() {
		t.Errorf("Usage = %+v, want NaN sentinel when the wire omits usage", resp.Usage)
	}
}

func TestMapConverseResponse_InvalidJSON(t *testing.T) {
	if _, err := mapConverseResponse([]byte(`{not json`), nil); err == nil {
		t.Error("malformed response body should fail")
	}
}
