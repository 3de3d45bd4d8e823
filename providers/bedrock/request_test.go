package bedrock

import (
	"bytes"
	"encoding/json"
	"testing"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func encodeRequest(t *testing.T, messages []llmprovider.Message, settings *llmprovider.GenerationSettings, mode string) []byte {
	t.Helper()
	body, err := mapConverseRequest(messages, settings, mode)
	if err != nil {
		t.Fatalf("mapConverseRequest() error = %v", err)
	}
	data, err := encodeConverseRequest(body)
	if err != nil {
		t.Fatalf("encodeConverseRequest() error = %v", err)
	}
	return data
}

func TestMapConverseRequest_SystemAndUser(t *testing.T) {
	messages := []llmprovider.Message{
		llmprovider.SystemMessage("System Prompt"),
		llmprovider.UserMessage("Hello"),
	}

	got := encodeRequest(t, messages, nil, "")
	want := `{"messages":[{"role":"user","content":[{"text":"Hello"}]}],"system":[{"text":"System Prompt"}]}`

	if string(got) != want {
		t.Errorf("wire body = %s, want %s", got, want)
	}
}

// Identical inputs always produce a byte-identical wire body.
func TestMapConverseRequest_Deterministic(t *testing.T) {
	messages := []llmprovider.Message{
		llmprovider.SystemMessage("s"),
		llmprovider.UserMessage("u"),
	}
	settings := &llmprovider.GenerationSettings{
		MaxTokens:   intPtr(100),
		Temperature: floatPtr(0.5),
		Tools: []llmprovider.ToolDefinition{
			llmprovider.NewTool("search", "Search", map[string]any{
				"query": map[string]any{"type": "string"},
			}, []string{"query"}),
		},
		ToolChoice: llmprovider.ToolChoiceAuto(),
		ProviderOptions: map[string]any{
			"additionalModelRequestFields": map[string]any{"top_k": 50},
			llmprovider.GuardrailConfigKey: map[string]any{
				"guardrailIdentifier": "gr-1",
				"guardrailVersion":    "1",
			},
		},
	}

	first := encodeRequest(t, messages, settings, llmprovider.ModeRegular)
	second := encodeRequest(t, messages, settings, llmprovider.ModeRegular)

	if !bytes.Equal(first, second) {
		t.Errorf("encoding is not deterministic:\n%s\n%s", first, second)
	}
}

func TestMapConverseRequest_InferenceConfig(t *testing.T) {
	messages := []llmprovider.Message{llmprovider.UserMessage("hi")}

	t.Run("absent settings are omitted, never null", func(t *testing.T) {
		got := encodeRequest(t, messages, &llmprovider.GenerationSettings{}, "")
		if bytes.Contains(got, []byte("inferenceConfig")) {
			t.Errorf("empty settings produced inferenceConfig: %s", got)
		}
		if bytes.Contains(got, []byte("null")) {
			t.Errorf("wire body contains null: %s", got)
		}
	})

	t.Run("present settings map through", func(t *testing.T) {
		settings := &llmprovider.GenerationSettings{
			MaxTokens: intPtr(256),
			TopP:      floatPtr(0.9),
		}
		got := encodeRequest(t, messages, settings, "")
		want := `"inferenceConfig":{"maxTokens":256,"topP":0.9}`
		if !bytes.Contains(got, []byte(want)) {
			t.Errorf("wire body = %s, want to contain %s", got, want)
		}
	})
}

func TestMapConverseRequest_ToolConfig(t *testing.T) {
	messages := []llmprovider.Message{llmprovider.UserMessage("hi")}
	tools := []llmprovider.ToolDefinition{
		{Name: "lookup", Description: "Look something up", ParameterSchema: map[string]any{"type": "object"}},
	}

	t.Run("tools with auto choice", func(t *testing.T) {
		settings := &llmprovider.GenerationSettings{
			Tools:      tools,
			ToolChoice: llmprovider.ToolChoiceAuto(),
		}
		got := encodeRequest(t, messages, settings, "")
		for _, want := range []string{
			`"toolSpec":{"name":"lookup","description":"Look something up","inputSchema":{"json":{"type":"object"}}}`,
			`"toolChoice":{"auto":{}}`,
		} {
			if !bytes.Contains(got, []byte(want)) {
				t.Errorf("wire body = %s, want to contain %s", got, want)
			}
		}
	})

	t.Run("named tool choice", func(t *testing.T) {
		settings := &llmprovider.GenerationSettings{
			Tools:      tools,
			ToolChoice: llmprovider.ToolChoiceTool("lookup"),
		}
		got := encodeRequest(t, messages, settings, "")
		if !bytes.Contains(got, []byte(`"toolChoice":{"tool":{"name":"lookup"}}`)) {
			t.Errorf("wire body = %s, want named tool choice", got)
		}
	})

	t.Run("none choice omits toolConfig", func(t *testing.T) {
		settings := &llmprovider.GenerationSettings{
			Tools:      tools,
			ToolChoice: llmprovider.ToolChoiceNone(),
		}
		got := encodeRequest(t, messages, settings, "")
		if bytes.Contains(got, []byte("toolConfig")) {
			t.Errorf("none tool choice still produced toolConfig: %s", got)
		}
	})

	t.Run("object-tool mode forces the tool", func(t *testing.T) {
		settings := &llmprovider.GenerationSettings{Tools: tools}
		got := encodeRequest(t, messages, settings, llmprovider.ModeObjectTool)
		if !bytes.Contains(got, []byte(`"toolChoice":{"tool":{"name":"lookup"}}`)) {
			t.Errorf("wire body = %s, want forced tool choice", got)
		}
	})

	t.Run("object-json mode is rejected", func(t *testing.T) {
		_, err := mapConverseRequest(messages, &llmprovider.GenerationSettings{}, llmprovider.ModeObjectJSON)
		if err == nil {
			t.Error("object-json mode should fail")
		}
	})
}

func TestMapConverseRequest_GuardrailAndPassthrough(t *testing.T) {
	messages := []llmprovider.Message{llmprovider.UserMessage("hi")}
	settings := &llmprovider.GenerationSettings{
		ProviderOptions: map[string]any{
			llmprovider.GuardrailConfigKey: map[string]any{
				"guardrailIdentifier":  "gr-42",
				"guardrailVersion":     "3",
				"streamProcessingMode": "async",
			},
			"additionalModelRequestFields": map[string]any{"top_k": 250},
			"performanceConfig":            map[string]any{"latency": "optimized"},
		},
	}

	body, err := mapConverseRequest(messages, settings, "")
	if err != nil {
		t.Fatalf("mapConverseRequest() error = %v", err)
	}

	guardrail, ok := body["guardrailConfig"].(map[string]any)
	if !ok {
		t.Fatal("guardrailConfig missing from top level")
	}
	if guardrail["guardrailIdentifier"] != "gr-42" || guardrail["streamProcessingMode"] != "async" {
		t.Errorf("guardrailConfig = %v, want verbatim copy", guardrail)
	}

	// Other provider options merge verbatim at the top level
	if _, ok := body["additionalModelRequestFields"]; !ok {
		t.Error("additionalModelRequestFields not merged at top level")
	}
	if _, ok := body["performanceConfig"]; !ok {
		t.Error("performanceConfig not merged at top level")
	}
}

func TestMapConverseRequest_Parts(t *testing.T) {
	messages := []llmprovider.Message{
		{
			Role: llmprovider.RoleAssistant,
			Parts: []llmprovider.Part{
				llmprovider.TextPart("Let me check."),
				llmprovider.ToolCallPart("call-1", "lookup", `{"q":"weather"}`),
			},
		},
		llmprovider.ToolMessage("call-1", map[string]any{"temp": 21}),
		{
			Role: llmprovider.RoleUser,
			Parts: []llmprovider.Part{
				llmprovider.FilePart([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png"),
				llmprovider.FilePart([]byte("%PDF-"), "application/pdf"),
			},
		},
	}

	got := encodeRequest(t, messages, nil, "")

	var decoded struct {
		Messages []struct {
			Role    string                       `json:"role"`
			Content []map[string]json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("wire body is not valid JSON: %v", err)
	}

	if len(decoded.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(decoded.Messages))
	}

	// Assistant message preserves part order: text then toolUse
	assistant := decoded.Messages[0]
	if assistant.Role != "assistant" {
		t.Errorf("message 0 role = %q", assistant.Role)
	}
	if _, ok := assistant.Content[0]["text"]; !ok {
		t.Error("assistant content 0 is not text")
	}
	if _, ok := assistant.Content[1]["toolUse"]; !ok {
		t.Error("assistant content 1 is not toolUse")
	}
	// Tool call args are reproduced verbatim
	if !bytes.Contains(assistant.Content[1]["toolUse"], []byte(`"input":{"q":"weather"}`)) {
		t.Errorf("toolUse block = %s, want verbatim input", assistant.Content[1]["toolUse"])
	}

	// Tool results travel in a user-role message
	toolMsg := decoded.Messages[1]
	if toolMsg.Role != "user" {
		t.Errorf("tool message role = %q, want user", toolMsg.Role)
	}
	if _, ok := toolMsg.Content[0]["toolResult"]; !ok {
		t.Error("tool message content is not toolResult")
	}

	// Files map to image and document blocks
	fileMsg := decoded.Messages[2]
	if _, ok := fileMsg.Content[0]["image"]; !ok {
		t.Error("png file did not map to an image block")
	}
	if !bytes.Contains(fileMsg.Content[0]["image"], []byte(`"format":"png"`)) {
		t.Errorf("image block = %s, want png format", fileMsg.Content[0]["image"])
	}
	if _, ok := fileMsg.Content[1]["document"]; !ok {
		t.Error("pdf file did not map to a document block")
	}
}

func TestMapConverseRequest_MultipleSystemParts(t *testing.T) {
	messages := []llmprovider.Message{
		llmprovider.SystemMessage("first"),
		llmprovider.UserMessage("hi"),
		llmprovider.SystemMessage("second"),
	}

	body, err := mapConverseRequest(messages, nil, "")
	if err != nil {
		t.Fatalf("mapConverseRequest() error = %v", err)
	}

	system, ok := body["system"].([]wireSystemBlock)
	if !ok {
		t.Fatalf("system type = %T", body["system"])
	}
	if len(system) != 2 || system[0].Text != "first" || system[1].Text != "second" {
		t.Errorf("system = %+v, want both entries in original order", system)
	}
}
