package llmprovider

import (
	"encoding/json"
	"fmt"
)

// GenerationSettings represents request parameters shared across providers.
// All scalar fields are optional pointers to distinguish "not set" from
// "set to zero value"; absent settings are never sent on the wire.
type GenerationSettings struct {
	// MaxTokens sets the maximum number of tokens to generate
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0-1.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP (nucleus sampling) - cumulative probability cutoff (0.0-1.0)
	TopP *float64 `json:"top_p,omitempty"`

	// Tools available for the model to use, in order
	Tools []ToolDefinition `json:"tools,omitempty"`

	// ToolChoice controls whether/which tools the model may use
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// ProviderOptions carries provider-specific settings.
	//
	// The reserved "guardrailConfig" key is lifted into the wire request's
	// top-level guardrailConfig object. Every other key is merged verbatim
	// at the top level of the wire request. This is an intentionally
	// unvalidated extension point: values pass through exactly as given.
	ProviderOptions map[string]any `json:"provider_options,omitempty"`
}

// GuardrailConfigKey is the reserved ProviderOptions key for guardrail
// configuration.
const GuardrailConfigKey = "guardrailConfig"

// ToolDefinition describes one tool offered to the model.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// ParameterSchema is a JSON schema describing the tool's arguments.
	// It is passed through to the provider without validation.
	ParameterSchema any `json:"parameter_schema,omitempty"`
}

// ToolChoice type constants
const (
	ToolChoiceTypeAuto = "auto" // Model decides whether to call a tool
	ToolChoiceTypeNone = "none" // Model must not call tools
	ToolChoiceTypeTool = "tool" // Model must call the named tool
)

// ToolChoice constrains tool selection for a request.
type ToolChoice struct {
	// Type is "auto", "none", or "tool"
	Type string `json:"type"`

	// ToolName names the required tool when Type is "tool"
	ToolName string `json:"tool_name,omitempty"`
}

// ToolChoiceAuto lets the model decide whether to call a tool.
func ToolChoiceAuto() *ToolChoice {
	return &ToolChoice{Type: ToolChoiceTypeAuto}
}

// ToolChoiceNone forbids tool calls.
func ToolChoiceNone() *ToolChoice {
	return &ToolChoice{Type: ToolChoiceTypeNone}
}

// ToolChoiceTool requires the model to call the named tool.
func ToolChoiceTool(name string) *ToolChoice {
	return &ToolChoice{Type: ToolChoiceTypeTool, ToolName: name}
}

// GuardrailConfig returns the reserved guardrailConfig provider option as a
// map, or nil if unset. The object is passed through to the wire verbatim;
// only the shape documented by the provider is meaningful
// (guardrailIdentifier, guardrailVersion, trace, streamProcessingMode).
func (s *GenerationSettings) GuardrailConfig() map[string]any {
	if s == nil || s.ProviderOptions == nil {
		return nil
	}
	cfg, ok := s.ProviderOptions[GuardrailConfigKey].(map[string]any)
	if !ok {
		return nil
	}
	return cfg
}

// ValidateSettings validates generation settings ranges.
// Request mappers never call this; providers are the source of truth for
// what they accept. It exists for callers that want an early sanity check.
func ValidateSettings(s *GenerationSettings) error {
	if s == nil {
		return nil // nil settings is valid
	}

	if s.Temperature != nil {
		if *s.Temperature < 0.0 || *s.Temperature > 1.0 {
			return &ValidationError{
				Field:  "temperature",
				Value:  *s.Temperature,
				Reason: "must be between 0.0 and 1.0",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if s.TopP != nil {
		if *s.TopP < 0.0 || *s.TopP > 1.0 {
			return &ValidationError{
				Field:  "top_p",
				Value:  *s.TopP,
				Reason: "must be between 0.0 and 1.0",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if s.MaxTokens != nil {
		if *s.MaxTokens < 1 {
			return &ValidationError{
				Field:  "max_tokens",
				Value:  *s.MaxTokens,
				Reason: "must be positive",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if s.ToolChoice != nil {
		switch s.ToolChoice.Type {
		case ToolChoiceTypeAuto, ToolChoiceTypeNone:
		case ToolChoiceTypeTool:
			if s.ToolChoice.ToolName == "" {
				return &ValidationError{
					Field:  "tool_choice",
					Value:  s.ToolChoice.Type,
					Reason: "tool choice of type 'tool' requires a tool name",
					Err:    ErrInvalidRequest,
				}
			}
		default:
			return &ValidationError{
				Field:  "tool_choice",
				Value:  s.ToolChoice.Type,
				Reason: "must be 'auto', 'none', or 'tool'",
				Err:    ErrInvalidRequest,
			}
		}
	}

	return nil
}

// GetSettingsStruct unmarshals a generic map into typed GenerationSettings.
func GetSettingsStruct(settings map[string]any) (*GenerationSettings, error) {
	if settings == nil {
		return &GenerationSettings{}, nil
	}

	jsonBytes, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	var gs GenerationSettings
	if err := json.Unmarshal(jsonBytes, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &gs, nil
}

// GetMaxTokens returns max_tokens with default fallback
func (s *GenerationSettings) GetMaxTokens(defaultValue int) int {
	if s != nil && s.MaxTokens != nil {
		return *s.MaxTokens
	}
	return defaultValue
}

// GetTemperature returns temperature with default fallback
func (s *GenerationSettings) GetTemperature(defaultValue float64) float64 {
	if s != nil && s.Temperature != nil {
		return *s.Temperature
	}
	return defaultValue
}
