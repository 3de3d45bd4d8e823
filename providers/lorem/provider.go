// Package lorem provides a mock provider that generates lorem ipsum text.
// Used for testing and development without credentials or network access.
package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

const defaultMaxTokens = 256

// Provider is a mock LLM provider. Model names select behavior:
//
//	lorem-fast    streams ~30 words/second
//	lorem-slow    streams ~2 words/second
//	lorem-cutoff  stops early with a length finish reason
//
// Any other "lorem-" model streams at ~10 words/second.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{generator: loremgen.New()}
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderLorem
}

// SupportsModel returns true if the model name starts with "lorem-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

func (p *Provider) validate(req *llmprovider.GenerateRequest) error {
	if !p.SupportsModel(req.Model) {
		return &llmprovider.ModelError{
			Model:    req.Model,
			Provider: p.Name().String(),
			Reason:   "model not supported by lorem provider (must start with 'lorem-')",
			Err:      llmprovider.ErrInvalidModel,
		}
	}
	return nil
}

// Generate produces a complete lorem ipsum response.
func (p *Provider) Generate(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxTokens := req.Settings.GetMaxTokens(defaultMaxTokens)
	text := p.generateWords(maxTokens)

	resp := &llmprovider.GenerateResponse{
		Text: text,
		Usage: llmprovider.Usage{
			PromptTokens:     float64(estimateTokens(req.Messages)),
			CompletionTokens: float64(len(strings.Fields(text))),
		},
		FinishReason:     llmprovider.FinishReasonStop,
		ProviderMetadata: mockMetadata(),
	}

	if req.Settings != nil && len(req.Settings.Tools) > 0 {
		call, err := mockToolCall(&req.Settings.Tools[0])
		if err != nil {
			return nil, err
		}
		resp.ToolCalls = []llmprovider.ToolCall{*call}
		resp.FinishReason = llmprovider.FinishReasonToolCalls
	}

	return resp, nil
}

// Stream produces a streaming lorem ipsum response. The parts channel
// always ends with exactly one finish part.
func (p *Provider) Stream(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.StreamResponse, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	maxTokens := req.Settings.GetMaxTokens(defaultMaxTokens)
	var tools []llmprovider.ToolDefinition
	if req.Settings != nil {
		tools = req.Settings.Tools
	}

	parts := make(chan llmprovider.StreamPart, 10) // Buffered to prevent blocking

	go func() {
		defer close(parts)

		emit := func(part llmprovider.StreamPart) bool {
			select {
			case <-ctx.Done():
				return false
			case parts <- part:
				return true
			}
		}

		wordsSent, finishReason := p.streamText(ctx, emit, req.Model, maxTokens)
		if finishReason == "" {
			return // consumer gone, channel closes without a finish part
		}

		if len(tools) > 0 && finishReason == llmprovider.FinishReasonStop {
			if !p.streamToolCall(ctx, emit, req.Model, &tools[0]) {
				return
			}
			finishReason = llmprovider.FinishReasonToolCalls
		}

		emit(llmprovider.StreamPart{
			Type:         llmprovider.StreamPartFinish,
			FinishReason: finishReason,
			Usage: llmprovider.Usage{
				PromptTokens:     float64(estimateTokens(req.Messages)),
				CompletionTokens: float64(wordsSent),
			},
			ProviderMetadata: mockMetadata(),
		})
	}()

	return &llmprovider.StreamResponse{Parts: parts}, nil
}

// streamText emits word-by-word text deltas. It returns the number of words
// sent and the finish reason, or an empty reason if the consumer went away.
func (p *Provider) streamText(ctx context.Context, emit func(llmprovider.StreamPart) bool, model string, maxTokens int) (int, llmprovider.FinishReason) {
	targetWords := maxTokens
	cutoff := isCutoffModel(model)
	if cutoff {
		// Generate past the budget so the cutoff path actually triggers.
		targetWords = maxTokens + maxTokens/2
	}

	words := strings.Fields(p.generateWords(targetWords))
	delay := streamDelay(model)

	wordsSent := 0
	for _, word := range words {
		if cutoff && wordsSent >= maxTokens {
			return wordsSent, llmprovider.FinishReasonLength
		}
		if !emit(llmprovider.StreamPart{
			Type:      llmprovider.StreamPartTextDelta,
			TextDelta: word + " ",
		}) {
			return wordsSent, ""
		}
		wordsSent++

		select {
		case <-ctx.Done():
			return wordsSent, ""
		case <-time.After(delay):
		}
	}
	return wordsSent, llmprovider.FinishReasonStop
}

// streamToolCall emits incremental argument deltas followed by the complete
// tool call, mirroring the shape real providers stream in.
func (p *Provider) streamToolCall(ctx context.Context, emit func(llmprovider.StreamPart) bool, model string, tool *llmprovider.ToolDefinition) bool {
	call, err := mockToolCall(tool)
	if err != nil {
		emit(llmprovider.StreamPart{Type: llmprovider.StreamPartError, Error: err.Error()})
		emit(llmprovider.StreamPart{
			Type:         llmprovider.StreamPartFinish,
			FinishReason: llmprovider.FinishReasonError,
			Usage:        llmprovider.UnknownUsage(),
		})
		return false
	}

	delay := streamDelay(model) / 10 // JSON streams faster than words
	for _, fragment := range splitFragments(call.Args, 8) {
		if !emit(llmprovider.StreamPart{
			Type:          llmprovider.StreamPartToolCallDelta,
			ToolCallID:    call.ToolCallID,
			ToolName:      call.ToolName,
			ArgsTextDelta: fragment,
		}) {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
	}

	return emit(llmprovider.StreamPart{
		Type:     llmprovider.StreamPartToolCall,
		ToolCall: call,
	})
}

// mockToolCall builds a deterministic-shaped call for the requested tool
// with a fresh id.
func mockToolCall(tool *llmprovider.ToolDefinition) (*llmprovider.ToolCall, error) {
	args, err := json.Marshal(map[string]any{"query": "lorem ipsum dolor sit amet"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mock tool args: %w", err)
	}
	return &llmprovider.ToolCall{
		ToolCallID: "toolu_" + uuid.NewString(),
		ToolName:   tool.Name,
		Args:       string(args),
	}, nil
}

func splitFragments(s string, size int) []string {
	var fragments []string
	for len(s) > size {
		fragments = append(fragments, s[:size])
		s = s[size:]
	}
	if len(s) > 0 {
		fragments = append(fragments, s)
	}
	return fragments
}

// streamDelay returns the delay between words based on the model name.
func streamDelay(model string) time.Duration {
	switch {
	case strings.Contains(model, "slow"):
		return 500 * time.Millisecond // 2 words/second
	case strings.Contains(model, "fast"):
		return 33 * time.Millisecond // 30 words/second
	default:
		return 100 * time.Millisecond // 10 words/second
	}
}

// isCutoffModel returns true if the model should simulate a token-budget
// cutoff.
func isCutoffModel(model string) bool {
	return strings.Contains(model, "cutoff") || strings.Contains(model, "small")
}

// generateWords generates lorem ipsum text with approximately targetWords
// words.
func (p *Provider) generateWords(targetWords int) string {
	var sb strings.Builder
	wordCount := 0
	for wordCount < targetWords {
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")
		wordCount += len(strings.Fields(sentence))
	}
	return strings.TrimSpace(sb.String())
}

// estimateTokens approximates prompt tokens by word count.
func estimateTokens(messages []llmprovider.Message) int {
	totalWords := 0
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if part.IsText() {
				totalWords += len(strings.Fields(part.Text))
			}
		}
	}
	return totalWords
}

func mockMetadata() map[string]map[string]any {
	return map[string]map[string]any{
		"lorem": {"mock": true},
	}
}
