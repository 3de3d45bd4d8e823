package bedrock

import (
	"fmt"
	"io"
	"strings"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

// Content block kinds tracked during streaming.
const (
	blockKindText    = "text"
	blockKindToolUse = "toolUse"
)

// contentBlockState is the per-index mutable state of one in-flight content
// block. The args builder accumulates toolUse argument fragments in arrival
// order; the completed tool call's Args is the exact concatenation.
type contentBlockState struct {
	kind       string
	toolCallID string
	toolName   string
	args       strings.Builder
}

// streamTranslator consumes decoded stream events and re-emits them as
// generic stream parts.
//
// State machine: the translator is Active until it emits the terminal
// finish part, after which it is Finished and reads no further input. The
// per-index block arena is owned by one translator for one stream and is
// discarded at finish; a new call always builds a fresh translator.
//
// Error policy: every in-stream failure (wire exception or frame decode
// failure) is recovered in-band as an error part followed by
// finish(error) with NaN usage. Nothing is ever raised out of the stream
// after it begins.
type streamTranslator struct {
	blocks     map[int]*contentBlockState
	usage      *wireUsage
	trace      map[string]any
	stopReason string
	finished   bool
}

func newStreamTranslator() *streamTranslator {
	return &streamTranslator{
		blocks: make(map[int]*contentBlockState),
	}
}

// Run drains src, translating each event fully before pulling the next.
// Parts are delivered through emit in arrival order; emit returns false
// when the consumer is gone, which stops the translator immediately
// (no finish part is forced on a departed consumer).
func (t *streamTranslator) Run(src eventSource, emit func(llmprovider.StreamPart) bool) {
	for !t.finished {
		event, err := src.Next()
		if err == io.EOF {
			t.finishNormal(emit)
			return
		}
		if err != nil {
			// Decode failure: recovered in-band, payload verbatim.
			t.finishWithError(err, emit)
			return
		}
		if !t.apply(event, emit) {
			return
		}
	}
}

// apply processes one event: state is updated and zero or one part emitted
// before the next event is read. Returns false if the consumer is gone or
// the stream reached its terminal state.
func (t *streamTranslator) apply(event *streamEvent, emit func(llmprovider.StreamPart) bool) bool {
	switch {
	case event.MessageStart != nil:
		// Carries only the assistant role; nothing to translate.
		return true

	case event.ContentBlockStart != nil:
		start := event.ContentBlockStart
		if start.Start.ToolUse != nil {
			state := &contentBlockState{
				kind:       blockKindToolUse,
				toolCallID: start.Start.ToolUse.ToolUseID,
				toolName:   start.Start.ToolUse.Name,
			}
			t.blocks[start.ContentBlockIndex] = state
		} else {
			t.blocks[start.ContentBlockIndex] = &contentBlockState{kind: blockKindText}
		}
		return true

	case event.ContentBlockDelta != nil:
		return t.applyDelta(event.ContentBlockDelta, emit)

	case event.ContentBlockStop != nil:
		return t.applyStop(event.ContentBlockStop.ContentBlockIndex, emit)

	case event.MessageStop != nil:
		// Records the pending finish reason; the stream terminates when
		// the underlying sequence is exhausted, not here.
		t.stopReason = event.MessageStop.StopReason
		return true

	case event.Metadata != nil:
		if event.Metadata.Usage != nil {
			t.usage = event.Metadata.Usage
		}
		if event.Metadata.Trace != nil {
			t.trace = event.Metadata.Trace
		}
		return true

	case event.Exception != nil:
		t.finishWithError(event.Exception.Payload, emit)
		return false

	default:
		// The decoder only produces tagged events, so an empty union is a
		// protocol violation worth surfacing rather than skipping.
		t.finishWithError(fmt.Errorf("stream event has no recognized payload"), emit)
		return false
	}
}

func (t *streamTranslator) applyDelta(delta *contentBlockDeltaEvent, emit func(llmprovider.StreamPart) bool) bool {
	index := delta.ContentBlockIndex

	if delta.Delta.Text != nil {
		if _, seen := t.blocks[index]; !seen {
			t.blocks[index] = &contentBlockState{kind: blockKindText}
		}
		return emit(llmprovider.StreamPart{
			Type:      llmprovider.StreamPartTextDelta,
			TextDelta: *delta.Delta.Text,
		})
	}

	if delta.Delta.ToolUse != nil {
		state, seen := t.blocks[index]
		if !seen || state.kind != blockKindToolUse {
			// A toolUse delta for an index with no observed toolUse start
			// cannot be attributed to a tool call. Fail fast in-band
			// instead of guessing an id and name.
			t.finishWithError(fmt.Errorf("toolUse delta for content block %d without a toolUse start", index), emit)
			return false
		}

		fragment := delta.Delta.ToolUse.Input
		state.args.WriteString(fragment)
		return emit(llmprovider.StreamPart{
			Type:          llmprovider.StreamPartToolCallDelta,
			ToolCallID:    state.toolCallID,
			ToolName:      state.toolName,
			ArgsTextDelta: fragment,
		})
	}

	// Delta events with neither text nor toolUse carry nothing to emit.
	return true
}

// applyStop completes a content block. A toolUse block emits exactly one
// tool-call part whose Args is the unmodified concatenation of its delta
// fragments; text blocks were already streamed and emit nothing. Either
// way the block's state is discarded.
func (t *streamTranslator) applyStop(index int, emit func(llmprovider.StreamPart) bool) bool {
	state, seen := t.blocks[index]
	if !seen {
		return true
	}
	delete(t.blocks, index)

	if state.kind != blockKindToolUse {
		return true
	}

	return emit(llmprovider.StreamPart{
		Type: llmprovider.StreamPartToolCall,
		ToolCall: &llmprovider.ToolCall{
			ToolCallID: state.toolCallID,
			ToolName:   state.toolName,
			Args:       state.args.String(),
		},
	})
}

// finishNormal emits the terminal finish part for an exhausted stream,
// using the recorded stop reason and metadata (NaN usage if none arrived).
func (t *streamTranslator) finishNormal(emit func(llmprovider.StreamPart) bool) {
	t.finished = true

	part := llmprovider.StreamPart{
		Type:         llmprovider.StreamPartFinish,
		FinishReason: mapFinishReason(t.stopReason),
		Usage:        llmprovider.UnknownUsage(),
	}
	if t.usage != nil {
		part.Usage = llmprovider.Usage{
			PromptTokens:     float64(t.usage.InputTokens),
			CompletionTokens: float64(t.usage.OutputTokens),
		}
	}
	if t.trace != nil {
		part.ProviderMetadata = bedrockMetadata(t.trace)
	}

	emit(part)
}

// finishWithError emits an error part carrying the failure payload
// verbatim, then the terminal finish(error) part with NaN usage.
func (t *streamTranslator) finishWithError(payload any, emit func(llmprovider.StreamPart) bool) {
	t.finished = true

	if !emit(llmprovider.StreamPart{
		Type:  llmprovider.StreamPartError,
		Error: payload,
	}) {
		return
	}

	emit(llmprovider.StreamPart{
		Type:         llmprovider.StreamPartFinish,
		FinishReason: llmprovider.FinishReasonError,
		Usage:        llmprovider.UnknownUsage(),
	})
}
