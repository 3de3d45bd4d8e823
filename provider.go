package llmprovider

import (
	"context"
)

// Provider defines the interface that all LLM providers must implement.
// This abstraction allows supporting multiple providers while maintaining
// a consistent call contract.
//
// Types used by this interface:
//   - GenerateRequest, Message: defined in request.go / types.go
//   - GenerateResponse: defined in response.go
//   - StreamResponse, StreamPart: defined in streaming.go
type Provider interface {
	// Generate produces a complete response from the provider (blocking).
	// Failures surface as a returned error; a non-nil response always has
	// a populated Usage and FinishReason.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Stream produces a streaming response.
	//
	// A returned error means the call failed before the stream began
	// (transport or handshake failure) and may be retried by the caller.
	// Once a StreamResponse is returned, all further failures are recovered
	// in-band: the Parts channel always ends with an error part (if
	// applicable) followed by exactly one finish part, then closes.
	//
	// Usage:
	//   resp, err := provider.Stream(ctx, req)
	//   if err != nil { return err }
	//   for part := range resp.Parts {
	//     switch part.Type {
	//     case llmprovider.StreamPartTextDelta: ...
	//     case llmprovider.StreamPartToolCall: ...
	//     case llmprovider.StreamPartFinish: ...
	//     }
	//   }
	Stream(ctx context.Context, req *GenerateRequest) (*StreamResponse, error)

	// Name returns the provider identifier (e.g. "bedrock", "lorem")
	Name() ProviderID

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
