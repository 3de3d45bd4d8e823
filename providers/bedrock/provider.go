package bedrock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	llmprovider "github.com/kestrelworks/strato-llm-go"
)

const defaultRegion = "us-east-1"

// Provider implements the llmprovider.Provider interface against Amazon
// Bedrock's Converse wire API. All instance state is read-only after
// construction; every call runs a fresh pipeline.
type Provider struct {
	region         string
	baseURL        string
	transport      Transport
	defaultHeaders map[string]string
}

// Option configures a Provider.
type Option func(*Provider)

// WithRegion sets the AWS region (default "us-east-1").
func WithRegion(region string) Option {
	return func(p *Provider) { p.region = region }
}

// WithBaseURL overrides the resolved endpoint base URL. Useful for VPC
// endpoints and tests.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) { p.baseURL = baseURL }
}

// WithTransport substitutes the transport collaborator that signs and
// sends requests.
func WithTransport(transport Transport) Option {
	return func(p *Provider) { p.transport = transport }
}

// WithDefaultHeaders sets instance-default request headers. Per-call
// headers override them on key collision.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(p *Provider) { p.defaultHeaders = headers }
}

// NewProvider creates a Bedrock provider. Without an explicit transport it
// builds a SigV4Transport over the default AWS credential chain.
func NewProvider(ctx context.Context, opts ...Option) (*Provider, error) {
	p := &Provider{region: defaultRegion}
	for _, opt := range opts {
		opt(p)
	}

	if p.baseURL == "" {
		p.baseURL = fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", p.region)
	}

	if p.transport == nil {
		transport, err := NewSigV4Transport(ctx, p.region)
		if err != nil {
			return nil, err
		}
		p.transport = transport
	}

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderBedrock
}

// Generate produces a complete response via POST /model/{modelId}/converse.
func (p *Provider) Generate(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error) {
	resp, err := p.send(ctx, req, "converse", "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converse response: %w", err)
	}

	return mapConverseResponse(body, resp.Header)
}

// Stream produces a streaming response via
// POST /model/{modelId}/converse-stream.
//
// A returned error means the call failed before any stream bytes were
// decoded (transport or handshake failure). Once a StreamResponse is
// returned, all failures are recovered in-band and the Parts channel
// always ends with exactly one finish part. Cancelling ctx closes the
// underlying connection promptly; no parts are emitted after that.
func (p *Provider) Stream(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.StreamResponse, error) {
	resp, err := p.send(ctx, req, "converse-stream", "application/vnd.amazon.eventstream")
	if err != nil {
		return nil, err
	}

	parts := make(chan llmprovider.StreamPart, 10) // Buffered to prevent blocking

	go func() {
		defer close(parts)
		defer resp.Body.Close()

		// Close the body when ctx is cancelled so a blocked frame read
		// returns instead of orphaning the connection.
		stopCancellation := context.AfterFunc(ctx, func() { resp.Body.Close() })
		defer stopCancellation()

		translator := newStreamTranslator()
		translator.Run(newEventStreamDecoder(resp.Body), func(part llmprovider.StreamPart) bool {
			select {
			case <-ctx.Done():
				return false
			case parts <- part:
				return true
			}
		})
	}()

	return &llmprovider.StreamResponse{
		Parts:       parts,
		RawResponse: &llmprovider.RawResponse{Headers: resp.Header},
	}, nil
}

// send maps the request, merges headers, and performs the signed POST.
// Non-2xx handshakes surface as a ProviderError; they are pre-stream
// failures and eligible for caller-level retry.
func (p *Provider) send(ctx context.Context, req *llmprovider.GenerateRequest, action, accept string) (*http.Response, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &llmprovider.ModelError{
			Model:    req.Model,
			Provider: p.Name().String(),
			Reason:   "model id does not match any known Bedrock model family",
			Err:      llmprovider.ErrInvalidModel,
		}
	}

	body, err := mapConverseRequest(req.Messages, req.Settings, req.GetMode())
	if err != nil {
		return nil, err
	}
	payload, err := encodeConverseRequest(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/model/%s/%s", p.baseURL, url.PathEscape(req.Model), action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	applyHeaders(httpReq, mergeHeaders(p.defaultHeaders, req.Headers))
	httpReq.Header.Set("Accept", accept)

	resp, err := p.transport.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("bedrock request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, p.handshakeError(resp)
	}

	return resp, nil
}

// handshakeError classifies a non-200 handshake response.
func (p *Provider) handshakeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	providerErr := &llmprovider.ProviderError{
		Provider:   p.Name().String(),
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		providerErr.Retryable = true
		providerErr.Err = llmprovider.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		providerErr.Err = llmprovider.ErrInvalidCredentials
	case resp.StatusCode >= 500:
		providerErr.Retryable = true
		providerErr.Err = llmprovider.ErrProviderUnavailable
	case resp.StatusCode == http.StatusBadRequest:
		providerErr.Err = llmprovider.ErrInvalidRequest
	}

	return providerErr
}
