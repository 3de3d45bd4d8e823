package bedrock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Transport sends an unsigned request and returns the provider's response.
// It owns credential resolution and request signing; the provider hands it
// a fully-formed request with merged caller headers, and headers the
// transport computes itself (e.g. Authorization) take final precedence.
type Transport interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

const signingService = "bedrock"

// SigV4Transport signs requests with AWS Signature Version 4 and sends them
// over an HTTP client.
type SigV4Transport struct {
	client *http.Client
	creds  aws.CredentialsProvider
	region string
	signer *v4.Signer
}

// SigV4Option configures a SigV4Transport.
type SigV4Option func(*SigV4Transport)

// WithHTTPClient sets the HTTP client used to send signed requests.
func WithHTTPClient(client *http.Client) SigV4Option {
	return func(t *SigV4Transport) { t.client = client }
}

// WithStaticCredentials uses fixed credentials instead of the default AWS
// credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) SigV4Option {
	return func(t *SigV4Transport) {
		t.creds = credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)
	}
}

// NewSigV4Transport creates a transport for the given region. Without
// explicit credentials it resolves the default AWS credential chain
// (environment, shared config, IAM role).
func NewSigV4Transport(ctx context.Context, region string, opts ...SigV4Option) (*SigV4Transport, error) {
	t := &SigV4Transport{
		client: http.DefaultClient,
		region: region,
		signer: v4.NewSigner(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.creds == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		t.creds = cfg.Credentials
	}

	return t, nil
}

// Do signs the request and sends it. The request body is buffered to
// compute the payload hash the signature covers.
func (t *SigV4Transport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	bodyHash, err := hashRequestBody(req)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Amz-Content-Sha256", bodyHash)

	creds, err := t.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve aws credentials: %w", err)
	}

	if err := t.signer.SignHTTP(ctx, creds, req, bodyHash, signingService, t.region, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	return t.client.Do(req)
}

// hashRequestBody returns the hex SHA-256 of the request body, restoring
// the body for the subsequent send.
func hashRequestBody(req *http.Request) (string, error) {
	if req.Body == nil {
		hash := sha256.Sum256(nil)
		return hex.EncodeToString(hash[:]), nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return "", fmt.Errorf("error reading request body: %w", err)
	}
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	hash := sha256.Sum256(bodyBytes)
	return hex.EncodeToString(hash[:]), nil
}
