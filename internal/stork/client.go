package stork

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the default base URL for the Stork API.
	DefaultBaseURL = "https://api.stork.mylinkbird.com/api"

	// requestTimeout bounds every outbound call. A hanging upstream blocks
	// the calling request or event handler for at most this long.
	requestTimeout = 60 * time.Second

	// maxRedirects is the number of redirects followed before giving up.
	maxRedirects = 5
)

// Paths used on the Stork API.
const (
	PathPluginStatus  = "/public/plugin/status"
	PathContentStatus = "/public/content/status"
)

// Payload is the JSON body sent with a request. An empty Payload is valid;
// a nil one is a configuration error.
type Payload map[string]any

// Request describes one outbound call: HTTP method, endpoint path below the
// base URL, and the payload to send.
type Request struct {
	Method   string
	Endpoint string
	Payload  Payload
}

// Result is the transport outcome of a fired request. The client performs no
// status interpretation; callers decide what a non-200 means (most ignore it).
type Result struct {
	StatusCode int
	Body       []byte
}

// Client is an HTTP client for the Stork API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing with a mock server).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new Stork API client.
//
// The transport deliberately disables connection reuse: server operators
// relying on this integration expect every call to open and close its own
// connection rather than hold pooled connections to the tenant host.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stork: stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fire issues one blocking call and returns the transport result.
//
// An empty method, empty endpoint or nil payload fails fast with a
// configuration error before any network attempt. The default fields
// code=0 and message="" are injected into the payload when absent.
// The client never retries.
func (c *Client) Fire(ctx context.Context, token string, req *Request) (*Result, error) {
	if req.Method == "" {
		return nil, ErrMissingMethod
	}
	if req.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if req.Payload == nil {
		return nil, ErrMissingPayload
	}

	// Set default payload fields
	if _, ok := req.Payload["code"]; !ok {
		req.Payload["code"] = 0
	}
	if _, ok := req.Payload["message"]; !ok {
		req.Payload["message"] = ""
	}

	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("stork: failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stork: failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Close = true

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stork: request failed: %w", err)
	}
	defer func() {
		//nolint:errcheck
		resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stork: failed to read response: %w", err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
