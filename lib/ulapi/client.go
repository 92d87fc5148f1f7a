// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urbanlogiq/london-travel-time/lib/netutil"
)

const (
	// DefaultBaseURL is the root of the versioned UrbanLogiq API.
	DefaultBaseURL = "https://api.urbanlogiq.ca/v1/api/ulv2"

	// DefaultTokenURL is the Azure AD B2C token endpoint for the
	// UrbanLogiq tenant.
	DefaultTokenURL = "https://urbanlogiqcanada.b2clogin.com/urbanlogiqcanada.onmicrosoft.com/oauth2/v2.0/token"

	// DefaultPolicy is the B2C user flow that permits the password grant.
	DefaultPolicy = "B2C_1_ropc"

	// DefaultRequestTimeout bounds each message exchange (token, submit,
	// status) and the wait for a download's response headers.
	DefaultRequestTimeout = 60 * time.Second
)

// contentTypeBinary is sent on every API request. The evaluator expects
// it even on GETs.
const contentTypeBinary = "application/octet-stream"

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL. Must use
	// HTTPS unless AllowInsecure is set.
	BaseURL string

	// TokenURL is the OAuth2 token endpoint. Defaults to
	// DefaultTokenURL. Must use HTTPS unless AllowInsecure is set.
	TokenURL string

	// Policy is the B2C policy ("p" query parameter) of the token
	// request. Defaults to DefaultPolicy.
	Policy string

	// Authority is sent as the "authority" header on API requests.
	// Defaults to the host of BaseURL.
	Authority string

	// HTTPClient is used for all requests. The caller owns its
	// lifetime. Defaults to NewHTTPClient(RequestTimeout). It should
	// not set http.Client.Timeout: that bound covers reading the body
	// and would cut off long downloads.
	HTTPClient *http.Client

	// RequestTimeout bounds each message exchange from sending the
	// request to reading the whole response. Download bodies are not
	// bounded. Defaults to DefaultRequestTimeout; negative disables it.
	RequestTimeout time.Duration

	// AcceptZstd advertises zstd response compression. Compressed
	// responses are decoded transparently either way.
	AcceptZstd bool

	// AllowInsecure permits http:// endpoints. For local fakes only.
	AllowInsecure bool

	// UserAgent is sent on every request when set.
	UserAgent string

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is an UrbanLogiq API client. It holds no token; callers obtain
// one with Token and pass it to each call.
type Client struct {
	baseURL    string
	tokenURL   string
	policy     string
	authority  string
	httpClient *http.Client
	timeout    time.Duration
	acceptZstd bool
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a client from config. Returns an error if an
// endpoint URL is malformed or not HTTPS.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	parsedBase, err := checkEndpoint("base URL", baseURL, config.AllowInsecure)
	if err != nil {
		return nil, err
	}
	if _, err := checkEndpoint("token URL", tokenURL, config.AllowInsecure); err != nil {
		return nil, err
	}

	policy := config.Policy
	if policy == "" {
		policy = DefaultPolicy
	}

	authority := config.Authority
	if authority == "" {
		authority = parsedBase.Host
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(timeout)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		tokenURL:   tokenURL,
		policy:     policy,
		authority:  authority,
		httpClient: httpClient,
		timeout:    timeout,
		acceptZstd: config.AcceptZstd,
		userAgent:  config.UserAgent,
		logger:     logger,
	}, nil
}

func checkEndpoint(name, raw string, allowInsecure bool) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ulapi: parsing %s: %w", name, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("ulapi: %s %q has no host", name, raw)
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !allowInsecure {
			return nil, fmt.Errorf("ulapi: %s requires HTTPS (got %q)", name, raw)
		}
	default:
		return nil, fmt.Errorf("ulapi: %s has unsupported scheme %q", name, parsed.Scheme)
	}
	return parsed, nil
}

// NewHTTPClient returns an HTTP client whose transport gives up when
// response headers take longer than headerTimeout (no limit if it is
// not positive). It sets no overall timeout, so a body that keeps
// arriving is read to the end.
func NewHTTPClient(headerTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if headerTimeout > 0 {
		transport.ResponseHeaderTimeout = headerTimeout
	}
	return &http.Client{Transport: transport}
}

// apiHeaders returns the headers sent on every API request.
func (client *Client) apiHeaders(token string) http.Header {
	headers := http.Header{}
	headers.Set("authority", client.authority)
	headers.Set("Authorization", "Bearer "+token)
	headers.Set("Content-Type", contentTypeBinary)
	return headers
}

// request sends one HTTP request and validates the response status.
// The caller must close the returned response body. A status outside
// [200, 400) is returned as a *RequestError with the body already
// consumed and closed.
func (client *Client) request(ctx context.Context, method, rawURL string, headers http.Header, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("ulapi: creating request: %w", err)
	}
	for name, values := range headers {
		request.Header[name] = values
	}
	if client.acceptZstd {
		request.Header.Set("Accept-Encoding", "zstd")
	}
	if client.userAgent != "" {
		request.Header.Set("User-Agent", client.userAgent)
	}

	redacted := redactURL(request.URL)
	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("ulapi: %s %s: %w", method, redacted, stripURLError(err))
	}

	client.logger.Debug("api request",
		"method", method,
		"url", redacted,
		"status", response.StatusCode,
		"duration", time.Since(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 400 {
		defer response.Body.Close()
		var snippet io.Reader = response.Body
		if decoded, err := netutil.DecodedBody(response); err == nil {
			defer decoded.Close()
			snippet = decoded
		}
		return nil, &RequestError{
			Method:     method,
			URL:        redacted,
			StatusCode: response.StatusCode,
			Reason:     reasonPhrase(response),
			Body:       netutil.ErrorSnippet(snippet),
		}
	}

	return response, nil
}

// do sends a request and returns the whole (decoded) response body.
// The exchange is bounded by the client's request timeout.
func (client *Client) do(ctx context.Context, method, rawURL string, headers http.Header, body []byte) ([]byte, error) {
	var data []byte
	err := client.exchange(ctx, method, rawURL, headers, body, func(decoded io.Reader) error {
		var err error
		data, err = netutil.ReadResponse(decoded)
		return err
	})
	return data, err
}

// exchange sends a request and passes the decoded response body to
// read, all within the client's request timeout.
func (client *Client) exchange(ctx context.Context, method, rawURL string, headers http.Header, body []byte, read func(io.Reader) error) error {
	if client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.timeout)
		defer cancel()
	}

	response, err := client.request(ctx, method, rawURL, headers, body)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	decoded, err := netutil.DecodedBody(response)
	if err != nil {
		return fmt.Errorf("ulapi: %s %s: %w", method, redactURL(response.Request.URL), err)
	}
	defer decoded.Close()

	if err := read(decoded); err != nil {
		return fmt.Errorf("ulapi: reading %s %s response: %w", method, redactURL(response.Request.URL), stripURLError(err))
	}
	return nil
}

// endpoint joins path elements onto the base URL. Elements are escaped.
func (client *Client) endpoint(elements ...string) string {
	escaped := make([]string, len(elements))
	for i, element := range elements {
		escaped[i] = url.PathEscape(element)
	}
	return client.baseURL + "/" + strings.Join(escaped, "/")
}

// redactURL renders u without its query string.
func redactURL(u *url.URL) string {
	redacted := *u
	redacted.RawQuery = ""
	redacted.ForceQuery = false
	redacted.User = nil
	return redacted.String()
}

// stripURLError unwraps *url.Error, whose message repeats the full URL
// including the query string.
func stripURLError(err error) error {
	if urlError, ok := err.(*url.Error); ok {
		return urlError.Err
	}
	return err
}

// reasonPhrase returns the reason phrase of response, falling back to
// the standard text for its status code.
func reasonPhrase(response *http.Response) string {
	code := fmt.Sprintf("%d", response.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(response.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(response.StatusCode)
}
