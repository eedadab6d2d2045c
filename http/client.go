package http

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrSessionActive is returned by OpenSession while a session is already open.
var ErrSessionActive = errors.New("session already active")

// Client is the root of every request chain. It holds the base URL, default
// headers and, inside a session scope, the active session.
//
// A Client is not synchronized. Chains may run concurrently from different
// goroutines, but opening and closing sessions must not race with them.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	transport  Transport
	dispatcher *Dispatcher
	logger     zerolog.Logger
	session    *Session
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a client rooted at baseURL.
//
// Example:
//
//	client := http.NewClient("https://httpbin.org",
//	    http.WithHeader("Authorization", "Bearer token"),
//	    http.WithTimeout(10*time.Second),
//	)
//	resp, err := client.Path("anything", "users", 23).Get(ctx, map[string]string{"q": "12"})
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: baseURL,
		headers: make(map[string]string),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		client.transport = NewStdTransport(client.httpClient)
	}
	client.dispatcher = NewDispatcher(client.transport)
	client.dispatcher.Logger = client.logger

	return client
}

// WithHeader adds a default header. Default headers override headers passed
// to PathBuilder.Request on conflict.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[http.CanonicalHeaderKey(key)] = value
	}
}

// WithHeaders adds several default headers.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[http.CanonicalHeaderKey(key)] = value
		}
	}
}

// WithTimeout sets the timeout of the default transport. The default is 30 seconds.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient uses a copy of httpClient behind the default transport.
// Later options such as WithTimeout change the copy, never the caller's
// client. A nil httpClient is ignored.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient == nil {
			return
		}
		cp := *httpClient
		c.httpClient = &cp
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithTransport injects the transport used for every call. Options that
// configure the default *http.Client have no effect once it is set.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithLogger sets the logger used for request and session logging.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// String returns the base URL.
func (c *Client) String() string {
	return c.baseURL
}

// Headers returns a copy of the default headers.
func (c *Client) Headers() map[string]string {
	return mergeHeaders(nil, c.headers)
}

// Path starts a new chain seeded with segments.
func (c *Client) Path(segments ...any) *PathBuilder {
	b := &PathBuilder{
		baseURL:    c.baseURL,
		headers:    c.headers,
		session:    c.session,
		dispatcher: c.dispatcher,
	}
	return b.Segment(segments...)
}

// Access resolves a dynamic name at the root. A verb name (any case) yields
// that verb bound to a fresh chain at the base URL; any other name starts a
// fresh chain with it as first segment. Use Escape to reach a path literally
// named after a verb.
func (c *Client) Access(name any) Access {
	if m, ok := verbName(name); ok {
		return Access{Builder: c.Path(), Method: m}
	}
	return Access{Builder: c.Path(name)}
}

// Get sends a GET request to the base URL.
func (c *Client) Get(ctx context.Context, params map[string]string) (ApiResponse, error) {
	return c.Path().Get(ctx, params)
}

// Delete sends a DELETE request to the base URL.
func (c *Client) Delete(ctx context.Context, params map[string]string) (ApiResponse, error) {
	return c.Path().Delete(ctx, params)
}

// Post sends a POST request to the base URL.
func (c *Client) Post(ctx context.Context, body any) (ApiResponse, error) {
	return c.Path().Post(ctx, body)
}

// Put sends a PUT request to the base URL.
func (c *Client) Put(ctx context.Context, body any) (ApiResponse, error) {
	return c.Path().Put(ctx, body)
}

// Patch sends a PATCH request to the base URL.
func (c *Client) Patch(ctx context.Context, body any) (ApiResponse, error) {
	return c.Path().Patch(ctx, body)
}

// Session returns the active session, or nil outside a session scope.
func (c *Client) Session() *Session {
	return c.session
}

// OpenSession opens a connection context and makes it the active session.
// Chains started afterwards are bound to it until CloseSession.
func (c *Client) OpenSession() (*Session, error) {
	if c.session != nil {
		return nil, ErrSessionActive
	}
	conn, err := c.transport.OpenSession()
	if err != nil {
		return nil, err
	}
	c.session = newSession(conn, c.logger.With().Str("base_url", c.baseURL).Logger())
	return c.session, nil
}

// CloseSession closes the active session and clears it. It does nothing when
// no session is active.
func (c *Client) CloseSession() error {
	s := c.session
	if s == nil {
		return nil
	}
	c.session = nil
	return s.Close()
}

// WithSession runs fn inside a session scope. The session is closed when fn
// returns, fails or panics. fn's error takes precedence over the close error.
// When a session is already active fn joins it and the outer scope keeps
// ownership.
func (c *Client) WithSession(fn func(*Client) error) (err error) {
	if c.session != nil {
		return fn(c)
	}
	if _, err := c.OpenSession(); err != nil {
		return err
	}
	defer func() {
		if closeErr := c.CloseSession(); err == nil {
			err = closeErr
		}
	}()
	return fn(c)
}
