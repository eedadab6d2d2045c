package http

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport is the boundary to the underlying HTTP stack. Requests go either
// straight through Do or through a session opened with OpenSession.
type Transport interface {
	Doer
	OpenSession() (SessionTransport, error)
}

// SessionTransport is a reusable connection context. Close releases it.
type SessionTransport interface {
	Doer
	Close() error
}

// StdTransport adapts an *http.Client to Transport.
type StdTransport struct {
	client *http.Client
}

// NewStdTransport wraps client. A nil client gets a 30 second timeout and the
// default round tripper.
func NewStdTransport(client *http.Client) *StdTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &StdTransport{client: client}
}

// Do issues a one-off request.
func (t *StdTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

// OpenSession returns a session with its own connection pool and cookie jar.
// Settings of the wrapped client (timeout, TLS, redirect policy) carry over.
func (t *StdTransport) OpenSession() (SessionTransport, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &stdSession{client: &http.Client{
		Transport:     cloneRoundTripper(t.client.Transport),
		CheckRedirect: t.client.CheckRedirect,
		Jar:           jar,
		Timeout:       t.client.Timeout,
	}}, nil
}

type stdSession struct {
	client *http.Client
}

func (s *stdSession) Do(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

func (s *stdSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// cloneRoundTripper gives a session a private connection pool where the
// round tripper type allows it. Unknown implementations are shared as-is.
func cloneRoundTripper(rt http.RoundTripper) http.RoundTripper {
	switch base := rt.(type) {
	case nil:
		return http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		return base.Clone()
	default:
		return rt
	}
}

// sensitiveParams are matched case-insensitively as substrings of query keys.
var sensitiveParams = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"secret",
	"credential",
}

func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	for param := range q {
		lower := strings.ToLower(param)
		for _, sensitive := range sensitiveParams {
			if strings.Contains(lower, sensitive) {
				q.Set(param, "[REDACTED]")
				break
			}
		}
	}
	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}
