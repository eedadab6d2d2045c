package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// newEchoServer answers every request like httpbin's /anything endpoint.
func newEchoServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)

		args := make(map[string]string)
		for key, values := range r.URL.Query() {
			args[key] = values[0]
		}
		headers := make(map[string]string)
		for key := range r.Header {
			headers[key] = r.Header.Get(key)
		}
		var parsed any
		if len(body) > 0 {
			_ = json.Unmarshal(body, &parsed)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method":  r.Method,
			"url":     "http://" + r.Host + r.URL.RequestURI(),
			"args":    args,
			"headers": headers,
			"data":    string(body),
			"json":    parsed,
		})
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

// fakeTransport records calls and answers through respond.
type fakeTransport struct {
	respond  func(*http.Request) (*http.Response, error)
	calls    int
	requests []*http.Request
	sessions []*fakeSession
	openErr  error
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func (f *fakeTransport) OpenSession() (SessionTransport, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &fakeSession{respond: f.respond}
	f.sessions = append(f.sessions, s)
	return s, nil
}

type fakeSession struct {
	respond  func(*http.Request) (*http.Response, error)
	calls    int
	closes   int
	closeErr error
}

func (s *fakeSession) Do(req *http.Request) (*http.Response, error) {
	s.calls++
	return s.respond(req)
}

func (s *fakeSession) Close() error {
	s.closes++
	return s.closeErr
}

func respondWith(status int, contentType, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		header := make(http.Header)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func respondErr(err error) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return nil, err
	}
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
