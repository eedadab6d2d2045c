package http

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/rs/zerolog"
)

// ErrSessionClosed is returned when a request is sent through a session after
// its scope ended.
var ErrSessionClosed = errors.New("session is closed")

// Latency histogram bounds, in microseconds.
const (
	minLatencyMicros = 1
	maxLatencyMicros = int64(10 * time.Minute / time.Microsecond)
)

// Session binds requests to one reusable connection context. It is created by
// Client.OpenSession or Client.WithSession and closed exactly once.
//
// Concurrent requests through one session are as safe as the underlying
// SessionTransport; the default one is.
type Session struct {
	conn   SessionTransport
	logger zerolog.Logger

	closed   atomic.Bool
	once     sync.Once
	closeErr error

	statsMu  sync.Mutex
	latency  *hdrhistogram.Histogram
	requests int64
	failures int64
}

// SessionStats summarizes the requests sent through a session.
type SessionStats struct {
	Requests int64
	Failures int64
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

func newSession(conn SessionTransport, logger zerolog.Logger) *Session {
	return &Session{
		conn:    conn,
		logger:  logger,
		latency: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, 3),
	}
}

// Do sends req over the session's connection context.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	start := time.Now()
	resp, err := s.conn.Do(req)
	s.record(time.Since(start), err)
	return resp, err
}

// Close releases the connection context. Only the first call reaches the
// transport; later calls return the first call's result.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.conn.Close()

		stats := s.Stats()
		s.logger.Debug().
			Int64("requests", stats.Requests).
			Int64("failures", stats.Failures).
			Dur("p50", stats.P50).
			Dur("p95", stats.P95).
			Dur("p99", stats.P99).
			Err(s.closeErr).
			Msg("session closed")
	})
	return s.closeErr
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Stats returns request counts and latency percentiles recorded so far.
func (s *Session) Stats() SessionStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	micros := func(q float64) time.Duration {
		return time.Duration(s.latency.ValueAtQuantile(q)) * time.Microsecond
	}
	return SessionStats{
		Requests: s.requests,
		Failures: s.failures,
		P50:      micros(50),
		P95:      micros(95),
		P99:      micros(99),
		Max:      time.Duration(s.latency.Max()) * time.Microsecond,
	}
}

func (s *Session) record(d time.Duration, err error) {
	us := d.Microseconds()
	if us < minLatencyMicros {
		us = minLatencyMicros
	}
	if us > maxLatencyMicros {
		us = maxLatencyMicros
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.requests++
	if err != nil {
		s.failures++
	}
	_ = s.latency.RecordValue(us)
}
