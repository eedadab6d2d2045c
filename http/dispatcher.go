package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http/httptrace"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher performs a single HTTP call and normalizes the result.
type Dispatcher struct {
	transport Transport

	// Logger receives one debug event per dispatch and a warn event for
	// transport failures and error statuses. Query secrets are redacted.
	Logger zerolog.Logger
}

// NewDispatcher returns a Dispatcher issuing one-off calls through transport.
// A nil transport falls back to NewStdTransport(nil). Logging is off until
// Logger is set.
func NewDispatcher(transport Transport) *Dispatcher {
	if transport == nil {
		transport = NewStdTransport(nil)
	}
	return &Dispatcher{transport: transport, Logger: zerolog.Nop()}
}

// Transport returns the transport used for calls made outside a session.
func (d *Dispatcher) Transport() Transport {
	return d.transport
}

// Dispatch validates spec, sends it through session when non-nil (through the
// default transport otherwise) and normalizes the response.
//
// Errors from the transport and from JSON decoding are returned as-is; no
// retry is attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, session *Session, spec RequestSpec) (ApiResponse, error) {
	if err := spec.Validate(); err != nil {
		return ApiResponse{}, err
	}

	req, err := spec.Build(ctx)
	if err != nil {
		return ApiResponse{}, err
	}

	var doer Doer = d.transport
	if session != nil {
		doer = session
	}

	timing := TimingInfo{StartTime: time.Now()}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), newTimingTrace(&timing)))

	httpResp, err := doer.Do(req)
	if err != nil {
		d.Logger.Warn().
			Str("method", req.Method).
			Str("url", sanitizeURL(req.URL)).
			Dur("duration", time.Since(timing.StartTime)).
			Bool("session", session != nil).
			Err(err).
			Msg("http request failed")
		return ApiResponse{}, err
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ApiResponse{}, err
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	level := zerolog.DebugLevel
	if httpResp.StatusCode >= 400 {
		level = zerolog.WarnLevel
	}
	d.Logger.WithLevel(level).
		Str("method", req.Method).
		Str("url", sanitizeURL(req.URL)).
		Int("status", httpResp.StatusCode).
		Dur("duration", timing.TotalTime).
		Bool("session", session != nil).
		Msg("http request")

	resp, err := NormalizeResponse(httpResp.StatusCode, httpResp.Header, body)
	if err != nil {
		return ApiResponse{}, err
	}
	resp.Timing = timing
	return resp, nil
}

// newTimingTrace records connection phase durations into timing.
func newTimingTrace(timing *TimingInfo) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	// end of the last completed phase; time to first byte is measured from here
	lastPhaseEnd := timing.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			lastPhaseEnd = time.Now()
			timing.DNSLookupTime = lastPhaseEnd.Sub(dnsStart)
			dnsDone = true
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || connectStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				lastPhaseEnd = time.Now()
				timing.TCPConnectTime = lastPhaseEnd.Sub(connectStart)
				connectDone = true
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				lastPhaseEnd = time.Now()
				timing.TLSHandshakeTime = lastPhaseEnd.Sub(tlsHandshakeStart)
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}
