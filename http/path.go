package http

import (
	"context"
	"fmt"
	"strings"
)

// SegmentMarker escapes a path segment that would otherwise resolve to a verb.
// It is trimmed from both ends of every segment, so "get_" renders as "get".
const SegmentMarker = "_"

// PathBuilder accumulates path segments below a client's base URL and
// terminates with a verb call.
//
// A PathBuilder is meant for one chain in one goroutine: Segment appends in
// place and returns the same builder.
type PathBuilder struct {
	baseURL    string
	headers    map[string]string
	session    *Session
	dispatcher *Dispatcher
	segments   []string
}

// FormatSegment renders v with fmt.Sprint and trims SegmentMarker from both
// ends. No escaping is applied.
func FormatSegment(v any) string {
	return strings.Trim(fmt.Sprint(v), SegmentMarker)
}

// Escape returns name in a form that Access treats as a path segment even
// when name is a verb.
func Escape(name string) string {
	return name + SegmentMarker
}

// Segment appends one segment per value and returns the builder.
func (b *PathBuilder) Segment(values ...any) *PathBuilder {
	for _, v := range values {
		b.segments = append(b.segments, FormatSegment(v))
	}
	return b
}

// Index appends an integer segment, as in users[23].
func (b *PathBuilder) Index(i int) *PathBuilder {
	return b.Segment(i)
}

// Parts returns a copy of the accumulated segments.
func (b *PathBuilder) Parts() []string {
	return append([]string(nil), b.segments...)
}

// Session returns the session the builder is bound to, or nil.
func (b *PathBuilder) Session() *Session {
	return b.session
}

// String renders the URL. Without segments it is the base URL unchanged.
func (b *PathBuilder) String() string {
	if len(b.segments) == 0 {
		return b.baseURL
	}
	return b.baseURL + "/" + strings.Join(b.segments, "/")
}

// Access resolves a dynamic name on the chain. Verb names resolve to that
// verb bound to this builder; anything else is appended as a segment.
func (b *PathBuilder) Access(name any) Access {
	if m, ok := verbName(name); ok {
		return Access{Builder: b, Method: m}
	}
	return Access{Builder: b.Segment(name)}
}

// Get sends a GET request with optional query parameters.
func (b *PathBuilder) Get(ctx context.Context, params map[string]string) (ApiResponse, error) {
	return b.Request(ctx, MethodGet, nil, params, nil)
}

// Delete sends a DELETE request with optional query parameters.
func (b *PathBuilder) Delete(ctx context.Context, params map[string]string) (ApiResponse, error) {
	return b.Request(ctx, MethodDelete, nil, params, nil)
}

// Post sends a POST request with body encoded as JSON.
func (b *PathBuilder) Post(ctx context.Context, body any) (ApiResponse, error) {
	return b.Request(ctx, MethodPost, body, nil, nil)
}

// Put sends a PUT request with body encoded as JSON.
func (b *PathBuilder) Put(ctx context.Context, body any) (ApiResponse, error) {
	return b.Request(ctx, MethodPut, body, nil, nil)
}

// Patch sends a PATCH request with body encoded as JSON.
func (b *PathBuilder) Patch(ctx context.Context, body any) (ApiResponse, error) {
	return b.Request(ctx, MethodPatch, body, nil, nil)
}

// Request sends one request to the rendered URL.
//
// It fails with *UnsupportedMethodError for verbs other than the five
// supported ones and with *BodyNotAllowedError when GET or DELETE carries a
// body; neither case reaches the network. headers are merged below the
// client's default headers, which win on conflict.
//
// A zero PathBuilder has no client behind it and dispatches through
// NewDispatcher(nil).
func (b *PathBuilder) Request(ctx context.Context, method Method, body any, params, headers map[string]string) (ApiResponse, error) {
	d := b.dispatcher
	if d == nil {
		d = NewDispatcher(nil)
	}
	return d.Dispatch(ctx, b.session, RequestSpec{
		Method:  method,
		URL:     b.String(),
		Body:    body,
		Params:  params,
		Headers: mergeHeaders(headers, b.headers),
	})
}

// Access is the outcome of resolving a dynamic name: either a verb bound to
// a builder or a builder extended by one segment.
type Access struct {
	Builder *PathBuilder

	// Method is empty when the name was a path segment.
	Method Method
}

// IsVerb reports whether the name resolved to a verb.
func (a Access) IsVerb() bool {
	return a.Method != ""
}

// Call invokes the resolved verb. params feed the query string; body is only
// accepted by POST, PUT and PATCH. Calling a segment access fails with
// *UnsupportedMethodError.
func (a Access) Call(ctx context.Context, params map[string]string, body any) (ApiResponse, error) {
	return a.Builder.Request(ctx, a.Method, body, params, nil)
}

// verbName matches a bare verb name case-insensitively. Names carrying the
// segment marker never match.
func verbName(name any) (Method, bool) {
	s, ok := name.(string)
	if !ok {
		return "", false
	}
	m := Method(strings.ToUpper(s))
	return m, m.Valid()
}
