package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/mgun/pkg/jsonpath"
	"github.com/wesleyorama2/mgun/pkg/jsonschema"
)

const jsonMediaType = "application/json"

// TimingInfo stores detailed timing information for an HTTP request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is measured from the end of the last connection phase
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// ApiResponse is the normalized result of a terminal verb call.
//
// Data holds the decoded JSON value when the response declared a JSON content
// type, and the raw text body otherwise.
type ApiResponse struct {
	Status  int
	Data    any
	Headers http.Header
	Timing  TimingInfo

	raw []byte
}

// NormalizeResponse builds an ApiResponse from a status, headers and the
// fully read body. JSON decoding errors are returned unchanged.
func NormalizeResponse(status int, headers http.Header, body []byte) (ApiResponse, error) {
	resp := ApiResponse{Status: status, Headers: headers, raw: body}

	if !isJSONContentType(headers.Get("Content-Type")) {
		resp.Data = string(body)
		return resp, nil
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return ApiResponse{}, err
	}
	resp.Data = data
	return resp, nil
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(contentType)), jsonMediaType)
}

// IsJSON reports whether Data holds a decoded JSON value.
func (r ApiResponse) IsJSON() bool {
	return isJSONContentType(r.Headers.Get("Content-Type"))
}

// Text returns the body exactly as received.
func (r ApiResponse) Text() string {
	return string(r.raw)
}

// Bytes returns a copy of the body exactly as received.
func (r ApiResponse) Bytes() []byte {
	return append([]byte(nil), r.raw...)
}

// Decode unmarshals the raw body into v.
func (r ApiResponse) Decode(v any) error {
	return json.Unmarshal(r.raw, v)
}

// Lookup evaluates a JSONPath expression ($.args.q) against a JSON body.
func (r ApiResponse) Lookup(path string) (gjson.Result, error) {
	return jsonpath.Lookup(r.raw, path)
}

// Validate checks Data against a JSON Schema document.
func (r ApiResponse) Validate(schema *jsonschema.Schema) jsonschema.ValidationErrors {
	return schema.Validate(r.Data)
}

// Header returns the first value of the named response header.
func (r ApiResponse) Header(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the status code is in the 2xx range.
func (r ApiResponse) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsRedirect returns true if the status code is in the 3xx range.
func (r ApiResponse) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

// IsError returns true for 4xx and 5xx status codes.
func (r ApiResponse) IsError() bool {
	return r.Status >= 400 && r.Status < 600
}
