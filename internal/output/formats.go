package output

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	mgunhttp "github.com/wesleyorama2/mgun/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req RequestData) string
	FormatResponse(resp mgunhttp.ApiResponse) string
	FormatResult(result Result) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Status     string            `json:"status" yaml:"status"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       any               `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// Result is everything one CLI call produced.
type Result struct {
	Request   RequestData
	Response  mgunhttp.ApiResponse
	Extracted map[string]any

	// SchemaValid is nil when no schema was checked
	SchemaValid  *bool
	SchemaErrors []string

	// Filtered is the --jq output; nil when no filter was given
	Filtered *FilterData

	Assertions []AssertionData

	// Session is set when the call was repeated inside one session
	Session *SessionData
}

// FilterData is the output of a jq filter over the response data.
type FilterData struct {
	Expression string `json:"expression" yaml:"expression"`
	Value      any    `json:"value" yaml:"value"`
}

// AssertionData is the outcome of one --assert expression.
type AssertionData struct {
	Expression string `json:"expression" yaml:"expression"`
	Passed     bool   `json:"passed" yaml:"passed"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// AssertionsPassed reports whether every assertion in the result passed.
func (r Result) AssertionsPassed() bool {
	for _, a := range r.Assertions {
		if !a.Passed {
			return false
		}
	}
	return true
}

// SessionData summarizes the requests sent through one session.
type SessionData struct {
	Requests int64   `json:"requests" yaml:"requests"`
	Failures int64   `json:"failures" yaml:"failures"`
	P50      float64 `json:"p50Ms" yaml:"p50Ms"`
	P95      float64 `json:"p95Ms" yaml:"p95Ms"`
	P99      float64 `json:"p99Ms" yaml:"p99Ms"`
	Max      float64 `json:"maxMs" yaml:"maxMs"`
}

// NewSessionData converts session statistics to milliseconds.
func NewSessionData(stats mgunhttp.SessionStats) *SessionData {
	ms := func(d time.Duration) float64 {
		return float64(d) / float64(time.Millisecond)
	}
	return &SessionData{
		Requests: stats.Requests,
		Failures: stats.Failures,
		P50:      ms(stats.P50),
		P95:      ms(stats.P95),
		P99:      ms(stats.P99),
		Max:      ms(stats.Max),
	}
}

type resultDocument struct {
	Request      RequestData     `json:"request" yaml:"request"`
	Response     ResponseData    `json:"response" yaml:"response"`
	Extracted    map[string]any  `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	SchemaValid  *bool           `json:"schemaValid,omitempty" yaml:"schemaValid,omitempty"`
	SchemaErrors []string        `json:"schemaErrors,omitempty" yaml:"schemaErrors,omitempty"`
	Filtered     *FilterData     `json:"filtered,omitempty" yaml:"filtered,omitempty"`
	Assertions   []AssertionData `json:"assertions,omitempty" yaml:"assertions,omitempty"`
	Session      *SessionData    `json:"session,omitempty" yaml:"session,omitempty"`
}

// NewResponseData flattens an ApiResponse for serialization. Timing is only
// included when verbose is set.
func NewResponseData(resp mgunhttp.ApiResponse, verbose bool) ResponseData {
	data := ResponseData{
		StatusCode: resp.Status,
		Status:     strings.TrimSpace(fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status))),
		Headers:    flattenHeaders(resp.Headers),
		Body:       resp.Data,
	}
	if verbose {
		t := resp.Timing
		data.Timing = &TimingData{
			DNSLookup:       t.DNSLookupTime.Milliseconds(),
			TCPConnection:   t.TCPConnectTime.Milliseconds(),
			TLSHandshake:    t.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: t.TimeToFirstByte.Milliseconds(),
			ContentTransfer: t.ContentTransferTime.Milliseconds(),
			Total:           t.TotalTime.Milliseconds(),
		}
	}
	return data
}

func (r Result) document(verbose bool) resultDocument {
	return resultDocument{
		Request:      r.Request,
		Response:     NewResponseData(r.Response, verbose),
		Extracted:    r.Extracted,
		SchemaValid:  r.SchemaValid,
		SchemaErrors: r.SchemaErrors,
		Filtered:     r.Filtered,
		Assertions:   r.Assertions,
		Session:      r.Session,
	}
}

func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[key] = strings.Join(values, ", ")
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v any) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal output: %s"}`, err)
	}
	return string(output)
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req RequestData) string {
	return f.marshal(req)
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp mgunhttp.ApiResponse) string {
	return f.marshal(NewResponseData(resp, f.Verbose))
}

// FormatResult formats a complete call as one JSON document
func (f *JSONFormatter) FormatResult(result Result) string {
	return f.marshal(result.document(f.Verbose))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v any) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal output: %s\n", err)
	}
	return string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req RequestData) string {
	return f.marshal(req)
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp mgunhttp.ApiResponse) string {
	return f.marshal(NewResponseData(resp, f.Verbose))
}

// FormatResult formats a complete call as one YAML document
func (f *YAMLFormatter) FormatResult(result Result) string {
	return f.marshal(result.document(f.Verbose))
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
