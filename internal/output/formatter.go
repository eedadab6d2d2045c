package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wesleyorama2/mgun/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	Colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		Colors:  NewColorScheme(noColor),
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req RequestData) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.Colors.Method.Sprint(req.Method),
		f.Colors.URL.Sprint(req.URL)))

	if len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n",
				f.Colors.HeaderKey.Sprint(key),
				f.Colors.HeaderValue.Sprint(req.Headers[key])))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		buf.WriteString(formatBody(req.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp http.ApiResponse) string {
	var buf strings.Builder

	data := NewResponseData(resp, f.Verbose)
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.Colors.Status(resp.Status).Sprint(data.Status),
		resp.Timing.TotalTime.Milliseconds()))

	if f.Verbose {
		t := data.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:      %dms\n", t.DNSLookup))
		buf.WriteString(fmt.Sprintf("    TCP Connection:  %dms\n", t.TCPConnection))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:   %dms\n", t.TLSHandshake))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", t.TimeToFirstByte))
		buf.WriteString(fmt.Sprintf("    Content Transfer:  %dms\n", t.ContentTransfer))
		buf.WriteString(fmt.Sprintf("    Total:           %dms\n", t.Total))

		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(data.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n",
				f.Colors.HeaderKey.Sprint(key),
				f.Colors.HeaderValue.Sprint(data.Headers[key])))
		}
	}

	if body := responseBody(resp); body != "" {
		buf.WriteString("  Body:\n  ")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResult formats the request and response of a call followed by
// whatever checks ran against it.
func (f *Formatter) FormatResult(result Result) string {
	var buf strings.Builder

	if f.Verbose {
		buf.WriteString(f.FormatRequest(result.Request))
	}
	buf.WriteString(f.FormatResponse(result.Response))

	if len(result.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, name := range sortedKeys(result.Extracted) {
			buf.WriteString(fmt.Sprintf("    %s = %s\n",
				f.Colors.Highlight.Sprint(name),
				formatValue(result.Extracted[name])))
		}
	}

	if result.SchemaValid != nil {
		if *result.SchemaValid {
			buf.WriteString(fmt.Sprintf("  %s Schema validation passed\n", SuccessIcon(f.NoColor)))
		} else {
			buf.WriteString(fmt.Sprintf("  %s Schema validation failed\n", ErrorIcon(f.NoColor)))
			for _, msg := range result.SchemaErrors {
				buf.WriteString(fmt.Sprintf("    - %s\n", f.Colors.Error.Sprint(msg)))
			}
		}
	}

	if result.Filtered != nil {
		buf.WriteString(fmt.Sprintf("  Filtered (%s):\n  %s\n",
			f.Colors.Highlight.Sprint(result.Filtered.Expression),
			formatBody(result.Filtered.Value)))
	}

	for _, a := range result.Assertions {
		switch {
		case a.Error != "":
			buf.WriteString(fmt.Sprintf("  %s %s: %s\n", ErrorIcon(f.NoColor), a.Expression, f.Colors.Error.Sprint(a.Error)))
		case a.Passed:
			buf.WriteString(fmt.Sprintf("  %s %s\n", SuccessIcon(f.NoColor), a.Expression))
		default:
			buf.WriteString(fmt.Sprintf("  %s %s\n", ErrorIcon(f.NoColor), f.Colors.Error.Sprint(a.Expression)))
		}
	}

	if s := result.Session; s != nil {
		buf.WriteString(fmt.Sprintf("  Session: %d requests, %d failed, p50 %.1fms, p95 %.1fms, p99 %.1fms, max %.1fms\n",
			s.Requests, s.Failures, s.P50, s.P95, s.P99, s.Max))
	}

	return buf.String()
}

func responseBody(resp http.ApiResponse) string {
	if resp.IsJSON() {
		return formatJSONString(resp.Text())
	}
	return resp.Text()
}

func formatBody(body any) string {
	switch b := body.(type) {
	case string:
		return formatJSONString(b)
	case []byte:
		return formatJSONString(string(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Sprintf("%v", b)
		}
		return formatJSONString(string(raw))
	}
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
