package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
)

// RequestSpec is everything the Dispatcher needs for one call.
type RequestSpec struct {
	Method Method
	URL    string

	// Body is JSON-encoded. Only POST, PUT and PATCH may carry one.
	Body any

	// Params are added to the URL query string.
	Params map[string]string

	Headers map[string]string
}

// Validate checks the verb and verb/body compatibility.
func (s RequestSpec) Validate() error {
	if !s.Method.Valid() {
		return &UnsupportedMethodError{Method: string(s.Method)}
	}
	if !s.Method.AllowsBody() && !isEmptyBody(s.Body) {
		return &BodyNotAllowedError{Method: s.Method}
	}
	return nil
}

// Build constructs the *http.Request. Query params are merged with any query
// already present in URL.
func (s RequestSpec) Build(ctx context.Context) (*http.Request, error) {
	reqURL, err := url.Parse(s.URL)
	if err != nil {
		return nil, err
	}

	if len(s.Params) > 0 {
		query := reqURL.Query()
		for key, value := range s.Params {
			query.Add(key, value)
		}
		reqURL.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if s.Body != nil && s.Method.AllowsBody() {
		jsonBody, err := json.Marshal(s.Body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, string(s.Method), reqURL.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range s.Headers {
		req.Header.Set(key, value)
	}
	if bodyReader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// isEmptyBody treats nil and zero-length strings, slices and maps as no body.
// Scalars such as 0 and false count as a body. It only decides whether GET
// and DELETE reject a body; POST, PUT and PATCH send whatever they are given.
func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// mergeHeaders applies overrides on top of base. Keys are canonicalized so
// "x-token" and "X-Token" collide. Neither input is modified.
func mergeHeaders(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		merged[http.CanonicalHeaderKey(key)] = value
	}
	for key, value := range overrides {
		merged[http.CanonicalHeaderKey(key)] = value
	}
	return merged
}
