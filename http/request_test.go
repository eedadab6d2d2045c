package http

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSpec_Build(t *testing.T) {
	tests := []struct {
		name            string
		spec            RequestSpec
		expectedURL     string
		expectedBody    string
		expectedHeaders map[string]string
	}{
		{
			name:        "Simple GET request",
			spec:        RequestSpec{Method: MethodGet, URL: "https://api.example.com/users"},
			expectedURL: "https://api.example.com/users",
		},
		{
			name: "Query parameters are encoded",
			spec: RequestSpec{
				Method: MethodGet,
				URL:    "https://api.example.com/users",
				Params: map[string]string{"page": "1", "q": "a b&c"},
			},
			expectedURL: "https://api.example.com/users?page=1&q=a+b%26c",
		},
		{
			name: "Existing query is kept",
			spec: RequestSpec{
				Method: MethodDelete,
				URL:    "https://api.example.com/users?force=true",
				Params: map[string]string{"id": "7"},
			},
			expectedURL: "https://api.example.com/users?force=true&id=7",
		},
		{
			name: "POST body is JSON encoded",
			spec: RequestSpec{
				Method: MethodPost,
				URL:    "https://api.example.com/users",
				Body:   map[string]any{"data": []int{1, 2, 3}},
			},
			expectedURL:     "https://api.example.com/users",
			expectedBody:    `{"data":[1,2,3]}`,
			expectedHeaders: map[string]string{"Content-Type": "application/json"},
		},
		{
			name: "String body is JSON encoded too",
			spec: RequestSpec{
				Method: MethodPut,
				URL:    "https://api.example.com/users/1",
				Body:   "hello",
			},
			expectedURL:     "https://api.example.com/users/1",
			expectedBody:    `"hello"`,
			expectedHeaders: map[string]string{"Content-Type": "application/json"},
		},
		{
			name: "Empty object is still sent",
			spec: RequestSpec{
				Method: MethodPost,
				URL:    "https://api.example.com/users",
				Body:   map[string]any{},
			},
			expectedURL:     "https://api.example.com/users",
			expectedBody:    `{}`,
			expectedHeaders: map[string]string{"Content-Type": "application/json"},
		},
		{
			name: "Empty list is sent",
			spec: RequestSpec{
				Method: MethodPatch,
				URL:    "https://api.example.com/users",
				Body:   []any{},
			},
			expectedURL:     "https://api.example.com/users",
			expectedBody:    `[]`,
			expectedHeaders: map[string]string{"Content-Type": "application/json"},
		},
		{
			name: "Empty string body",
			spec: RequestSpec{
				Method: MethodPut,
				URL:    "https://api.example.com/users/1",
				Body:   "",
			},
			expectedURL:     "https://api.example.com/users/1",
			expectedBody:    `""`,
			expectedHeaders: map[string]string{"Content-Type": "application/json"},
		},
		{
			name: "Empty body on DELETE is dropped",
			spec: RequestSpec{
				Method: MethodDelete,
				URL:    "https://api.example.com/users/1",
				Body:   map[string]any{},
			},
			expectedURL: "https://api.example.com/users/1",
		},
		{
			name: "Caller content type is kept",
			spec: RequestSpec{
				Method:  MethodPatch,
				URL:     "https://api.example.com/users/1",
				Body:    map[string]string{"name": "John"},
				Headers: map[string]string{"Content-Type": "application/merge-patch+json", "X-Test": "1"},
			},
			expectedURL:     "https://api.example.com/users/1",
			expectedBody:    `{"name":"John"}`,
			expectedHeaders: map[string]string{"Content-Type": "application/merge-patch+json", "X-Test": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.spec.Build(context.Background())
			require.NoError(t, err)

			assert.Equal(t, string(tt.spec.Method), req.Method)
			assert.Equal(t, tt.expectedURL, req.URL.String())

			for key, value := range tt.expectedHeaders {
				assert.Equal(t, value, req.Header.Get(key), "header %s", key)
			}

			if tt.expectedBody == "" {
				assert.Nil(t, req.Body)
				return
			}
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expectedBody, string(body))
		})
	}
}

func TestRequestSpec_BuildErrors(t *testing.T) {
	_, err := RequestSpec{Method: MethodGet, URL: "://bad"}.Build(context.Background())
	assert.Error(t, err)

	_, err = RequestSpec{Method: MethodPost, URL: "https://x.test", Body: map[string]any{"ch": make(chan int)}}.Build(context.Background())
	assert.Error(t, err)
}

func TestRequestSpec_Validate(t *testing.T) {
	assert.NoError(t, RequestSpec{Method: MethodGet}.Validate())
	assert.NoError(t, RequestSpec{Method: MethodPost, Body: map[string]int{"x": 1}}.Validate())
	assert.NoError(t, RequestSpec{Method: MethodDelete, Body: ""}.Validate())

	assert.IsType(t, &UnsupportedMethodError{}, RequestSpec{Method: "OPTIONS"}.Validate())
	assert.IsType(t, &BodyNotAllowedError{}, RequestSpec{Method: MethodGet, Body: 0}.Validate())
	assert.IsType(t, &BodyNotAllowedError{}, RequestSpec{Method: MethodDelete, Body: []int{1}}.Validate())
}

func TestIsEmptyBody(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *struct{}

	assert.True(t, isEmptyBody(nil))
	assert.True(t, isEmptyBody(""))
	assert.True(t, isEmptyBody([]any{}))
	assert.True(t, isEmptyBody(map[string]any{}))
	assert.True(t, isEmptyBody(nilMap))
	assert.True(t, isEmptyBody(nilPtr))

	assert.False(t, isEmptyBody("x"))
	assert.False(t, isEmptyBody(0))
	assert.False(t, isEmptyBody(false))
	assert.False(t, isEmptyBody(struct{}{}))
	assert.False(t, isEmptyBody(map[string]any{"a": nil}))
}

func TestMergeHeaders(t *testing.T) {
	call := map[string]string{"a": "2", "B": "3"}
	defaults := map[string]string{"A": "1"}

	merged := mergeHeaders(call, defaults)

	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged)
	assert.Equal(t, map[string]string{"a": "2", "B": "3"}, call, "inputs are not modified")
	assert.Empty(t, mergeHeaders(nil, nil))
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"get", "GET", " Post ", "put", "patch", "delete"} {
		m, ok := ParseMethod(name)
		assert.True(t, ok, name)
		assert.True(t, m.Valid())
	}

	_, ok := ParseMethod("head")
	assert.False(t, ok)

	assert.False(t, MethodGet.AllowsBody())
	assert.False(t, MethodDelete.AllowsBody())
	assert.True(t, MethodPost.AllowsBody())
	assert.True(t, MethodPut.AllowsBody())
	assert.True(t, MethodPatch.AllowsBody())
}
