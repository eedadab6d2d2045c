package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
	"url": "https://httpbin.org/anything/api/users/23/address?q=12",
	"args": {"q": "12"},
	"headers": {"My-Header": "something", "X.Dotted": "yes"},
	"json": {"data": [1, 2, 3]},
	"active": true,
	"origin": null
}`

func TestToGjson(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"$", "@this"},
		{"$.", "@this"},
		{"", "@this"},
		{"$.url", "url"},
		{"url", "url"},
		{"$.args.q", "args.q"},
		{"$.json.data[1]", "json.data.1"},
		{"$[0]", "0"},
		{"$['headers']['My-Header']", "headers.My-Header"},
		{`$.headers["X.Dotted"]`, `headers.X\.Dotted`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToGjson(tt.path))
		})
	}
}

func TestLookup(t *testing.T) {
	result, err := Lookup([]byte(document), "$.args.q")
	require.NoError(t, err)
	assert.Equal(t, "12", result.String())

	result, err = Lookup([]byte(document), `$.headers["X.Dotted"]`)
	require.NoError(t, err)
	assert.Equal(t, "yes", result.String())

	result, err = Lookup([]byte(document), "$.origin")
	require.NoError(t, err)
	assert.Nil(t, result.Value())
}

func TestLookup_Errors(t *testing.T) {
	_, err := Lookup(nil, "$.url")
	assert.Error(t, err)

	_, err = Lookup([]byte(document), "")
	assert.Error(t, err)

	_, err = Lookup([]byte(`{ invalid`), "$.url")
	assert.Error(t, err)

	_, err = Lookup([]byte(document), "$.missing")
	assert.EqualError(t, err, "path not found: $.missing")
}

func TestExtract(t *testing.T) {
	data := map[string]any{
		"json": map[string]any{"data": []any{1.0, 2.0, 3.0}},
		"url":  "https://httpbin.org/anything",
	}

	value, err := Extract(data, "$.json.data[2]")
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)

	value, err = Extract(data, "$.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": []any{1.0, 2.0, 3.0}}, value)

	value, err = Extract("plain text", "$")
	require.NoError(t, err)
	assert.Equal(t, "plain text", value)
}

func TestExtractAll(t *testing.T) {
	data := map[string]any{"a": "1", "b": map[string]any{"c": true}}

	values, err := ExtractAll(data, map[string]string{"first": "$.a", "nested": "$.b.c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first": "1", "nested": true}, values)

	values, err = ExtractAll(data, map[string]string{"first": "$.a", "missing": "$.z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing: path not found: $.z")
	assert.Equal(t, map[string]any{"first": "1"}, values)

	_, err = ExtractAll(data, nil)
	assert.Error(t, err)
}
