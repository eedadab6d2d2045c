package jq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestRun(t *testing.T) {
	data := decode(t, `{"args":{"q":"12"},"items":[{"id":1},{"id":2}],"empty":[]}`)

	tests := []struct {
		name string
		expr string
		want any
	}{
		{"identity", ".args", map[string]any{"q": "12"}},
		{"field", ".args.q", "12"},
		{"single output from array", ".items | length", 2},
		{"several outputs collected", ".items[].id", []any{float64(1), float64(2)}},
		{"no output", ".empty[]", nil},
		{"missing key", ".nope", nil},
		{"construct", "{q: .args.q}", map[string]any{"q": "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(context.Background(), tt.expr, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)

	_, err = Compile(".items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jq parse error")

	_, err = Compile("undefined_fn(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jq compile error")
}

func TestRunError(t *testing.T) {
	q, err := Compile(".a + 1")
	require.NoError(t, err)
	assert.Equal(t, ".a + 1", q.String())

	_, err = q.Run(context.Background(), map[string]any{"a": "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `jq ".a + 1"`)
}

func TestRunCanceled(t *testing.T) {
	q, err := Compile("range(1e9)")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.WithTimeout(0).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
