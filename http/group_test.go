package http

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGroup(t *testing.T) {
	server, _ := newEchoServer(t)
	group := NewClientGroup(
		Entry("first", server.URL),
		Entry("second", server.URL, Header("my-header", "something")),
	)

	assert.Equal(t, []string{"first", "second"}, group.Names())
	assert.Equal(t, 2, group.Len())

	for _, name := range group.Names() {
		t.Run(name, func(t *testing.T) {
			client, err := group.Get(name)
			require.NoError(t, err)
			assert.Equal(t, server.URL, client.String())
			assert.Equal(t, server.URL+"/api/users/34/first", client.Path("api", "users").Index(34).Segment("first").String())

			resp, err := client.Access(Escape("get")).Builder.Get(context.Background(), map[string]string{"q": "1"})
			require.NoError(t, err)
			assert.Equal(t, 200, resp.Status)

			headers := resp.Data.(map[string]any)["headers"].(map[string]any)
			if name == "second" {
				assert.Equal(t, "something", headers["My-Header"])
			} else {
				assert.NotContains(t, headers, "My-Header")
			}
		})
	}
}

func TestClientGroup_UnknownClient(t *testing.T) {
	group := NewClientGroup(Entry("a", "https://x.test"))

	client, err := group.Get("missing")

	assert.Nil(t, client)
	var unknown *UnknownClientError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.EqualError(t, err, "missing is not in clients")
}

func TestClientGroup_Options(t *testing.T) {
	group := NewClientGroupWithOptions(
		[]ClientOption{WithTimeout(3 * time.Second), WithHeader("X-Shared", "1")},
		Entry("a", "https://a.test"),
		GroupEntry{
			Name:    "b",
			BaseURL: "https://b.test",
			Headers: []HeaderPair{Header("X-Shared", "2")},
			Options: []ClientOption{WithTimeout(time.Second)},
		},
	)

	a, err := group.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, a.httpClient.Timeout)
	assert.Equal(t, "1", a.Headers()["X-Shared"])

	b, err := group.Get("b")
	require.NoError(t, err)
	assert.Equal(t, time.Second, b.httpClient.Timeout)
	assert.Equal(t, "2", b.Headers()["X-Shared"], "entry headers override group options")
}

func TestClientGroup_DuplicateNames(t *testing.T) {
	group := NewClientGroup(Entry("a", "https://old.test"), Entry("a", "https://new.test"))

	client, err := group.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "https://new.test", client.String())
	assert.Equal(t, 1, group.Len())
}
