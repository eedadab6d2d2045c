// Package http builds request URLs by chaining path segments on a client and
// sends them with a terminal verb call.
//
// Basic Usage:
//
//	client := http.NewClient("https://httpbin.org")
//
//	resp, err := client.Path("anything", "api", "users").Index(23).Segment("address").
//	    Get(ctx, map[string]string{"q": "12"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Status, resp.Data)
//
// Every call returns an ApiResponse. Its Data field is the decoded JSON value
// when the server answered with a JSON content type and the raw text body
// otherwise.
//
// Verbs and Segments:
//
// Access resolves names the way a dynamic attribute lookup would. GET,
// DELETE, POST, PUT and PATCH (any case) resolve to the verb; other names
// become segments. A segment literally named after a verb is written with the
// "_" marker, which is trimmed when the URL is rendered:
//
//	client.Access("get")        // the GET verb on the base URL
//	client.Access(http.Escape("get")) // the segment "get"
//
// Bodies:
//
// Post, Put and Patch encode their body as JSON. Passing a body to Get or
// Delete through Request fails with *BodyNotAllowedError before any network
// call.
//
// Sessions:
//
// Inside WithSession every new chain shares one connection context, which is
// closed exactly once when the scope ends:
//
//	err := client.WithSession(func(c *http.Client) error {
//	    _, err := c.Path("users").Get(ctx, nil)
//	    return err
//	})
//
// Client Groups:
//
//	group := http.NewClientGroup(
//	    http.Entry("users", "https://users.example.com", http.Header("X-Token", "t")),
//	)
//	users, err := group.Get("users")
//
// Thread Safety:
//
// A PathBuilder belongs to one chain and one goroutine. Independent chains may
// run concurrently; session scopes must not be opened or closed while they do.
package http
