package http

import "sort"

// HeaderPair is one default header of a group entry.
type HeaderPair struct {
	Key   string
	Value string
}

// Header builds a HeaderPair.
func Header(key, value string) HeaderPair {
	return HeaderPair{Key: key, Value: value}
}

// GroupEntry describes one named client of a ClientGroup.
type GroupEntry struct {
	Name    string
	BaseURL string
	Headers []HeaderPair
	Options []ClientOption
}

// Entry builds a GroupEntry.
func Entry(name, baseURL string, headers ...HeaderPair) GroupEntry {
	return GroupEntry{Name: name, BaseURL: baseURL, Headers: headers}
}

// ClientGroup is a fixed name to Client mapping built once.
type ClientGroup struct {
	clients map[string]*Client
}

// NewClientGroup builds one client per entry. A later entry replaces an
// earlier one with the same name.
//
//	group := http.NewClientGroup(
//	    http.Entry("first", "https://httpbin.org"),
//	    http.Entry("second", "https://httpbin.org", http.Header("my-header", "something")),
//	)
func NewClientGroup(entries ...GroupEntry) *ClientGroup {
	return NewClientGroupWithOptions(nil, entries...)
}

// NewClientGroupWithOptions is NewClientGroup with options applied to every
// client before the entry's own options and headers.
func NewClientGroupWithOptions(options []ClientOption, entries ...GroupEntry) *ClientGroup {
	group := &ClientGroup{clients: make(map[string]*Client, len(entries))}
	for _, entry := range entries {
		opts := make([]ClientOption, 0, len(options)+len(entry.Options)+len(entry.Headers))
		opts = append(opts, options...)
		opts = append(opts, entry.Options...)
		for _, h := range entry.Headers {
			opts = append(opts, WithHeader(h.Key, h.Value))
		}
		group.clients[entry.Name] = NewClient(entry.BaseURL, opts...)
	}
	return group
}

// Get returns the client registered as name, or *UnknownClientError.
func (g *ClientGroup) Get(name string) (*Client, error) {
	client, ok := g.clients[name]
	if !ok {
		return nil, &UnknownClientError{Name: name}
	}
	return client, nil
}

// Names returns the registered names in sorted order.
func (g *ClientGroup) Names() []string {
	names := make([]string, 0, len(g.clients))
	for name := range g.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered clients.
func (g *ClientGroup) Len() int {
	return len(g.clients)
}
