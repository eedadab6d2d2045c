package http

import "strings"

// Method is one of the HTTP verbs a chain can terminate with.
type Method string

const (
	MethodGet    Method = "GET"
	MethodDelete Method = "DELETE"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
)

// Methods lists every supported verb, GET-class first.
var Methods = []Method{MethodGet, MethodDelete, MethodPost, MethodPut, MethodPatch}

// ParseMethod resolves a verb name case-insensitively.
// The second return value is false when name is not a supported verb.
func ParseMethod(name string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(name)))
	if m.Valid() {
		return m, true
	}
	return "", false
}

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodDelete, MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// AllowsBody reports whether m belongs to the body-bearing class (POST, PUT, PATCH).
func (m Method) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

func (m Method) String() string {
	return string(m)
}
