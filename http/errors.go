package http

import "fmt"

// UnsupportedMethodError is returned when a request names a verb outside
// GET, DELETE, POST, PUT and PATCH.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported http method: %q", e.Method)
}

// BodyNotAllowedError is returned when a body is supplied to GET or DELETE.
// It is raised before any network call is made.
type BodyNotAllowedError struct {
	Method Method
}

func (e *BodyNotAllowedError) Error() string {
	return fmt.Sprintf("request body not allowed for %s", e.Method)
}

// UnknownClientError is returned by ClientGroup.Get for unregistered names.
type UnknownClientError struct {
	Name string
}

func (e *UnknownClientError) Error() string {
	return fmt.Sprintf("%s is not in clients", e.Name)
}
