package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

var unresolvedVariable = regexp.MustCompile(`\{\{\s*([^}]*?)\s*\}\}`)

// ValidateConfig validates a resolved configuration and returns every problem
// found, ordered by client name. An empty slice indicates the configuration is
// valid.
//
// Example:
//
//	errors := config.ValidateConfig(config.Resolve(cfg, os.Environ()))
//	for _, err := range errors {
//	    log.Printf("Validation error: %s", err)
//	}
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if len(config.Clients) == 0 {
		return append(errors, ValidationError{
			Path:    "clients",
			Message: "at least one client is required",
		})
	}

	names := make([]string, 0, len(config.Clients))
	for name := range config.Clients {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		client := config.Clients[name]
		prefix := "clients." + name

		if name == "" {
			errors = append(errors, ValidationError{Path: "clients", Message: "client name cannot be empty"})
		}

		errors = append(errors, validateBaseURL(prefix+".baseUrl", client.BaseURL)...)

		for key, value := range client.Headers {
			if key == "" {
				errors = append(errors, ValidationError{
					Path:    prefix + ".headers",
					Message: "header name cannot be empty",
				})
			}
			if m := unresolvedVariable.FindStringSubmatch(value); m != nil {
				errors = append(errors, ValidationError{
					Path:    fmt.Sprintf("%s.headers.%s", prefix, key),
					Message: fmt.Sprintf("undefined variable: %s", m[1]),
				})
			}
		}

		if client.Timeout != "" {
			d, err := ParseDurationString(client.Timeout)
			switch {
			case err != nil:
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: fmt.Sprintf("invalid duration '%s'", client.Timeout),
				})
			case d <= 0:
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: "timeout must be positive",
				})
			}
		}
	}

	return errors
}

func validateBaseURL(path, raw string) []ValidationError {
	if raw == "" {
		return []ValidationError{{Path: path, Message: "baseUrl is required"}}
	}
	if m := unresolvedVariable.FindStringSubmatch(raw); m != nil {
		return []ValidationError{{Path: path, Message: fmt.Sprintf("undefined variable: %s", m[1])}}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return []ValidationError{{Path: path, Message: fmt.Sprintf("invalid URL: %v", err)}}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []ValidationError{{Path: path, Message: fmt.Sprintf("unsupported scheme '%s'", u.Scheme)}}
	}
	if u.Host == "" {
		return []ValidationError{{Path: path, Message: "host is required"}}
	}
	return nil
}
