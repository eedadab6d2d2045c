package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/wesleyorama2/mgun/http"
)

// BuildGroup turns a resolved configuration into a client group. options are
// applied to every client before its own settings.
func BuildGroup(cfg *Config, options ...http.ClientOption) (*http.ClientGroup, error) {
	if problems := ValidateConfig(cfg); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		return nil, errors.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	names := make([]string, 0, len(cfg.Clients))
	for name := range cfg.Clients {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]http.GroupEntry, 0, len(names))
	for _, name := range names {
		client := cfg.Clients[name]

		var opts []http.ClientOption
		if client.InsecureSkipVerify {
			opts = append(opts, http.WithInsecureSkipVerify())
		}
		if client.Timeout != "" {
			timeout, err := ParseDurationString(client.Timeout)
			if err != nil {
				return nil, errors.Wrapf(err, "client %s", name)
			}
			opts = append(opts, http.WithTimeout(timeout))
		}

		headerKeys := make([]string, 0, len(client.Headers))
		for key := range client.Headers {
			headerKeys = append(headerKeys, key)
		}
		sort.Strings(headerKeys)
		headers := make([]http.HeaderPair, 0, len(headerKeys))
		for _, key := range headerKeys {
			headers = append(headers, http.Header(key, client.Headers[key]))
		}

		entries = append(entries, http.GroupEntry{
			Name:    name,
			BaseURL: client.BaseURL,
			Headers: headers,
			Options: opts,
		})
	}

	return http.NewClientGroupWithOptions(options, entries...), nil
}

// LoadGroup loads, resolves against environ and builds the group defined in
// the file at path.
func LoadGroup(path string, environ []string, options ...http.ClientOption) (*http.ClientGroup, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return BuildGroup(Resolve(cfg, environ), options...)
}
