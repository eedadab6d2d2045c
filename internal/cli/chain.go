package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/mgun/config"
	"github.com/wesleyorama2/mgun/http"
)

// clientFlags select the client a chain starts from.
type clientFlags struct {
	configPath string
	clientName string
	baseURL    string
	timeout    time.Duration
	insecure   bool
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Client configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&f.clientName, "client", "", "Client name from the configuration file")
	cmd.Flags().StringVar(&f.baseURL, "url", "", "Base URL when no configuration file is used")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 30*time.Second, "Request timeout")
	cmd.Flags().BoolVarP(&f.insecure, "insecure", "k", false, "Skip TLS certificate verification")
}

// client builds the client named by the flags. A client's configured timeout
// takes precedence over --timeout.
func (f *clientFlags) client(opts *globalOptions) (*http.Client, error) {
	options := []http.ClientOption{
		http.WithTimeout(f.timeout),
		http.WithLogger(opts.logger),
	}
	if f.insecure {
		options = append(options, http.WithInsecureSkipVerify())
	}

	if f.configPath == "" {
		if f.baseURL == "" {
			return nil, fmt.Errorf("either --url or --config is required")
		}
		return http.NewClient(f.baseURL, options...), nil
	}
	if f.baseURL != "" {
		return nil, fmt.Errorf("--url and --config are mutually exclusive")
	}

	group, err := config.LoadGroup(f.configPath, os.Environ(), options...)
	if err != nil {
		return nil, err
	}

	name := f.clientName
	if name == "" {
		names := group.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("--client is required when the configuration defines %d clients (%s)",
				len(names), strings.Join(names, ", "))
		}
		name = names[0]
	}
	return group.Get(name)
}

// resolveChain resolves tokens left to right. The first verb token ends the
// chain and must be the last token; method is empty when no verb was given.
func resolveChain(client *http.Client, tokens []string) (*http.PathBuilder, http.Method, error) {
	builder := client.Path()
	for i, token := range tokens {
		access := builder.Access(token)
		if !access.IsVerb() {
			builder = access.Builder
			continue
		}
		if rest := tokens[i+1:]; len(rest) > 0 {
			return nil, "", fmt.Errorf("unexpected tokens after %s: %s (escape a path segment with a trailing %q)",
				strings.ToLower(string(access.Method)), strings.Join(rest, " "), http.SegmentMarker)
		}
		return access.Builder, access.Method, nil
	}
	return builder, "", nil
}

// parsePairs parses repeated key=value flags.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected key=value", flag, pair)
		}
		out[key] = value
	}
	return out, nil
}

// parseHeaders parses repeated "Key: Value" flags.
func parseHeaders(headers []string) (map[string]string, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(headers))
	for _, header := range headers {
		key, value, ok := strings.Cut(header, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --header %q, expected 'Key: Value'", header)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// renderURL appends params to the rendered chain. Keys are sorted.
func renderURL(builder *http.PathBuilder, params map[string]string) string {
	rendered := builder.String()
	if len(params) == 0 {
		return rendered
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	sep := "?"
	if strings.Contains(rendered, "?") {
		sep = "&"
	}
	return rendered + sep + values.Encode()
}
