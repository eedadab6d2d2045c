package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that take part in {{variable}}
// substitution. MGUN_API_HOST is available as {{API_HOST}}.
const EnvPrefix = "MGUN_"

// Config represents the top-level configuration file structure.
type Config struct {
	// Variables can be referenced as {{name}} in base URLs and header values
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Clients maps client names to their definitions
	Clients map[string]Client `json:"clients" yaml:"clients"`
}

// Client defines one named client of a group.
type Client struct {
	// BaseURL is the root every chain of this client starts from
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Headers are default headers; they win over per-call headers
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Timeout bounds each request ("10s", "2 minutes")
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// InsecureSkipVerify disables TLS certificate checks
	InsecureSkipVerify bool `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// Format is the encoding of a configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything other
// than .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadConfig loads a configuration file from the given path.
// Supports JSON and YAML configuration files.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrap(err, "error reading config file")
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "invalid YAML")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "invalid JSON")
		}
	default:
		return nil, errors.Errorf("unknown config format %q", format)
	}
	return &cfg, nil
}

// ParseDurationString parses duration strings like "30s", "5m", "1h".
// Supports Go duration format and common variants like "30 seconds".
func ParseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, errors.New("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	duration = strings.ToLower(strings.ReplaceAll(duration, " ", ""))

	// longest words first so "seconds" is not left as "s" + "s"
	replacements := []struct{ word, abbrev string }{
		{"milliseconds", "ms"},
		{"millisecond", "ms"},
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}

// ProcessEnvironment processes variable substitution in a string.
// Variables are specified using the {{variableName}} syntax.
//
// Example:
//
//	url := config.ProcessEnvironment("https://{{host}}/v{{version}}", map[string]string{
//	    "host":    "api.example.com",
//	    "version": "2",
//	})
//	// Result: "https://api.example.com/v2"
func ProcessEnvironment(input string, env map[string]string) string {
	result := input
	for key, value := range env {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessEnvironmentInMap processes variable substitution in every value of a map.
func ProcessEnvironmentInMap(input map[string]string, env map[string]string) map[string]string {
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessEnvironment(value, env)
	}
	return result
}

// MergeEnvironments merges two environments, with the override taking precedence.
func MergeEnvironments(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}

// EnvironmentVariables extracts EnvPrefix variables from environ entries
// ("KEY=value", as returned by os.Environ) with the prefix removed.
func EnvironmentVariables(environ []string) map[string]string {
	vars := make(map[string]string)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if name := strings.TrimPrefix(key, EnvPrefix); name != "" {
			vars[name] = value
		}
	}
	return vars
}

// Resolve returns a copy of cfg with variables substituted into base URLs and
// header values. Variables from environ override file variables.
func Resolve(cfg *Config, environ []string) *Config {
	vars := MergeEnvironments(cfg.Variables, EnvironmentVariables(environ))

	resolved := &Config{
		Variables: vars,
		Clients:   make(map[string]Client, len(cfg.Clients)),
	}
	for name, client := range cfg.Clients {
		client.BaseURL = ProcessEnvironment(client.BaseURL, vars)
		client.Headers = ProcessEnvironmentInMap(client.Headers, vars)
		resolved.Clients[name] = client
	}
	return resolved
}
