package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mgunhttp "github.com/wesleyorama2/mgun/http"
	"github.com/wesleyorama2/mgun/internal/output"
	"github.com/wesleyorama2/mgun/pkg/assert"
	"github.com/wesleyorama2/mgun/pkg/jq"
	"github.com/wesleyorama2/mgun/pkg/jsonpath"
	"github.com/wesleyorama2/mgun/pkg/jsonschema"
)

// Returned after the output was written.
var (
	errSchemaMismatch = errors.New("response does not match schema")
	errAssertFailed   = errors.New("assertion failed")
)

type callOptions struct {
	clientFlags

	query   []string
	data    string
	headers []string
	format  string
	extract []string
	schema  string
	jq      string
	asserts []string
	verbose bool
	noColor bool
	repeat  int
}

func newCallCmd(opts *globalOptions) *cobra.Command {
	o := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call [flags] TOKEN... VERB",
		Short: "Build a URL from path tokens and send it with the final verb",
		Long: `Tokens are appended to the base URL as path segments until a verb
(get, post, put, patch, delete) ends the chain. A segment that collides with a
verb is written with a trailing underscore: "get_" is sent as "get".`,
		Example: `  mgun call --url https://httpbin.org anything users 23 get -q q=12
  mgun call --config clients.yaml --client api users post -d '{"name":"x"}'
  mgun call --url https://api.test users 1 get --extract name='$.name'
  mgun call --url https://api.test users get --jq '.[].id' --assert 'status == 200'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, opts, o, args)
		},
	}

	o.clientFlags.register(cmd)
	cmd.Flags().StringArrayVarP(&o.query, "query", "q", nil, "Query parameter key=value (can be used multiple times)")
	cmd.Flags().StringVarP(&o.data, "data", "d", "", "JSON request body, or @file to read it from a file")
	cmd.Flags().StringArrayVarP(&o.headers, "header", "H", nil, "HTTP header 'Key: Value' (can be used multiple times)")
	cmd.Flags().StringVarP(&o.format, "output", "o", "text", "Output format (text, json, yaml)")
	cmd.Flags().StringArrayVar(&o.extract, "extract", nil, "Extract name=$.json.path from the response (can be used multiple times)")
	cmd.Flags().StringVar(&o.schema, "schema", "", "Validate the response body against a JSON Schema file")
	cmd.Flags().StringVar(&o.jq, "jq", "", "Filter the response data with a jq expression")
	cmd.Flags().StringArrayVar(&o.asserts, "assert", nil, "Boolean expression over status, ok, headers, data and text (can be used multiple times)")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().IntVarP(&o.repeat, "repeat", "n", 1, "Send the request n times over one session and report latency")
	return cmd
}

func runCall(cmd *cobra.Command, opts *globalOptions, o *callOptions, tokens []string) error {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}
	params, err := parsePairs("query", o.query)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return err
	}
	extract, err := parsePairs("extract", o.extract)
	if err != nil {
		return err
	}
	body, err := readBody(o.data)
	if err != nil {
		return err
	}

	var schema *jsonschema.Schema
	if o.schema != "" {
		if schema, err = jsonschema.CompileFile(o.schema); err != nil {
			return err
		}
	}

	var filter *jq.Query
	if o.jq != "" {
		if filter, err = jq.Compile(o.jq); err != nil {
			return err
		}
	}
	evaluator := assert.New()
	for _, expression := range o.asserts {
		if err := evaluator.Compile(expression); err != nil {
			return err
		}
	}

	client, err := o.client(opts)
	if err != nil {
		return err
	}
	builder, method, err := resolveChain(client, tokens)
	if err != nil {
		return err
	}
	if method == "" {
		return fmt.Errorf("no verb given: end the chain with one of get, post, put, patch or delete")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts.logger.Debug().
		Str("method", method.String()).
		Str("url", builder.String()).
		Msg("dispatching")

	var resp mgunhttp.ApiResponse
	var session *output.SessionData
	if o.repeat > 1 {
		err = client.WithSession(func(c *mgunhttp.Client) error {
			// the chain must be started inside the scope to be bound to the session
			b, _, err := resolveChain(c, tokens)
			if err != nil {
				return err
			}
			for i := 0; i < o.repeat; i++ {
				if resp, err = b.Request(ctx, method, body, params, headers); err != nil {
					return err
				}
			}
			session = output.NewSessionData(c.Session().Stats())
			return nil
		})
	} else {
		resp, err = builder.Request(ctx, method, body, params, headers)
	}
	if err != nil {
		return err
	}

	result := output.Result{
		Request: output.RequestData{
			Method:  method.String(),
			URL:     renderURL(builder, params),
			Headers: effectiveHeaders(headers, client.Headers()),
			Body:    body,
		},
		Response: resp,
		Session:  session,
	}

	if len(extract) > 0 {
		values, err := jsonpath.ExtractAll(resp.Data, extract)
		if err != nil {
			return err
		}
		result.Extracted = values
	}

	if schema != nil {
		problems := resp.Validate(schema)
		valid := len(problems) == 0
		result.SchemaValid = &valid
		for _, p := range problems {
			result.SchemaErrors = append(result.SchemaErrors, p.Error())
		}
	}

	if filter != nil {
		value, err := filter.Run(ctx, resp.Data)
		if err != nil {
			return err
		}
		result.Filtered = &output.FilterData{Expression: filter.String(), Value: value}
	}

	if len(o.asserts) > 0 {
		for _, r := range evaluator.EvaluateAll(o.asserts, assertEnv(resp)) {
			a := output.AssertionData{Expression: r.Expression, Passed: r.Passed}
			if r.Err != nil {
				a.Error = r.Err.Error()
			}
			result.Assertions = append(result.Assertions, a)
		}
	}

	noColor := o.noColor || !writesToTerminal(cmd)
	formatter := output.GetFormatter(format, o.verbose, noColor)
	out := formatter.FormatResult(result)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if result.SchemaValid != nil && !*result.SchemaValid {
		return errSchemaMismatch
	}
	if !result.AssertionsPassed() {
		return errAssertFailed
	}
	return nil
}

// assertEnv exposes a response to --assert expressions.
func assertEnv(resp mgunhttp.ApiResponse) map[string]any {
	headers := make(map[string]any, len(resp.Headers))
	for key := range resp.Headers {
		headers[key] = resp.Headers.Get(key)
	}
	return map[string]any{
		"status":  resp.Status,
		"ok":      resp.IsSuccess(),
		"headers": headers,
		"data":    resp.Data,
		"text":    resp.Text(),
		"ms":      resp.Timing.TotalTime.Milliseconds(),
	}
}

// readBody decodes the --data value. An empty value means no body.
func readBody(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("--data is not valid JSON: %w", err)
	}
	return body, nil
}

// effectiveHeaders mirrors the merge done for the wire: client defaults win.
func effectiveHeaders(call, defaults map[string]string) map[string]string {
	if len(call) == 0 && len(defaults) == 0 {
		return nil
	}
	merged := make(map[string]string, len(call)+len(defaults))
	for k, v := range call {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range defaults {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return merged
}

func writesToTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && output.ColorEnabled(f)
}
