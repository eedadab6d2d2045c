// Package jq filters decoded JSON values with jq expressions.
package jq

import (
	"context"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = time.Second

// Query is a compiled jq expression. It is safe for concurrent use.
type Query struct {
	expression string
	code       *gojq.Code
	timeout    time.Duration
}

// Compile parses and compiles expression.
func Compile(expression string) (*Query, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty jq expression")
	}
	parsed, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("jq parse error in %q: %w", expression, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("jq compile error in %q: %w", expression, err)
	}
	return &Query{expression: expression, code: code, timeout: DefaultTimeout}, nil
}

// WithTimeout returns a copy of q that gives up after d.
func (q *Query) WithTimeout(d time.Duration) *Query {
	cp := *q
	cp.timeout = d
	return &cp
}

func (q *Query) String() string {
	return q.expression
}

// Run evaluates the query against data. No output yields nil, one output is
// returned as is and several are collected into a slice.
func (q *Query) Run(ctx context.Context, data any) (any, error) {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	var results []any
	iter := q.code.RunWithContext(ctx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
				break
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("jq %q: %w", q.expression, ctxErr)
			}
			return nil, fmt.Errorf("jq %q: %w", q.expression, err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Apply compiles expression and runs it once.
func Apply(ctx context.Context, expression string, data any) (any, error) {
	q, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return q.Run(ctx, data)
}
