// Package assert evaluates boolean expressions against a response.
//
// Expressions use the expr language (https://expr-lang.org):
//
//	status == 200
//	ok && len(data.items) > 0
//	headers["Content-Type"] contains "json"
//	data.name matches "^[a-z]+$"
package assert

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles expressions once and caches the programs.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// New creates an Evaluator with an empty cache.
func New() *Evaluator {
	return &Evaluator{cache: make(map[string]*vm.Program)}
}

// Result is the outcome of one expression.
type Result struct {
	Expression string
	Passed     bool

	// Err is set when the expression did not compile or failed at runtime
	Err error
}

// Compile checks expression without evaluating it.
func (e *Evaluator) Compile(expression string) error {
	_, err := e.program(expression)
	return err
}

// Evaluate runs expression against env. The expression must produce a bool.
func (e *Evaluator) Evaluate(expression string, env map[string]any) Result {
	res := Result{Expression: expression}

	program, err := e.program(expression)
	if err != nil {
		res.Err = err
		return res
	}

	out, err := expr.Run(program, env)
	if err != nil {
		res.Err = fmt.Errorf("evaluating %q: %w", expression, err)
		return res
	}
	passed, ok := out.(bool)
	if !ok {
		res.Err = fmt.Errorf("%q returned %T, want bool", expression, out)
		return res
	}
	res.Passed = passed
	return res
}

// EvaluateAll runs every expression in order.
func (e *Evaluator) EvaluateAll(expressions []string, env map[string]any) []Result {
	results := make([]Result, 0, len(expressions))
	for _, expression := range expressions {
		results = append(results, e.Evaluate(expression, env))
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func (e *Evaluator) program(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty assertion")
	}

	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", expression, err)
	}

	e.mu.Lock()
	e.cache[expression] = program
	e.mu.Unlock()
	return program, nil
}
