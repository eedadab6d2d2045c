// Package jsonpath looks up values in JSON documents using a small JSONPath
// subset: $, dotted keys, [n] indexes and ['key'] / ["key"] brackets.
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup evaluates path against a raw JSON document.
func Lookup(raw []byte, path string) (gjson.Result, error) {
	if len(raw) == 0 {
		return gjson.Result{}, fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("invalid JSON document")
	}

	result := gjson.GetBytes(raw, ToGjson(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// Extract evaluates path against an already decoded value such as the data of
// a normalized response. The match is returned as a decoded Go value.
func Extract(data any, path string) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	result, err := Lookup(raw, path)
	if err != nil {
		return nil, err
	}
	return result.Value(), nil
}

// ExtractAll evaluates several named paths. Values found are returned even
// when some paths fail; the error lists every failure.
func ExtractAll(data any, paths map[string]string) (map[string]any, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	results := make(map[string]any, len(paths))
	var failures []string
	for name, path := range paths {
		result, err := Lookup(raw, path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = result.Value()
	}
	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// ToGjson converts a JSONPath expression to gjson path syntax.
//
//	$.users[0].name  ->  users.0.name
//	$['a.b'].c       ->  a\.b.c
func ToGjson(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" || path == "." {
		return "@this"
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				current.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			key := strings.Trim(path[i+1:i+end], `'"`)
			parts = append(parts, escapeKey(key))
			i += end
		default:
			current.WriteByte(c)
		}
	}
	flush()

	if len(parts) == 0 {
		return "@this"
	}
	return strings.Join(parts, ".")
}

// escapeKey escapes characters gjson treats as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
