// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Argument coercion. Planner args arrive as generic JSON values (numbers as
// float64, lists as []any); each tool parameter is coerced to its declared
// kind before the tool runs. Coercion failures never reach the store.
package dispatch

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// args is the coerced argument set for one call.
type args map[string]any

// coerceArgs validates raw planner args against a tool spec.
func coerceArgs(spec *tools.ToolSpec, raw map[string]any) (args, error) {
	out := make(args, len(spec.Params))
	for _, p := range spec.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q", p.Name)
			}
			continue
		}
		cv, err := coerceValue(p.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p.Name, err)
		}
		out[p.Name] = cv
	}
	for name := range raw {
		if !hasParam(spec, name) {
			return nil, fmt.Errorf("unknown argument %q", name)
		}
	}
	return out, nil
}

func hasParam(spec *tools.ToolSpec, name string) bool {
	for _, p := range spec.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func coerceValue(kind tools.ParamKind, v any) (any, error) {
	switch kind {
	case tools.ParamString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case tools.ParamInt:
		return coerceInt(v)

	case tools.ParamFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			return n.Float64()
		}
		return nil, fmt.Errorf("expected number, got %T", v)

	case tools.ParamBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil

	case tools.ParamStringList:
		switch l := v.(type) {
		case []any:
			out := make([]string, 0, len(l))
			for _, item := range l {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected string list element, got %T", item)
				}
				out = append(out, s)
			}
			return out, nil
		case []string:
			return l, nil
		case string:
			// A single string is a common planner shortcut.
			return []string{l}, nil
		}
		return nil, fmt.Errorf("expected string list, got %T", v)

	case tools.ParamIntList:
		switch l := v.(type) {
		case []any:
			out := make([]int64, 0, len(l))
			for _, item := range l {
				n, err := coerceInt(item)
				if err != nil {
					return nil, err
				}
				out = append(out, n)
			}
			return out, nil
		case []int64:
			return l, nil
		}
		return nil, fmt.Errorf("expected integer list, got %T", v)

	case tools.ParamObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected object, got %T", v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown parameter kind %q", kind)
}

func coerceInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

// Typed getters with zero-value defaults for optional parameters.

func (a args) str(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a args) int64At(name string) int64 {
	n, _ := a[name].(int64)
	return n
}

func (a args) intAt(name string) int {
	return int(a.int64At(name))
}

func (a args) floatAt(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

func (a args) boolAt(name string, def bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return def
}

func (a args) strings(name string) []string {
	l, _ := a[name].([]string)
	return l
}

func (a args) int64s(name string) []int64 {
	l, _ := a[name].([]int64)
	return l
}

func (a args) object(name string) map[string]any {
	m, _ := a[name].(map[string]any)
	return m
}
