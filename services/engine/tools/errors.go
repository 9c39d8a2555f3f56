// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"errors"
	"fmt"
)

// Stable tool error kinds. Invalid input that merely finds nothing is not an
// error: nonexistent keys return empty results.
const (
	KindInvalidArgs = "tool.invalid_args"
	KindUpstream    = "tool.upstream"
	KindTimeout     = "tool.timeout"
)

// Error is the only error type a tool returns. Anything else escaping a tool
// is a programming bug and is allowed to propagate.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidArgs builds a tool.invalid_args error before any store access.
func InvalidArgs(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgs, Err: fmt.Errorf(format, args...)}
}

// Upstream wraps a store failure.
func Upstream(err error) *Error {
	return &Error{Kind: KindUpstream, Err: err}
}

// AsToolError extracts a *Error from an error chain.
func AsToolError(err error) (*Error, bool) {
	var te *Error
	ok := errors.As(err, &te)
	return te, ok
}
