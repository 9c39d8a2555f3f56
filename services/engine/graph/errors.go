// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"errors"
	"fmt"
)

// Stable error kinds for the graph layer. Callers branch on these strings,
// never on error text.
const (
	KindUnavailable    = "graph.unavailable"
	KindSchemaMismatch = "graph.schema_mismatch"
)

// ErrUnavailable indicates the graph store cannot be reached at all.
var ErrUnavailable = errors.New(KindUnavailable)

// ErrSchemaMismatch indicates the store is reachable but a required table or
// column is missing. Fatal at probe time.
var ErrSchemaMismatch = errors.New(KindSchemaMismatch)

// unavailable wraps a driver error as graph.unavailable with context.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// schemaMismatch wraps a probe failure as graph.schema_mismatch with the
// offending relation name.
func schemaMismatch(relation string, err error) error {
	return fmt.Errorf("%w: relation %s: %v", ErrSchemaMismatch, relation, err)
}
