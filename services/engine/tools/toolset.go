// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools is the deterministic tool library the reasoning loop drives.
//
// # Description
//
// Every tool is a read-only graph operation with typed parameters and a
// typed result. Tools fail only with *Error; invalid keys return empty
// results rather than errors so the observer can distinguish "nothing known"
// from "something broke".
//
// # Thread Safety
//
// Toolset is stateless beyond its injected dependencies and safe for
// concurrent use.
package tools

import (
	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
)

// substringLimit bounds fuzzy resolution candidates per name.
const substringLimit = 10

// MaxItemsPerTool is the library-level collection cap. The dispatcher may
// enforce a lower cap when shaping results for the prompt.
const MaxItemsPerTool = 100

// Toolset implements the closed tool catalog against a Store.
type Toolset struct {
	store  Store
	policy *scoring.Policy
	log    *logging.Logger
}

// NewToolset wires the tool library.
func NewToolset(store Store, policy *scoring.Policy, log *logging.Logger) *Toolset {
	return &Toolset{store: store, policy: policy, log: log}
}

// capInt normalizes a caller-supplied limit into (0, max].
func capInt(v, def, max int) int {
	if v <= 0 {
		v = def
	}
	if v > max {
		v = max
	}
	return v
}
