// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures shared across the engine service.
//
// This file contains the planner-output types: the tool plan the planner LLM
// must produce each iteration, and the per-call request record the dispatcher
// validates. These types are the trust boundary between the untrusted text
// generator and the deterministic tool layer: nothing the planner emits
// reaches the graph store without passing Validate() and the dispatcher's
// allow-list.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxCallsPerPlan bounds the number of tool calls a single plan may carry.
	// The planner prompt states the same limit; this is the hard backstop.
	MaxCallsPerPlan = 8

	// MaxQueryBytes is the maximum size of a user query.
	MaxQueryBytes = 4 * 1024
)

// Planner stop signals. A plan carrying one of these skips dispatch and goes
// straight to narration.
const (
	StopSufficientInformation = "sufficient_information"
	StopNoRelevantTools       = "no_relevant_tools"
)

// planValidate is the validator instance for planner datatypes.
var planValidate = validator.New()

// =============================================================================
// Tool Call Request
// =============================================================================

// ToolCallRequest is a single tool invocation requested by the planner.
//
// # Description
//
// Produced by the planner LLM as part of a ToolPlan. The Tool name is matched
// against the closed catalog by the dispatcher; Args are coerced to the
// tool's declared parameter types before any graph access. Reason is free
// text carried into the trace log for auditability.
//
// # Assumptions
//
//   - Args values come from JSON decoding, so numbers arrive as float64 and
//     lists as []any. Coercion is the dispatcher's job, not the caller's.
type ToolCallRequest struct {
	Tool   string         `json:"tool" validate:"required"`
	Args   map[string]any `json:"args"`
	Reason string         `json:"reason,omitempty"`
}

// =============================================================================
// Tool Plan
// =============================================================================

// ToolPlan is the planner's complete output for one iteration.
//
// A valid plan carries at least one call, or a stop signal, never neither.
// Plans are single-use: the orchestrator dispatches a plan exactly once.
type ToolPlan struct {
	// Thought is the planner's reasoning about the current state. Logged,
	// never executed.
	Thought string `json:"thought,omitempty"`

	// Calls is the ordered list of tool invocations to execute.
	Calls []ToolCallRequest `json:"tool_calls"`

	// Stop, when set, short-circuits dispatch. Must be one of the
	// Stop* constants.
	Stop string `json:"stop,omitempty"`
}

// Validate checks structural validity of the plan.
//
// # Outputs
//
//   - error: non-nil if the plan is empty, oversized, carries an unknown
//     stop signal, or any call fails field validation.
func (p *ToolPlan) Validate() error {
	if p.Stop != "" {
		if p.Stop != StopSufficientInformation && p.Stop != StopNoRelevantTools {
			return fmt.Errorf("unknown stop signal %q", p.Stop)
		}
		return nil
	}
	if len(p.Calls) == 0 {
		return fmt.Errorf("plan has no tool calls and no stop signal")
	}
	if len(p.Calls) > MaxCallsPerPlan {
		return fmt.Errorf("plan has %d calls, maximum is %d", len(p.Calls), MaxCallsPerPlan)
	}
	for i := range p.Calls {
		if err := planValidate.Struct(&p.Calls[i]); err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
	}
	return nil
}

// IsStop reports whether the plan carries an explicit stop signal.
func (p *ToolPlan) IsStop() bool {
	return p.Stop != ""
}
