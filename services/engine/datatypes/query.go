// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the public call-surface types: the query request coming
// in over HTTP or the CLI and the full query result going back out, including
// the iteration trace the caller can use to reconstruct every tool call.
package datatypes

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var queryValidate = validator.New()

// =============================================================================
// Completion Reasons
// =============================================================================

// CompletionReason records why a query loop ended.
type CompletionReason string

const (
	ReasonSufficient    CompletionReason = "sufficient"
	ReasonMaxIterations CompletionReason = "max_iterations"
	ReasonPlannerStop   CompletionReason = "planner_stop"
	ReasonCancelled     CompletionReason = "cancelled"
	ReasonError         CompletionReason = "error"
)

// =============================================================================
// Query Request
// =============================================================================

// QueryRequest is a single natural-language query against the engine.
//
// MaxIterations, when zero, defers to the configured default. Values outside
// [1,10] are rejected by Validate.
type QueryRequest struct {
	Query         string `json:"query" validate:"required,min=3"`
	MaxIterations int    `json:"max_iterations,omitempty" validate:"omitempty,gte=1,lte=10"`
}

// Validate checks field constraints and the query size cap.
func (r *QueryRequest) Validate() error {
	if len(r.Query) > MaxQueryBytes {
		return fmt.Errorf("query exceeds %d bytes", MaxQueryBytes)
	}
	return queryValidate.Struct(r)
}

// =============================================================================
// Tool Result (shaped)
// =============================================================================

// ToolResult is the outcome of one executed (or rejected) tool call.
//
// # Description
//
// Data holds the shaped payload the observer LLM sees: lists truncated to the
// configured cap, labels ordered before keys, opaque blobs dropped. The full
// un-shaped return stays in the evidence accumulator. ErrorKind carries a
// stable category string (tool.invalid_args, tool.upstream, tool.timeout,
// dispatch.unknown_tool) so downstream consumers never parse error text.
type ToolResult struct {
	Tool          string         `json:"tool"`
	Args          map[string]any `json:"args"`
	OK            bool           `json:"ok"`
	ErrorKind     string         `json:"error_kind,omitempty"`
	Error         string         `json:"error,omitempty"`
	Data          any            `json:"data,omitempty"`
	Truncated     bool           `json:"truncated"`
	OriginalCount int            `json:"original_count,omitempty"`
	Summary       string         `json:"summary"`
}

// =============================================================================
// Iteration Trace
// =============================================================================

// ToolCallLog is a compact record of one tool call for the trace.
type ToolCallLog struct {
	Tool    string         `json:"tool"`
	Args    map[string]any `json:"args"`
	OK      bool           `json:"ok"`
	Summary string         `json:"summary"`
	Error   string         `json:"error,omitempty"`
}

// IterationLog records one plan/dispatch/observe cycle.
type IterationLog struct {
	Iteration int                 `json:"iteration"`
	Thought   string              `json:"thought,omitempty"`
	ToolCalls []ToolCallLog       `json:"tool_calls"`
	Verdict   *SufficiencyVerdict `json:"verdict,omitempty"`
	StartedAt time.Time           `json:"started_at"`
	EndedAt   time.Time           `json:"ended_at"`
}

// =============================================================================
// Query Result
// =============================================================================

// EvidenceSummary is the provenance slice of a query result: every entity,
// claim, evidence record and dataset the loop touched.
type EvidenceSummary struct {
	Drugs         map[string]int64 `json:"drugs"`
	Genes         map[string]int64 `json:"genes"`
	Diseases      map[string]int64 `json:"diseases"`
	AdverseEvents map[string]int64 `json:"adverse_events"`
	ClaimIDs      []int64          `json:"claim_ids"`
	EvidenceIDs   []int64          `json:"evidence_ids"`
	DatasetIDs    []string         `json:"dataset_ids"`
}

// QueryResult is the complete answer to one query.
//
// Summary is narrator prose grounded exclusively in the accumulated
// evidence. Trace is always present on non-error results so the caller can
// reconstruct exactly which tools ran with which arguments.
type QueryResult struct {
	QueryID          string            `json:"query_id"`
	Query            string            `json:"query"`
	Summary          string            `json:"summary"`
	Subgraph         *Subgraph         `json:"subgraph,omitempty"`
	Paths            []MechanisticPath `json:"paths,omitempty"`
	Evidence         EvidenceSummary   `json:"evidence"`
	Trace            []IterationLog    `json:"trace"`
	Iterations       int               `json:"iterations"`
	CompletionReason CompletionReason  `json:"completion_reason"`
}
