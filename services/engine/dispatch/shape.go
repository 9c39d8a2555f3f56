// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Result shaping. The raw tool return goes to the evidence accumulator; the
// observer LLM sees a bounded, JSON-plain copy: top-level lists capped,
// evidence payload blobs already stripped at the row-type level.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// shaped is the prompt-facing form of one tool payload.
type shaped struct {
	data          any
	truncated     bool
	originalCount int
}

// shapePayload renders a typed tool result as JSON and caps top-level lists
// at capN items. Elements stay raw JSON rather than passing through a
// map[string]any: struct field order is the contract that puts labels ahead
// of surrogate keys in the observer prompt, and Go maps re-marshal
// alphabetically.
func shapePayload(result any, capN int) shaped {
	raw, err := json.Marshal(result)
	if err != nil {
		// Row types are plain data; a marshal failure is a programming bug.
		panic(fmt.Sprintf("unmarshalable tool result %T: %v", result, err))
	}

	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			panic(fmt.Sprintf("reparse of tool result %T: %v", result, err))
		}
		if len(items) > capN {
			return shaped{data: items[:capN], truncated: true, originalCount: len(items)}
		}
		return shaped{data: items}
	}
	return shaped{data: json.RawMessage(raw)}
}

// summarize renders the one-line result summary kept in the trace log.
func summarize(result any) string {
	switch r := result.(type) {
	case map[string]*datatypes.ResolvedEntity:
		hits := 0
		for _, e := range r {
			if e != nil {
				hits++
			}
		}
		return fmt.Sprintf("resolved %d/%d names", hits, len(r))
	case []graph.TargetRow:
		return fmt.Sprintf("%d targets", len(r))
	case []graph.GenePathwayRow:
		return fmt.Sprintf("%d pathways", len(r))
	case []graph.GeneDiseaseRow:
		return fmt.Sprintf("%d disease associations", len(r))
	case []graph.DiseaseGeneRow:
		return fmt.Sprintf("%d gene associations", len(r))
	case []graph.InteractorRow:
		return fmt.Sprintf("%d interactors", len(r))
	case []graph.DrugAdverseEventRow:
		return fmt.Sprintf("%d adverse events", len(r))
	case []graph.FAERSSignalRow:
		return fmt.Sprintf("%d FAERS signals", len(r))
	case []graph.LabelSectionRow:
		return fmt.Sprintf("%d label sections", len(r))
	case []graph.ClaimRow:
		return fmt.Sprintf("%d claims", len(r))
	case *tools.ClaimEvidence:
		if r.Claim == nil {
			return "claim not found"
		}
		return fmt.Sprintf("claim %d with %d evidence records", r.Claim.ClaimKey, len(r.Evidence))
	case *tools.MechanismExpansion:
		return fmt.Sprintf("%d targets, %d pathways", len(r.Targets), len(r.Pathways))
	case []tools.GeneContext:
		return fmt.Sprintf("context for %d genes", len(r))
	case *tools.DrugProfile:
		if r.Drug == nil {
			return "drug not found"
		}
		return fmt.Sprintf("profile of %s: %d targets, %d adverse events",
			r.Drug.PreferredName, len(r.Targets), len(r.AdverseEvents))
	case []datatypes.MechanisticPath:
		if len(r) == 0 {
			return "no paths found"
		}
		return fmt.Sprintf("%d paths (top score %.3f)", len(r), r[0].Score)
	case *datatypes.Subgraph:
		return fmt.Sprintf("subgraph with %d nodes, %d edges", len(r.Nodes), len(r.Edges))
	}
	return "ok"
}
