// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the graph-shaped value types: resolved entities,
// mechanistic paths, and subgraph nodes/edges.
package datatypes

import (
	"fmt"
	"strings"
)

// =============================================================================
// Resolved Entity
// =============================================================================

// ResolvedEntity is an entity name resolved to its surrogate key.
//
// Source labels which matching attempt produced the hit (e.g.
// "preferred_name", "preferred_name_partial", "symbol", "label",
// "external_id"). Confidence is in [0,1]; exact matches carry 1.0.
// ResolvedEntity values are immutable once created.
type ResolvedEntity struct {
	Key        int64   `json:"key"`
	Name       string  `json:"name"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// =============================================================================
// Mechanistic Path
// =============================================================================

// PathStep is a single node visited along a mechanistic path, plus the edge
// kind that led to it (empty for the first step).
type PathStep struct {
	NodeKind  string `json:"kind"`
	NodeKey   int64  `json:"key"`
	NodeLabel string `json:"label"`
	EdgeKind  string `json:"edge,omitempty"`
}

// MechanisticPath is a ranked path through the knowledge graph from a drug
// to an adverse event or mechanistic context node.
type MechanisticPath struct {
	Steps         []PathStep `json:"steps"`
	Score         float64    `json:"score"`
	EvidenceCount int        `json:"evidence_count"`
	ClaimKeys     []int64    `json:"claim_keys,omitempty"`
	Datasets      []string   `json:"datasets,omitempty"`
}

// Hops returns the hop count k (edges traversed). A two-node path has one hop.
func (p *MechanisticPath) Hops() int {
	if len(p.Steps) == 0 {
		return 0
	}
	return len(p.Steps) - 1
}

// Signature returns the node-sequence key used to deduplicate paths.
func (p *MechanisticPath) Signature() string {
	var b strings.Builder
	for i, s := range p.Steps {
		if i > 0 {
			b.WriteByte('>')
		}
		fmt.Fprintf(&b, "%s:%d", s.NodeKind, s.NodeKey)
	}
	return b.String()
}

// String renders the path as "Drug:aspirin --[TARGETS]--> Gene:PTGS2 ...".
func (p *MechanisticPath) String() string {
	var b strings.Builder
	for i, s := range p.Steps {
		if i > 0 && s.EdgeKind != "" {
			fmt.Fprintf(&b, " --[%s]--> ", s.EdgeKind)
		} else if i > 0 {
			b.WriteString(" --> ")
		}
		fmt.Fprintf(&b, "%s:%s", s.NodeKind, s.NodeLabel)
	}
	return b.String()
}

// =============================================================================
// Subgraph
// =============================================================================

// Node is a subgraph node keyed by a "kind:key" identifier.
type Node struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is a directed subgraph edge between two node IDs.
type Edge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Kind       string         `json:"kind"`
	Weight     float64        `json:"weight"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Subgraph is a bounded extract of the knowledge graph for visualization.
type Subgraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ToCytoscape converts the subgraph to the Cytoscape.js elements format
// used by the dashboard front-end.
func (s *Subgraph) ToCytoscape() map[string]any {
	elements := make([]map[string]any, 0, len(s.Nodes)+len(s.Edges))
	for _, n := range s.Nodes {
		data := map[string]any{"id": n.ID, "label": n.Label, "kind": n.Kind}
		for k, v := range n.Properties {
			data[k] = v
		}
		elements = append(elements, map[string]any{"data": data, "group": "nodes"})
	}
	for _, e := range s.Edges {
		data := map[string]any{
			"source": e.Source,
			"target": e.Target,
			"kind":   e.Kind,
			"weight": e.Weight,
		}
		for k, v := range e.Properties {
			data[k] = v
		}
		elements = append(elements, map[string]any{"data": data, "group": "edges"})
	}
	return map[string]any{"elements": elements}
}
