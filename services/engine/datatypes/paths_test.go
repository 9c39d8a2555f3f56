// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "testing"

func samplePath() MechanisticPath {
	return MechanisticPath{
		Steps: []PathStep{
			{NodeKind: "Drug", NodeKey: 10, NodeLabel: "aspirin"},
			{NodeKind: "Gene", NodeKey: 20, NodeLabel: "PTGS2", EdgeKind: "TARGETS"},
			{NodeKind: "Pathway", NodeKey: 30, NodeLabel: "Prostaglandin synthesis", EdgeKind: "IN_PATHWAY"},
		},
		Score:         0.87,
		EvidenceCount: 3,
	}
}

func TestMechanisticPathHops(t *testing.T) {
	p := samplePath()
	if p.Hops() != 2 {
		t.Errorf("Hops() = %d, want 2", p.Hops())
	}
	empty := MechanisticPath{}
	if empty.Hops() != 0 {
		t.Errorf("empty path Hops() = %d, want 0", empty.Hops())
	}
}

func TestMechanisticPathSignature(t *testing.T) {
	p := samplePath()
	want := "Drug:10>Gene:20>Pathway:30"
	if got := p.Signature(); got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}

func TestMechanisticPathString(t *testing.T) {
	p := samplePath()
	want := "Drug:aspirin --[TARGETS]--> Gene:PTGS2 --[IN_PATHWAY]--> Pathway:Prostaglandin synthesis"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSubgraphToCytoscape(t *testing.T) {
	s := Subgraph{
		Nodes: []Node{
			{ID: "Drug:10", Kind: "Drug", Label: "aspirin"},
			{ID: "Gene:20", Kind: "Gene", Label: "PTGS2"},
		},
		Edges: []Edge{
			{Source: "Drug:10", Target: "Gene:20", Kind: "TARGETS", Weight: 1.0},
		},
	}
	out := s.ToCytoscape()
	elements, ok := out["elements"].([]map[string]any)
	if !ok {
		t.Fatalf("elements has unexpected type %T", out["elements"])
	}
	if len(elements) != 3 {
		t.Fatalf("want 3 elements (2 nodes + 1 edge), got %d", len(elements))
	}
	if elements[0]["group"] != "nodes" || elements[2]["group"] != "edges" {
		t.Error("nodes should precede edges in the element list")
	}
}
