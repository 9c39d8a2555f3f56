// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

func TestAddResolution_SkipsNulls(t *testing.T) {
	p := NewPack("q")
	p.AddResolution("drug", map[string]*datatypes.ResolvedEntity{
		"aspirin": {Key: 10, Name: "aspirin", Source: "preferred_name", Confidence: 1.0},
		"ghost":   nil,
	})

	k, ok := p.ResolvedKey("drug", "aspirin")
	require.True(t, ok)
	assert.Equal(t, int64(10), k)

	_, ok = p.ResolvedKey("drug", "ghost")
	assert.False(t, ok, "null resolution must not create a key")
}

func TestAbsorb_ClaimsAndDatasets(t *testing.T) {
	p := NewPack("q")
	p.Absorb([]graph.TargetRow{
		{GeneKey: 20, Symbol: "PTGS2", ClaimKey: 100, DatasetID: "drugcentral"},
		{GeneKey: 21, Symbol: "PTGS1", ClaimKey: 101, DatasetID: "chembl"},
	})
	p.Absorb([]graph.DrugAdverseEventRow{
		{AEKey: 40, Label: "nausea", ClaimKey: 300, DatasetID: "sider"},
	})

	s := p.Summary()
	assert.ElementsMatch(t, []int64{100, 101, 300}, s.ClaimIDs)
	assert.ElementsMatch(t, []string{"drugcentral", "chembl", "sider"}, s.DatasetIDs)
	assert.Equal(t, int64(40), s.AdverseEvents["nausea"])
}

func TestAbsorb_PathsKeyedBySignature(t *testing.T) {
	p := NewPack("q")
	path := datatypes.MechanisticPath{
		Steps: []datatypes.PathStep{
			{NodeKind: "Drug", NodeKey: 10, NodeLabel: "x"},
			{NodeKind: "Gene", NodeKey: 20, NodeLabel: "G", EdgeKind: "TARGETS"},
		},
		Score:     0.7,
		ClaimKeys: []int64{100},
		Datasets:  []string{"drugcentral"},
	}
	p.Absorb([]datatypes.MechanisticPath{path})
	// Re-absorbing the same node sequence replaces, not duplicates.
	path.Score = 0.8
	p.Absorb([]datatypes.MechanisticPath{path})

	paths := p.Paths()
	require.Len(t, paths, 1)
	assert.Equal(t, 0.8, paths[0].Score)
}

func TestSubgraph_MergesFragments(t *testing.T) {
	p := NewPack("q")
	assert.Nil(t, p.Subgraph())

	p.Absorb(&datatypes.Subgraph{
		Nodes: []datatypes.Node{{ID: "Drug:10", Kind: "Drug", Label: "x"}},
		Edges: []datatypes.Edge{{Source: "Drug:10", Target: "Gene:20", Kind: "TARGETS"}},
	})
	p.Absorb(&datatypes.Subgraph{
		Nodes: []datatypes.Node{
			{ID: "Drug:10", Kind: "Drug", Label: "x"},
			{ID: "Gene:20", Kind: "Gene", Label: "G"},
		},
	})

	sub := p.Subgraph()
	require.NotNil(t, sub)
	assert.Len(t, sub.Nodes, 2)
	assert.Len(t, sub.Edges, 1)
}

func TestAbsorbSubgraph_EdgeClaimsReachSummary(t *testing.T) {
	p := NewPack("q")
	p.Absorb(&datatypes.Subgraph{
		Nodes: []datatypes.Node{
			{ID: "Drug:10", Kind: "Drug", Label: "aspirin"},
			{ID: "Gene:20", Kind: "Gene", Label: "PTGS1"},
			{ID: "AdverseEvent:40", Kind: "AdverseEvent", Label: "bleeding"},
		},
		Edges: []datatypes.Edge{
			// Built in-process: claim_key is int64.
			{Source: "Drug:10", Target: "Gene:20", Kind: "TARGETS",
				Properties: map[string]any{"claim_key": int64(100)}},
			// Round-tripped through planner JSON: claim_key is float64.
			{Source: "Drug:10", Target: "AdverseEvent:40", Kind: "CAUSES",
				Properties: map[string]any{"claim_key": float64(777)}},
		},
	})

	s := p.Summary()
	assert.ElementsMatch(t, []int64{100, 777}, s.ClaimIDs,
		"every subgraph edge's claim must be citable provenance")

	sub := p.Subgraph()
	require.NotNil(t, sub)
	assert.Len(t, sub.Edges, 2)
}

func TestResolvedDigest(t *testing.T) {
	p := NewPack("q")
	assert.Equal(t, "none\n", p.ResolvedDigest())

	p.Drugs["aspirin"] = 10
	p.Genes["PTGS2"] = 20
	d := p.ResolvedDigest()
	assert.Contains(t, d, "drugs: aspirin=10")
	assert.Contains(t, d, "genes: PTGS2=20")
}
