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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
)

func sp(v string) *string { return &v }

func fp(v float64) *float64 { return &v }

func newTestToolset(f *fakeStore) *Toolset {
	return NewToolset(f, scoring.NewPolicy(nil, false), logging.Default())
}

func TestResolveDrugs_ExactMatch(t *testing.T) {
	f := newFakeStore()
	f.drugsByName["aspirin"] = []graph.DrugRow{
		{DrugKey: 10, PreferredName: "aspirin", ChemblID: sp("CHEMBL25")},
	}
	ts := newTestToolset(f)

	out, err := ts.ResolveDrugs(context.Background(), []string{"aspirin"})
	require.NoError(t, err)
	require.NotNil(t, out["aspirin"])
	assert.Equal(t, int64(10), out["aspirin"].Key)
	assert.Equal(t, "preferred_name", out["aspirin"].Source)
	assert.Equal(t, 1.0, out["aspirin"].Confidence)
	// Exact hit stops the cascade.
	assert.Equal(t, 1, f.queries)
}

func TestResolveDrugs_CascadeToExternalID(t *testing.T) {
	f := newFakeStore()
	f.drugsByExtID["CHEMBL25"] = []graph.DrugRow{
		{DrugKey: 10, PreferredName: "aspirin", ChemblID: sp("CHEMBL25")},
	}
	ts := newTestToolset(f)

	out, err := ts.ResolveDrugs(context.Background(), []string{"CHEMBL25"})
	require.NoError(t, err)
	require.NotNil(t, out["CHEMBL25"])
	assert.Equal(t, "external_id", out["CHEMBL25"].Source)
	assert.Equal(t, 0.95, out["CHEMBL25"].Confidence)
}

func TestResolveDrugs_SubstringFallback(t *testing.T) {
	f := newFakeStore()
	f.drugsBySub["aspir"] = []graph.DrugRow{
		{DrugKey: 10, PreferredName: "aspirin"},
	}
	ts := newTestToolset(f)

	out, err := ts.ResolveDrugs(context.Background(), []string{"aspir"})
	require.NoError(t, err)
	require.NotNil(t, out["aspir"])
	assert.Equal(t, "preferred_name_partial", out["aspir"].Source)
	assert.Equal(t, 0.8, out["aspir"].Confidence)
}

func TestResolveDrugs_NullForUnknown(t *testing.T) {
	f := newFakeStore()
	ts := newTestToolset(f)

	out, err := ts.ResolveDrugs(context.Background(), []string{"zz-unknown"})
	require.NoError(t, err)
	val, present := out["zz-unknown"]
	assert.True(t, present, "unknown name must map to an explicit null")
	assert.Nil(t, val)
}

func TestResolveDrugs_TieBreakCrossRefsThenKey(t *testing.T) {
	f := newFakeStore()
	f.drugsByName["ibuprofen"] = []graph.DrugRow{
		{DrugKey: 5, PreferredName: "ibuprofen"},
		{DrugKey: 7, PreferredName: "ibuprofen", ChemblID: sp("CHEMBL521"), DrugcentralID: sp("1397")},
	}
	ts := newTestToolset(f)

	out, err := ts.ResolveDrugs(context.Background(), []string{"ibuprofen"})
	require.NoError(t, err)
	// Richer cross-reference set wins over lower key.
	assert.Equal(t, int64(7), out["ibuprofen"].Key)

	f.drugsByName["naproxen"] = []graph.DrugRow{
		{DrugKey: 9, PreferredName: "naproxen", ChemblID: sp("a")},
		{DrugKey: 3, PreferredName: "naproxen", ChemblID: sp("b")},
	}
	out, err = ts.ResolveDrugs(context.Background(), []string{"naproxen"})
	require.NoError(t, err)
	// Equal cross-refs: lower surrogate key wins.
	assert.Equal(t, int64(3), out["naproxen"].Key)
}

func TestResolveDrugs_EmptyInput(t *testing.T) {
	ts := newTestToolset(newFakeStore())
	_, err := ts.ResolveDrugs(context.Background(), nil)
	te, ok := AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidArgs, te.Kind)
}

func TestResolveDrugs_UpstreamError(t *testing.T) {
	f := newFakeStore()
	f.err = errors.New("connection reset")
	ts := newTestToolset(f)

	_, err := ts.ResolveDrugs(context.Background(), []string{"aspirin"})
	te, ok := AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstream, te.Kind)
}

func TestResolveGenes_SymbolThenHGNC(t *testing.T) {
	f := newFakeStore()
	f.genesBySymbol["PTGS2"] = []graph.GeneRow{{GeneKey: 20, Symbol: "PTGS2", HGNCID: sp("HGNC:9605")}}
	f.genesByHGNC["HGNC:9604"] = []graph.GeneRow{{GeneKey: 19, Symbol: "PTGS1"}}
	ts := newTestToolset(f)

	out, err := ts.ResolveGenes(context.Background(), []string{"PTGS2", "HGNC:9604", "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out["PTGS2"].Key)
	assert.Equal(t, "symbol", out["PTGS2"].Source)
	assert.Equal(t, int64(19), out["HGNC:9604"].Key)
	assert.Equal(t, "hgnc_id", out["HGNC:9604"].Source)
	assert.Nil(t, out["NOPE"])
}

func TestResolveAdverseEvents_SubstringConfidence(t *testing.T) {
	f := newFakeStore()
	f.aesBySub["bleed"] = []graph.AdverseEventRow{{AEKey: 40, Label: "gastrointestinal bleeding"}}
	ts := newTestToolset(f)

	out, err := ts.ResolveAdverseEvents(context.Background(), []string{"bleed"})
	require.NoError(t, err)
	require.NotNil(t, out["bleed"])
	assert.Equal(t, 0.7, out["bleed"].Confidence)
	assert.Equal(t, "label_partial", out["bleed"].Source)
}
