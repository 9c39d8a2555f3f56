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
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

func TestGetDrugAdverseEvents_FrequencyFilterAndLimit(t *testing.T) {
	f := newFakeStore()
	f.drugAEs[10] = []graph.DrugAdverseEventRow{
		{AEKey: 1, Label: "nausea", Predicate: "CAUSES", Strength: fp(0.12), ClaimKey: 300, DatasetID: "sider"},
		{AEKey: 2, Label: "headache", Predicate: "CAUSES", Strength: fp(0.05), ClaimKey: 301, DatasetID: "sider"},
		{AEKey: 3, Label: "rare thing", Predicate: "CAUSES", Strength: fp(0.001), ClaimKey: 302, DatasetID: "sider"},
		{AEKey: 4, Label: "unscored", Predicate: "ASSOCIATED_WITH", Strength: nil, ClaimKey: 303, DatasetID: "faers"},
	}
	ts := newTestToolset(f)

	rows, err := ts.GetDrugAdverseEvents(context.Background(), 10, 0.01, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "nausea", rows[0].Label)

	rows, err = ts.GetDrugAdverseEvents(context.Background(), 10, 0, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGetDrugLabelSections_Truncation(t *testing.T) {
	f := newFakeStore()
	f.labels[10] = []graph.LabelSectionRow{
		{DrugKey: 10, Section: "warnings", Body: strings.Repeat("x", maxLabelSectionBytes+500), Source: "openfda"},
		{DrugKey: 10, Section: "adverse_reactions", Body: "short", Source: "openfda"},
	}
	ts := newTestToolset(f)

	rows, err := ts.GetDrugLabelSections(context.Background(), 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0].Body, maxLabelSectionBytes)
	assert.Equal(t, "short", rows[1].Body)
}

func TestGetDrugLabelSections_TruncationKeepsRunesIntact(t *testing.T) {
	f := newFakeStore()
	// A multi-byte rune straddles the byte cap.
	body := strings.Repeat("x", maxLabelSectionBytes-1) + "出血傾向"
	f.labels[10] = []graph.LabelSectionRow{
		{DrugKey: 10, Section: "warnings", Body: body, Source: "openfda"},
	}
	ts := newTestToolset(f)

	rows, err := ts.GetDrugLabelSections(context.Background(), 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.LessOrEqual(t, len(rows[0].Body), maxLabelSectionBytes)
	assert.True(t, utf8.ValidString(rows[0].Body), "truncation must not split a rune")
}

func TestGetDrugFAERSSignals_FiltersAndOrder(t *testing.T) {
	f := newFakeStore()
	f.faers[10] = []graph.FAERSSignalRow{
		{DrugKey: 10, AEKey: 1, AELabel: "many cases low prr", PRR: fp(1.2), CaseCount: 900},
		{DrugKey: 10, AEKey: 2, AELabel: "strong signal", PRR: fp(8.4), CaseCount: 120},
		{DrugKey: 10, AEKey: 3, AELabel: "tiny", PRR: fp(9.9), CaseCount: 2},
	}
	ts := newTestToolset(f)

	rows, err := ts.GetDrugFAERSSignals(context.Background(), 10, 5, 10, 2.0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "strong signal", rows[0].AELabel)

	// No filters: ordered by PRR descending.
	rows, err = ts.GetDrugFAERSSignals(context.Background(), 10, 5, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "tiny", rows[0].AELabel)

	// top_k caps the list.
	rows, err = ts.GetDrugFAERSSignals(context.Background(), 10, 2, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGetDrugProfile(t *testing.T) {
	f := newFakeStore()
	f.drugsByKey[10] = &graph.DrugRow{DrugKey: 10, PreferredName: "aspirin"}
	f.targets[10] = []graph.TargetRow{{GeneKey: 20, Symbol: "PTGS2", ClaimKey: 100, DatasetID: "drugcentral"}}
	for i := 0; i < 25; i++ {
		f.drugAEs[10] = append(f.drugAEs[10], graph.DrugAdverseEventRow{
			AEKey: int64(i + 1), Label: "ae", Predicate: "CAUSES", ClaimKey: int64(300 + i), DatasetID: "sider",
		})
	}
	ts := newTestToolset(f)

	p, err := ts.GetDrugProfile(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, p.Drug)
	assert.Len(t, p.Targets, 1)
	assert.Len(t, p.AdverseEvents, profileTopAEs)
}

func TestGetDrugProfile_UnknownDrug(t *testing.T) {
	ts := newTestToolset(newFakeStore())
	p, err := ts.GetDrugProfile(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, p.Drug)
	assert.Empty(t, p.Targets)
}
