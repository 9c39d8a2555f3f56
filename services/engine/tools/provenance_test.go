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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

func TestGetClaimEvidence(t *testing.T) {
	f := newFakeStore()
	f.claims[100] = &graph.ClaimRow{ClaimKey: 100, Predicate: "TARGETS", Strength: fp(0.9), DatasetID: "drugcentral"}
	f.evidence[100] = []graph.EvidenceRow{
		{EvidenceKey: 1000, ClaimKey: 100, DatasetID: "drugcentral", SourceRecordID: sp("DC-1")},
		{EvidenceKey: 1001, ClaimKey: 100, DatasetID: "chembl", SourceRecordID: sp("CH-2")},
	}
	ts := newTestToolset(f)

	ce, err := ts.GetClaimEvidence(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, ce.Claim)
	assert.Len(t, ce.Evidence, 2)
}

func TestGetClaimEvidence_UnknownClaim(t *testing.T) {
	ts := newTestToolset(newFakeStore())
	ce, err := ts.GetClaimEvidence(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, ce.Claim)
	assert.Empty(t, ce.Evidence)
}

func TestGetEntityClaims_PredicateFilter(t *testing.T) {
	f := newFakeStore()
	f.entityClaims["drug:10"] = []graph.ClaimRow{
		{ClaimKey: 100, Predicate: "TARGETS", DatasetID: "drugcentral"},
		{ClaimKey: 101, Predicate: "CAUSES", DatasetID: "sider"},
		{ClaimKey: 102, Predicate: "TARGETS", DatasetID: "chembl"},
	}
	ts := newTestToolset(f)

	rows, err := ts.GetEntityClaims(context.Background(), "drug", 10, []string{"TARGETS"}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "TARGETS", r.Predicate)
	}
}

func TestGetEntityClaims_UnknownKind(t *testing.T) {
	f := newFakeStore()
	ts := newTestToolset(f)
	_, err := ts.GetEntityClaims(context.Background(), "planet", 10, nil, 0)
	te, ok := AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidArgs, te.Kind)
	assert.Equal(t, 0, f.queries)
}
