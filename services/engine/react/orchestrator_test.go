// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package react

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/dispatch"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
	"github.com/AleutianAI/GraphRx/services/engine/llm"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// fakeLLM serves scripted responses per role. observerErr, when set, fails
// every observer call instead of consuming the script.
type fakeLLM struct {
	planner     []string
	observer    []string
	narrator    []string
	observerErr error

	plannerCalls  int
	observerCalls int
	narratorCalls int

	lastNarratorUser string
}

func (f *fakeLLM) Complete(_ context.Context, role llm.Role, _, user string) (string, error) {
	switch role {
	case llm.RolePlanner:
		if f.plannerCalls >= len(f.planner) {
			return "", fmt.Errorf("no scripted planner response %d", f.plannerCalls)
		}
		r := f.planner[f.plannerCalls]
		f.plannerCalls++
		return r, nil
	case llm.RoleObserver:
		if f.observerErr != nil {
			f.observerCalls++
			return "", f.observerErr
		}
		if f.observerCalls >= len(f.observer) {
			return "", fmt.Errorf("no scripted observer response %d", f.observerCalls)
		}
		r := f.observer[f.observerCalls]
		f.observerCalls++
		return r, nil
	default:
		f.narratorCalls++
		f.lastNarratorUser = user
		if len(f.narrator) == 0 {
			return "scripted answer", nil
		}
		return f.narrator[0], nil
	}
}

// fakeGraph seeds a tiny knowledge graph: aspirin (10) targets PTGS1 (20) in
// the prostaglandin pathway (30), with a direct bleeding (40) claim.
type fakeGraph struct{}

func strength(v float64) *float64 { return &v }

func (fakeGraph) DrugExact(_ context.Context, name string) ([]graph.DrugRow, error) {
	if name == "aspirin" {
		return []graph.DrugRow{{DrugKey: 10, PreferredName: "aspirin"}}, nil
	}
	return nil, nil
}
func (fakeGraph) DrugByExternalID(_ context.Context, _ string) ([]graph.DrugRow, error) {
	return nil, nil
}
func (fakeGraph) DrugSubstring(_ context.Context, _ string, _ int) ([]graph.DrugRow, error) {
	return nil, nil
}
func (fakeGraph) DrugByKey(_ context.Context, key int64) (*graph.DrugRow, error) {
	if key == 10 {
		return &graph.DrugRow{DrugKey: 10, PreferredName: "aspirin"}, nil
	}
	return nil, nil
}
func (fakeGraph) GeneBySymbol(_ context.Context, _ string) ([]graph.GeneRow, error) {
	return nil, nil
}
func (fakeGraph) GeneByHGNC(_ context.Context, _ string) ([]graph.GeneRow, error) {
	return nil, nil
}
func (fakeGraph) DiseaseExact(_ context.Context, _ string) ([]graph.DiseaseRow, error) {
	return nil, nil
}
func (fakeGraph) DiseaseByOntologyID(_ context.Context, _ string) ([]graph.DiseaseRow, error) {
	return nil, nil
}
func (fakeGraph) DiseaseSubstring(_ context.Context, _ string, _ int) ([]graph.DiseaseRow, error) {
	return nil, nil
}
func (fakeGraph) AdverseEventExact(_ context.Context, label string) ([]graph.AdverseEventRow, error) {
	if label == "bleeding" {
		return []graph.AdverseEventRow{{AEKey: 40, Label: "bleeding"}}, nil
	}
	return nil, nil
}
func (fakeGraph) AdverseEventByCode(_ context.Context, _ string) ([]graph.AdverseEventRow, error) {
	return nil, nil
}
func (fakeGraph) AdverseEventSubstring(_ context.Context, _ string, _ int) ([]graph.AdverseEventRow, error) {
	return nil, nil
}
func (fakeGraph) TargetsOfDrug(_ context.Context, key int64) ([]graph.TargetRow, error) {
	if key == 10 {
		return []graph.TargetRow{{GeneKey: 20, Symbol: "PTGS1", ClaimKey: 100, Strength: strength(0.8), DatasetID: "drugcentral"}}, nil
	}
	return nil, nil
}
func (fakeGraph) PathwaysOfGene(_ context.Context, _ int64) ([]graph.GenePathwayRow, error) {
	return nil, nil
}
func (fakeGraph) DiseasesOfGene(_ context.Context, _ int64) ([]graph.GeneDiseaseRow, error) {
	return nil, nil
}
func (fakeGraph) GenesOfDisease(_ context.Context, _ int64) ([]graph.DiseaseGeneRow, error) {
	return nil, nil
}
func (fakeGraph) InteractorsOfGene(_ context.Context, _ int64) ([]graph.InteractorRow, error) {
	return nil, nil
}
func (fakeGraph) AdverseEventsOfDrug(_ context.Context, key int64) ([]graph.DrugAdverseEventRow, error) {
	if key == 10 {
		return []graph.DrugAdverseEventRow{{AEKey: 40, Label: "bleeding", Predicate: "CAUSES", ClaimKey: 300, Strength: strength(0.05), DatasetID: "sider"}}, nil
	}
	return nil, nil
}
func (fakeGraph) FAERSSignals(_ context.Context, _ int64) ([]graph.FAERSSignalRow, error) {
	return nil, nil
}
func (fakeGraph) LabelSections(_ context.Context, _ int64, _ []string) ([]graph.LabelSectionRow, error) {
	return nil, nil
}
func (fakeGraph) ClaimByKey(_ context.Context, _ int64) (*graph.ClaimRow, error) {
	return nil, nil
}
func (fakeGraph) EvidenceForClaim(_ context.Context, _ int64) ([]graph.EvidenceRow, error) {
	return nil, nil
}
func (fakeGraph) EvidenceCounts(_ context.Context, keys []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(keys))
	for _, k := range keys {
		out[k] = 1
	}
	return out, nil
}
func (fakeGraph) ClaimsForEntity(_ context.Context, _ string, _ int64) ([]graph.ClaimRow, error) {
	return nil, nil
}
func (fakeGraph) DirectDrugAE(_ context.Context, _ int64, _ int64) ([]graph.ClaimRow, error) {
	return nil, nil
}
func (fakeGraph) DrugGenePathway(_ context.Context, key int64) ([]graph.TwoHopRow, error) {
	if key == 10 {
		return []graph.TwoHopRow{{
			GeneKey: 20, GeneSymbol: "PTGS1", ContextKey: 30, ContextLabel: "prostaglandin synthesis",
			HeadClaim: 100, HeadStrength: strength(0.8), HeadDataset: "drugcentral",
			TailClaim: 200, TailStrength: strength(0.9), TailDataset: "reactome", TailEdge: "IN_PATHWAY",
		}}, nil
	}
	return nil, nil
}
func (fakeGraph) DrugGeneDisease(_ context.Context, _ int64) ([]graph.TwoHopRow, error) {
	return nil, nil
}
func (fakeGraph) EdgesTouching(_ context.Context, _ string, _ int64, _ int) ([]graph.EdgeRow, error) {
	return nil, nil
}

func newTestOrchestrator(f *fakeLLM) *Orchestrator {
	ts := tools.NewToolset(fakeGraph{}, scoring.NewPolicy(nil, false), logging.Default())
	d := dispatch.New(ts, logging.Default(), time.Second, 30)
	return New(f, d, 3, logging.Default(), nil)
}

const sufficientVerdict = `{"status": "sufficient", "confidence": 0.9, "reasoning": "direct claim found", "can_answer": true}`

func TestRun_SingleDrugAELookup(t *testing.T) {
	f := &fakeLLM{
		planner: []string{
			`{"thought": "resolve then fetch adverse events", "tool_calls": [
				{"tool": "resolve_drugs", "args": {"names": ["aspirin"]}},
				{"tool": "get_drug_adverse_events", "args": {"drug_key": 10}}
			]}`,
		},
		observer: []string{sufficientVerdict},
		narrator: []string{"Aspirin is linked to bleeding in SIDER label data."},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "does aspirin cause bleeding?"})

	assert.Equal(t, datatypes.ReasonSufficient, res.CompletionReason)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, "Aspirin is linked to bleeding in SIDER label data.", res.Summary)
	assert.NotEmpty(t, res.QueryID)
	assert.Equal(t, int64(10), res.Evidence.Drugs["aspirin"])
	assert.Equal(t, int64(40), res.Evidence.AdverseEvents["bleeding"])
	assert.Contains(t, res.Evidence.ClaimIDs, int64(300))
	require.Len(t, res.Trace, 1)
	assert.Len(t, res.Trace[0].ToolCalls, 2)
	assert.Contains(t, f.lastNarratorUser, "aspirin=10")
}

func TestRun_MechanisticPathsRanked(t *testing.T) {
	f := &fakeLLM{
		planner: []string{
			`{"tool_calls": [
				{"tool": "resolve_drugs", "args": {"names": ["aspirin"]}},
				{"tool": "resolve_adverse_events", "args": {"terms": ["bleeding"]}},
				{"tool": "find_drug_to_ae_paths", "args": {"drug_key": 10, "ae_key": 40}}
			]}`,
		},
		observer: []string{sufficientVerdict},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "how could aspirin lead to bleeding?"})

	require.NotEmpty(t, res.Paths)
	// Two-hop mechanistic path outranks the weak direct label claim.
	assert.Equal(t, 3, res.Paths[0].Hops()+1, "top path traverses gene and pathway")
	assert.InDelta(t, 0.8664, res.Paths[0].Score, 1e-9)
	if len(res.Paths) > 1 {
		assert.Greater(t, res.Paths[0].Score, res.Paths[1].Score)
	}
}

func TestRun_UnknownEntityNoFabrication(t *testing.T) {
	f := &fakeLLM{
		planner: []string{
			`{"tool_calls": [{"tool": "resolve_drugs", "args": {"names": ["madeupamab"]}}]}`,
			`{"stop": "no_relevant_tools"}`,
		},
		observer: []string{`{"status": "insufficient", "confidence": 0.9, "reasoning": "drug not in graph"}`},
		narrator: []string{"No evidence for this association was found in the knowledge graph."},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "does madeupamab cause rash?"})

	assert.Equal(t, datatypes.ReasonPlannerStop, res.CompletionReason)
	assert.Contains(t, res.Summary, "No evidence")
	assert.Empty(t, res.Evidence.Drugs, "unresolved names must not produce keys")
	assert.Empty(t, res.Evidence.ClaimIDs)
	assert.Contains(t, f.lastNarratorUser, "none", "narrator sees the empty resolution digest")
}

func TestRun_MalformedPlanRepaired(t *testing.T) {
	f := &fakeLLM{
		planner: []string{
			`{"tool_calls": [}`,
			`{"tool_calls": [{"tool": "resolve_drugs", "args": {"names": ["aspirin"]}}]}`,
		},
		observer: []string{sufficientVerdict},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "aspirin?"})

	assert.Equal(t, 2, f.plannerCalls, "exactly one repair round trip")
	assert.Equal(t, datatypes.ReasonSufficient, res.CompletionReason)
}

func TestRun_MalformedPlanTwiceAborts(t *testing.T) {
	f := &fakeLLM{planner: []string{"not json", "still not json"}}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "aspirin?"})

	assert.Equal(t, datatypes.ReasonError, res.CompletionReason)
	assert.Contains(t, res.Summary, "planning failed")
	assert.Equal(t, 0, f.narratorCalls)
}

func TestRun_BudgetExhaustion(t *testing.T) {
	insufficient := `{"status": "insufficient", "confidence": 0.5, "reasoning": "need more", "gaps": [{"category": "mechanism", "description": "no pathway evidence", "priority": 1, "suggested_tool": "get_gene_pathways"}]}`
	plan := `{"tool_calls": [{"tool": "get_drug_targets", "args": {"drug_key": 10}}]}`
	f := &fakeLLM{
		planner:  []string{plan, plan, plan},
		observer: []string{insufficient, insufficient, insufficient},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "aspirin mechanism?", MaxIterations: 3})

	assert.Equal(t, datatypes.ReasonMaxIterations, res.CompletionReason)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 1, f.narratorCalls, "budget exhaustion still narrates")
	assert.Contains(t, f.lastNarratorUser, "iteration budget ran out")
}

func TestRun_ObserverMalformedTreatedInsufficient(t *testing.T) {
	plan := `{"tool_calls": [{"tool": "get_drug_targets", "args": {"drug_key": 10}}]}`
	f := &fakeLLM{
		planner:  []string{plan, plan},
		observer: []string{"garbage", "more garbage", sufficientVerdict},
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "aspirin?", MaxIterations: 2})

	// First verdict burns the repair retry and is treated insufficient; the
	// loop continues and the second iteration's verdict ends it.
	assert.Equal(t, datatypes.ReasonSufficient, res.CompletionReason)
	assert.Equal(t, 2, res.Iterations)
	require.NotNil(t, res.Trace[0].Verdict)
	assert.Equal(t, datatypes.StatusInsufficient, res.Trace[0].Verdict.Status)
}

func TestRun_ObserverTimeoutEndsWithError(t *testing.T) {
	plan := `{"tool_calls": [{"tool": "get_drug_targets", "args": {"drug_key": 10}}]}`
	f := &fakeLLM{
		planner:     []string{plan, plan},
		observerErr: fmt.Errorf("rpc: %w", context.DeadlineExceeded),
	}
	o := newTestOrchestrator(f)

	res := o.Run(context.Background(), datatypes.QueryRequest{Query: "aspirin?", MaxIterations: 2})

	// A stalled observer is not a malformed one: the loop must not burn the
	// remaining budget against a dead model server.
	assert.Equal(t, datatypes.ReasonError, res.CompletionReason)
	assert.Contains(t, res.Summary, "observation failed")
	assert.Equal(t, 1, f.observerCalls)
	assert.Equal(t, 0, f.narratorCalls)
	require.Len(t, res.Trace, 1)
	assert.Nil(t, res.Trace[0].Verdict)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeLLM{}
	o := newTestOrchestrator(f)

	res := o.Run(ctx, datatypes.QueryRequest{Query: "aspirin?"})

	assert.Equal(t, datatypes.ReasonCancelled, res.CompletionReason)
	assert.Equal(t, 0, f.plannerCalls)
	assert.Equal(t, 0, f.narratorCalls)
}
