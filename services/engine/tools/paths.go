// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Path finding. Three path shapes are enumerated: direct Drug->AE, and the
// mechanistic two-hops Drug->Gene->Pathway and Drug->Gene->Disease. Paths
// are deduplicated by node sequence, scored, and ranked deterministically.
package tools

import (
	"context"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
)

// defaultMaxPaths bounds path enumeration when the caller gives no cap.
const defaultMaxPaths = 25

// pathCandidate pairs a path skeleton with its scoring inputs before the
// evidence counts are known.
type pathCandidate struct {
	path      datatypes.MechanisticPath
	strengths []*float64
	// diseaseKeys lists the Disease nodes on the path, for context boosting.
	diseaseKeys []int64
}

// enumerate builds the candidate set for one drug. aeKey zero means "all
// adverse events".
func (t *Toolset) enumerate(ctx context.Context, drugKey, aeKey int64) ([]pathCandidate, error) {
	drug, err := t.store.DrugByKey(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	if drug == nil {
		return nil, nil
	}
	drugStep := datatypes.PathStep{NodeKind: "Drug", NodeKey: drug.DrugKey, NodeLabel: drug.PreferredName}

	var cands []pathCandidate
	seen := map[string]bool{}
	add := func(c pathCandidate) {
		sig := c.path.Signature()
		if !seen[sig] {
			seen[sig] = true
			cands = append(cands, c)
		}
	}

	// Direct Drug -> AE.
	aes, err := t.store.AdverseEventsOfDrug(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	for _, ae := range aes {
		if aeKey != 0 && ae.AEKey != aeKey {
			continue
		}
		add(pathCandidate{
			path: datatypes.MechanisticPath{
				Steps: []datatypes.PathStep{
					drugStep,
					{NodeKind: "AdverseEvent", NodeKey: ae.AEKey, NodeLabel: ae.Label, EdgeKind: ae.Predicate},
				},
				ClaimKeys: []int64{ae.ClaimKey},
				Datasets:  []string{ae.DatasetID},
			},
			strengths: []*float64{ae.Strength},
		})
	}

	// Drug -> Gene -> Pathway.
	gps, err := t.store.DrugGenePathway(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	for _, hop := range gps {
		add(pathCandidate{
			path: datatypes.MechanisticPath{
				Steps: []datatypes.PathStep{
					drugStep,
					{NodeKind: "Gene", NodeKey: hop.GeneKey, NodeLabel: hop.GeneSymbol, EdgeKind: "TARGETS"},
					{NodeKind: "Pathway", NodeKey: hop.ContextKey, NodeLabel: hop.ContextLabel, EdgeKind: hop.TailEdge},
				},
				ClaimKeys: []int64{hop.HeadClaim, hop.TailClaim},
				Datasets:  dedupStrings(hop.HeadDataset, hop.TailDataset),
			},
			strengths: []*float64{hop.HeadStrength, hop.TailStrength},
		})
	}

	// Drug -> Gene -> Disease.
	gds, err := t.store.DrugGeneDisease(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	for _, hop := range gds {
		add(pathCandidate{
			path: datatypes.MechanisticPath{
				Steps: []datatypes.PathStep{
					drugStep,
					{NodeKind: "Gene", NodeKey: hop.GeneKey, NodeLabel: hop.GeneSymbol, EdgeKind: "TARGETS"},
					{NodeKind: "Disease", NodeKey: hop.ContextKey, NodeLabel: hop.ContextLabel, EdgeKind: hop.TailEdge},
				},
				ClaimKeys: []int64{hop.HeadClaim, hop.TailClaim},
				Datasets:  dedupStrings(hop.HeadDataset, hop.TailDataset),
			},
			strengths:   []*float64{hop.HeadStrength, hop.TailStrength},
			diseaseKeys: []int64{hop.ContextKey},
		})
	}

	return cands, nil
}

// scorePaths fills in evidence counts, applies the policy, and ranks.
func (t *Toolset) scorePaths(ctx context.Context, cands []pathCandidate, conditionKeys []int64) ([]datatypes.MechanisticPath, error) {
	var allClaims []int64
	for _, c := range cands {
		allClaims = append(allClaims, c.path.ClaimKeys...)
	}
	counts, err := t.store.EvidenceCounts(ctx, allClaims)
	if err != nil {
		return nil, Upstream(err)
	}

	conditions := map[int64]bool{}
	for _, k := range conditionKeys {
		conditions[k] = true
	}

	paths := make([]datatypes.MechanisticPath, 0, len(cands))
	for _, c := range cands {
		evidence := 0
		for _, ck := range c.path.ClaimKeys {
			evidence += counts[ck]
		}
		matched := 0
		seenDisease := map[int64]bool{}
		for _, dk := range c.diseaseKeys {
			if conditions[dk] && !seenDisease[dk] {
				seenDisease[dk] = true
				matched++
			}
		}
		p := c.path
		p.EvidenceCount = evidence
		p.Score = t.policy.Score(scoring.PathFactors{
			Strengths:         c.strengths,
			Hops:              p.Hops(),
			DistinctEvidence:  evidence,
			Datasets:          p.Datasets,
			MatchedConditions: matched,
		})
		paths = append(paths, p)
	}
	scoring.RankPaths(paths)
	return paths, nil
}

// FindDrugToAEPaths enumerates and scores paths from a drug toward adverse
// events. aeKey zero means all AEs; a nonexistent drug returns no paths.
func (t *Toolset) FindDrugToAEPaths(ctx context.Context, drugKey, aeKey int64, maxPaths int) ([]datatypes.MechanisticPath, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	if aeKey < 0 {
		return nil, InvalidArgs("ae_key must be positive when given, got %d", aeKey)
	}
	maxPaths = capInt(maxPaths, defaultMaxPaths, MaxItemsPerTool)

	cands, err := t.enumerate(ctx, drugKey, aeKey)
	if err != nil {
		return nil, err
	}
	paths, err := t.scorePaths(ctx, cands, nil)
	if err != nil {
		return nil, err
	}
	if len(paths) > maxPaths {
		paths = paths[:maxPaths]
	}
	return paths, nil
}

// ExplainPaths is path finding with patient-condition context boosting: a
// path touching one of the caller's condition diseases scores higher.
func (t *Toolset) ExplainPaths(ctx context.Context, drugKey, aeKey int64, conditionKeys []int64, topK int) ([]datatypes.MechanisticPath, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	if aeKey < 0 {
		return nil, InvalidArgs("ae_key must be positive when given, got %d", aeKey)
	}
	topK = capInt(topK, defaultMaxPaths, MaxItemsPerTool)

	cands, err := t.enumerate(ctx, drugKey, aeKey)
	if err != nil {
		return nil, err
	}
	paths, err := t.scorePaths(ctx, cands, conditionKeys)
	if err != nil {
		return nil, err
	}
	if len(paths) > topK {
		paths = paths[:topK]
	}
	return paths, nil
}

func dedupStrings(vals ...string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
