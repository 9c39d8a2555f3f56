// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scoring ranks mechanistic paths and graph edges.
//
// # Description
//
// Path scores are deterministic: the same evidence always produces the same
// score and the same ordering. A path score starts from the weakest claim
// strength along the path, decays per hop, and picks up multiplicative
// bonuses for corroborating evidence and for touching the patient's known
// conditions. Scores are clamped to [0,1].
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultStrength substitutes for claims whose source dataset carries no
	// quantitative strength.
	DefaultStrength = 0.5

	// HopDecay is the per-hop multiplicative penalty.
	HopDecay = 0.95

	// EvidenceBonus applies once when a path is backed by more than one
	// distinct evidence record.
	EvidenceBonus = 1.2

	// ConditionBoost applies once per distinct patient condition the path
	// touches.
	ConditionBoost = 1.5
)

// defaultSourceWeights is the built-in dataset reliability table. Curated
// pharmacology sources rank above text-mined and spontaneous-report sources.
var defaultSourceWeights = map[string]float64{
	"drugcentral": 1.00,
	"opentargets": 0.95,
	"chembl":      0.90,
	"reactome":    0.90,
	"gtop":        0.85,
	"clingen":     0.85,
	"sider":       0.80,
	"hpo":         0.70,
	"ctd":         0.70,
	"string":      0.60,
	"faers":       0.50,
	"openfda":     0.50,
}

// defaultEdgeWeights ranks edge categories for edge scoring.
var defaultEdgeWeights = map[string]float64{
	"TARGETS":         1.0,
	"IN_PATHWAY":      0.9,
	"ASSOCIATED_WITH": 0.8,
	"CAUSES":          0.7,
}

// unknownEdgeWeight applies to any predicate outside the category table.
const unknownEdgeWeight = 0.5

// =============================================================================
// Policy
// =============================================================================

// Policy holds the tunable parts of the scoring formula.
//
// The zero value is not usable; construct with NewPolicy.
type Policy struct {
	sourceWeights   map[string]float64
	useSourceWeight bool
}

// NewPolicy builds a policy. overrides, when non-nil, replaces entries of the
// built-in source-weight table; unknown datasets default to DefaultStrength.
// useSourceWeight enables the mean source-weight multiplier, off by default
// because it double-counts reliability when strengths already encode it.
func NewPolicy(overrides map[string]float64, useSourceWeight bool) *Policy {
	weights := make(map[string]float64, len(defaultSourceWeights))
	for k, v := range defaultSourceWeights {
		weights[k] = v
	}
	for k, v := range overrides {
		weights[k] = v
	}
	return &Policy{sourceWeights: weights, useSourceWeight: useSourceWeight}
}

// SourceWeight returns the reliability weight for a dataset.
func (p *Policy) SourceWeight(datasetID string) float64 {
	if w, ok := p.sourceWeights[strings.ToLower(datasetID)]; ok {
		return w
	}
	return DefaultStrength
}

// EdgeWeight returns the category weight for an edge predicate.
func EdgeWeight(predicate string) float64 {
	if w, ok := defaultEdgeWeights[predicate]; ok {
		return w
	}
	return unknownEdgeWeight
}

// =============================================================================
// Path scoring
// =============================================================================

// PathFactors carries everything the formula needs about one path.
type PathFactors struct {
	// Strengths holds the per-claim strength values along the path; nil
	// entries stand in for claims without a quantitative strength.
	Strengths []*float64

	// Hops is the number of edges traversed.
	Hops int

	// DistinctEvidence counts distinct evidence records backing the path's
	// claims.
	DistinctEvidence int

	// Datasets lists the distinct dataset IDs contributing claims.
	Datasets []string

	// MatchedConditions counts distinct patient conditions the path touches.
	MatchedConditions int
}

// Score computes the path score.
//
// The base is the weakest claim strength on the path, so one flimsy link
// caps the whole chain. Hop decay, the corroboration bonus, and the
// condition boost multiply on top, then the optional mean source weight,
// then a clamp to [0,1].
func (p *Policy) Score(f PathFactors) float64 {
	base := DefaultStrength
	if len(f.Strengths) > 0 {
		base = math.Inf(1)
		for _, s := range f.Strengths {
			v := DefaultStrength
			if s != nil {
				v = *s
			}
			if v < base {
				base = v
			}
		}
	}

	score := base * math.Pow(HopDecay, float64(f.Hops))
	if f.DistinctEvidence > 1 {
		score *= EvidenceBonus
	}
	for i := 0; i < f.MatchedConditions; i++ {
		score *= ConditionBoost
	}
	if p.useSourceWeight && len(f.Datasets) > 0 {
		var sum float64
		for _, d := range f.Datasets {
			sum += p.SourceWeight(d)
		}
		score *= sum / float64(len(f.Datasets))
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// =============================================================================
// Ranking
// =============================================================================

// RankPaths sorts paths by score descending with a stable, fully
// deterministic tie order: shorter paths first, then fewer distinct
// datasets, then the lexicographic node-key signature.
func RankPaths(paths []datatypes.MechanisticPath) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := &paths[i], &paths[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Steps) != len(b.Steps) {
			return len(a.Steps) < len(b.Steps)
		}
		if len(a.Datasets) != len(b.Datasets) {
			return len(a.Datasets) < len(b.Datasets)
		}
		return a.Signature() < b.Signature()
	})
}
