// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Subgraph assembly for visualization. Output is bounded by per-category
// caps so the result stays O(drugs x cap) no matter how connected a drug is.
package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
)

// defaultCategoryCap bounds edges per category per drug.
const defaultCategoryCap = 10

// SubgraphOptions selects which edge categories BuildSubgraph includes.
type SubgraphOptions struct {
	IncludeTargets       bool
	IncludePathways      bool
	IncludeDiseases      bool
	IncludeAdverseEvents bool
	MaxPerCategory       int
	MinDiseaseScore      float64
}

// subgraphBuilder accumulates nodes and edges with deduplication.
type subgraphBuilder struct {
	nodes map[string]datatypes.Node
	edges map[string]datatypes.Edge
	order []string
}

func newSubgraphBuilder() *subgraphBuilder {
	return &subgraphBuilder{
		nodes: map[string]datatypes.Node{},
		edges: map[string]datatypes.Edge{},
	}
}

func nodeID(kind string, key int64) string {
	return fmt.Sprintf("%s:%d", kind, key)
}

func (b *subgraphBuilder) addNode(kind string, key int64, label string) string {
	id := nodeID(kind, key)
	if _, ok := b.nodes[id]; !ok {
		b.nodes[id] = datatypes.Node{ID: id, Kind: kind, Label: label}
		b.order = append(b.order, id)
	}
	return id
}

func (b *subgraphBuilder) addEdge(src, dst, kind string, claimKey int64, strength *float64) {
	id := fmt.Sprintf("%s|%s|%s", src, kind, dst)
	if _, ok := b.edges[id]; ok {
		return
	}
	props := map[string]any{"claim_key": claimKey}
	if strength != nil {
		props["strength"] = *strength
	}
	b.edges[id] = datatypes.Edge{Source: src, Target: dst, Kind: kind, Properties: props}
}

func (b *subgraphBuilder) build() *datatypes.Subgraph {
	sub := &datatypes.Subgraph{
		Nodes: make([]datatypes.Node, 0, len(b.nodes)),
		Edges: make([]datatypes.Edge, 0, len(b.edges)),
	}
	for _, id := range b.order {
		sub.Nodes = append(sub.Nodes, b.nodes[id])
	}
	// Deterministic edge order: by synthetic edge ID.
	ids := make([]string, 0, len(b.edges))
	for id := range b.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sub.Edges = append(sub.Edges, b.edges[id])
	}
	return sub
}

// BuildSubgraph assembles a bounded subgraph around the given drugs.
func (t *Toolset) BuildSubgraph(ctx context.Context, drugKeys []int64, opts SubgraphOptions) (*datatypes.Subgraph, error) {
	if len(drugKeys) == 0 {
		return nil, InvalidArgs("drug_keys must be non-empty")
	}
	if opts.MinDiseaseScore < 0 || opts.MinDiseaseScore > 1 {
		return nil, InvalidArgs("min_disease_score must be in [0,1], got %f", opts.MinDiseaseScore)
	}
	perCat := capInt(opts.MaxPerCategory, defaultCategoryCap, MaxItemsPerTool)

	b := newSubgraphBuilder()
	for _, dk := range drugKeys {
		drug, err := t.store.DrugByKey(ctx, dk)
		if err != nil {
			return nil, Upstream(err)
		}
		if drug == nil {
			continue
		}
		drugID := b.addNode("Drug", drug.DrugKey, drug.PreferredName)

		var geneIDs []string
		var geneKeys []int64
		if opts.IncludeTargets {
			targets, err := t.store.TargetsOfDrug(ctx, dk)
			if err != nil {
				return nil, Upstream(err)
			}
			for i, tgt := range targets {
				if i >= perCat {
					break
				}
				gid := b.addNode("Gene", tgt.GeneKey, tgt.Symbol)
				b.addEdge(drugID, gid, "TARGETS", tgt.ClaimKey, tgt.Strength)
				geneIDs = append(geneIDs, gid)
				geneKeys = append(geneKeys, tgt.GeneKey)
			}
		}

		if opts.IncludePathways {
			for i, gk := range geneKeys {
				pws, err := t.store.PathwaysOfGene(ctx, gk)
				if err != nil {
					return nil, Upstream(err)
				}
				for j, pw := range pws {
					if j >= perCat {
						break
					}
					pid := b.addNode("Pathway", pw.PathwayKey, pw.Name)
					b.addEdge(geneIDs[i], pid, "IN_PATHWAY", pw.ClaimKey, nil)
				}
			}
		}

		if opts.IncludeDiseases {
			for i, gk := range geneKeys {
				ds, err := t.store.DiseasesOfGene(ctx, gk)
				if err != nil {
					return nil, Upstream(err)
				}
				kept := 0
				for _, d := range ds {
					if opts.MinDiseaseScore > 0 && (d.Strength == nil || *d.Strength < opts.MinDiseaseScore) {
						continue
					}
					did := b.addNode("Disease", d.DiseaseKey, d.Label)
					b.addEdge(geneIDs[i], did, "ASSOCIATED_WITH", d.ClaimKey, d.Strength)
					kept++
					if kept >= perCat {
						break
					}
				}
			}
		}

		if opts.IncludeAdverseEvents {
			aes, err := t.store.AdverseEventsOfDrug(ctx, dk)
			if err != nil {
				return nil, Upstream(err)
			}
			for i, ae := range aes {
				if i >= perCat {
					break
				}
				aid := b.addNode("AdverseEvent", ae.AEKey, ae.Label)
				b.addEdge(drugID, aid, ae.Predicate, ae.ClaimKey, ae.Strength)
			}
		}
	}
	return b.build(), nil
}

// ScoreEdges annotates a subgraph's edges with category weights. An edge
// carrying a strength property gets weight = category weight * strength.
func (t *Toolset) ScoreEdges(sub *datatypes.Subgraph, overrides map[string]float64) (*datatypes.Subgraph, error) {
	if sub == nil {
		return nil, InvalidArgs("subgraph is required")
	}
	for _, w := range overrides {
		if w < 0 || w > 1 {
			return nil, InvalidArgs("edge weight overrides must be in [0,1]")
		}
	}
	out := &datatypes.Subgraph{Nodes: sub.Nodes, Edges: make([]datatypes.Edge, len(sub.Edges))}
	copy(out.Edges, sub.Edges)
	for i := range out.Edges {
		e := &out.Edges[i]
		w, ok := overrides[e.Kind]
		if !ok {
			w = scoring.EdgeWeight(e.Kind)
		}
		if s, ok := e.Properties["strength"].(float64); ok {
			w *= s
		}
		if w > 1 {
			w = 1
		}
		e.Weight = w
	}
	return out, nil
}
