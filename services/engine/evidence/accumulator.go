// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evidence accumulates everything a query's tool calls observe, so
// the final narrative can cite only data that actually came back from the
// graph.
//
// # Thread Safety
//
// A Pack belongs to exactly one in-flight query and is not safe for
// concurrent use; the reasoning loop is sequential by design.
package evidence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// Pack is the rolling accumulator for one query.
type Pack struct {
	Query string

	// Resolved-entity maps, display name -> key. Merged across iterations;
	// a name that resolved once is never re-queried.
	Drugs         map[string]int64
	Genes         map[string]int64
	Diseases      map[string]int64
	AdverseEvents map[string]int64

	// Subgraph fragments accumulated from traversal results.
	nodes map[string]datatypes.Node
	edges map[string]datatypes.Edge

	// Paths keyed by node-sequence signature.
	paths map[string]datatypes.MechanisticPath

	// Provenance identifier sets.
	claimIDs    map[int64]bool
	evidenceIDs map[int64]bool
	datasetIDs  map[string]bool

	// FAERSSignals keeps per-AE disproportionality numbers for the narrator.
	FAERSSignals []graph.FAERSSignalRow

	// LabelSections keeps label prose keyed by section name.
	LabelSections map[string]string

	// Calls is the compact log of every tool call across all iterations.
	Calls []datatypes.ToolCallLog
}

// NewPack creates an empty accumulator for one query.
func NewPack(query string) *Pack {
	return &Pack{
		Query:         query,
		Drugs:         map[string]int64{},
		Genes:         map[string]int64{},
		Diseases:      map[string]int64{},
		AdverseEvents: map[string]int64{},
		nodes:         map[string]datatypes.Node{},
		edges:         map[string]datatypes.Edge{},
		paths:         map[string]datatypes.MechanisticPath{},
		claimIDs:      map[int64]bool{},
		evidenceIDs:   map[int64]bool{},
		datasetIDs:    map[string]bool{},
		LabelSections: map[string]string{},
	}
}

// =============================================================================
// Resolution
// =============================================================================

// resolvedMap returns the name->key map for an entity kind, nil for unknown
// kinds.
func (p *Pack) resolvedMap(kind string) map[string]int64 {
	switch kind {
	case "drug":
		return p.Drugs
	case "gene":
		return p.Genes
	case "disease":
		return p.Diseases
	case "adverse_event":
		return p.AdverseEvents
	}
	return nil
}

// ResolvedKey reports whether a name already resolved in an earlier
// iteration of this query.
func (p *Pack) ResolvedKey(kind, name string) (int64, bool) {
	m := p.resolvedMap(kind)
	if m == nil {
		return 0, false
	}
	k, ok := m[name]
	return k, ok
}

// AddResolution merges a resolver result. Null resolutions are not recorded:
// an absent name must stay absent so the narrator cannot cite it.
func (p *Pack) AddResolution(kind string, result map[string]*datatypes.ResolvedEntity) {
	m := p.resolvedMap(kind)
	if m == nil {
		return
	}
	for name, e := range result {
		if e != nil {
			m[name] = e.Key
		}
	}
}

// =============================================================================
// Absorption
// =============================================================================

// noteClaim records a claim key and its dataset.
func (p *Pack) noteClaim(claimKey int64, datasetID string) {
	if claimKey != 0 {
		p.claimIDs[claimKey] = true
	}
	if datasetID != "" {
		p.datasetIDs[datasetID] = true
	}
}

// Absorb routes a typed tool result into the accumulator. Unrecognized
// result types are ignored; the call log still records them.
func (p *Pack) Absorb(result any) {
	switch r := result.(type) {
	case []graph.TargetRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case []graph.GenePathwayRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case []graph.GeneDiseaseRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case []graph.DiseaseGeneRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case []graph.InteractorRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case []graph.DrugAdverseEventRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
			p.AdverseEvents[row.Label] = row.AEKey
		}
	case []graph.ClaimRow:
		for _, row := range r {
			p.noteClaim(row.ClaimKey, row.DatasetID)
		}
	case *tools.ClaimEvidence:
		if r.Claim != nil {
			p.noteClaim(r.Claim.ClaimKey, r.Claim.DatasetID)
		}
		for _, ev := range r.Evidence {
			p.evidenceIDs[ev.EvidenceKey] = true
			p.datasetIDs[ev.DatasetID] = true
		}
	case *tools.MechanismExpansion:
		if r == nil {
			return
		}
		p.Absorb(r.Targets)
		p.Absorb(r.Pathways)
	case []tools.GeneContext:
		for _, gc := range r {
			p.Absorb(gc.Pathways)
			p.Absorb(gc.Diseases)
		}
	case *tools.DrugProfile:
		if r == nil {
			return
		}
		p.Absorb(r.Targets)
		p.Absorb(r.AdverseEvents)
		if r.Drug != nil {
			p.Drugs[r.Drug.PreferredName] = r.Drug.DrugKey
		}
	case []graph.FAERSSignalRow:
		p.FAERSSignals = append(p.FAERSSignals, r...)
		for _, s := range r {
			p.AdverseEvents[s.AELabel] = s.AEKey
			p.datasetIDs["faers"] = true
		}
	case []graph.LabelSectionRow:
		for _, s := range r {
			p.LabelSections[s.Section] = s.Body
			p.datasetIDs[s.Source] = true
		}
	case []datatypes.MechanisticPath:
		for _, path := range r {
			p.paths[path.Signature()] = path
			for _, ck := range path.ClaimKeys {
				p.claimIDs[ck] = true
			}
			for _, ds := range path.Datasets {
				p.datasetIDs[ds] = true
			}
		}
	case *datatypes.Subgraph:
		if r == nil {
			return
		}
		for _, n := range r.Nodes {
			p.nodes[n.ID] = n
		}
		for _, e := range r.Edges {
			p.edges[e.Source+"|"+e.Kind+"|"+e.Target] = e
			p.noteClaim(edgeClaimKey(e), "")
		}
	}
}

// edgeClaimKey reads an edge's claim_key property. The subgraph builder
// stores it as int64; a subgraph that round-tripped through planner JSON
// carries it as float64.
func edgeClaimKey(e datatypes.Edge) int64 {
	switch v := e.Properties["claim_key"].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// RecordCall appends a compact tool-call entry to the cross-iteration log.
func (p *Pack) RecordCall(call datatypes.ToolCallLog) {
	p.Calls = append(p.Calls, call)
}

// =============================================================================
// Output views
// =============================================================================

// Paths returns the accumulated paths, best score first.
func (p *Pack) Paths() []datatypes.MechanisticPath {
	out := make([]datatypes.MechanisticPath, 0, len(p.paths))
	for _, path := range p.paths {
		out = append(out, path)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Signature() < out[j].Signature()
	})
	return out
}

// Subgraph returns the accumulated subgraph fragments, nil when empty.
func (p *Pack) Subgraph() *datatypes.Subgraph {
	if len(p.nodes) == 0 && len(p.edges) == 0 {
		return nil
	}
	sub := &datatypes.Subgraph{}
	ids := make([]string, 0, len(p.nodes))
	for id := range p.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sub.Nodes = append(sub.Nodes, p.nodes[id])
	}
	eids := make([]string, 0, len(p.edges))
	for id := range p.edges {
		eids = append(eids, id)
	}
	sort.Strings(eids)
	for _, id := range eids {
		sub.Edges = append(sub.Edges, p.edges[id])
	}
	return sub
}

// Summary builds the provenance slice of the final result.
func (p *Pack) Summary() datatypes.EvidenceSummary {
	s := datatypes.EvidenceSummary{
		Drugs:         p.Drugs,
		Genes:         p.Genes,
		Diseases:      p.Diseases,
		AdverseEvents: p.AdverseEvents,
	}
	for id := range p.claimIDs {
		s.ClaimIDs = append(s.ClaimIDs, id)
	}
	for id := range p.evidenceIDs {
		s.EvidenceIDs = append(s.EvidenceIDs, id)
	}
	for id := range p.datasetIDs {
		s.DatasetIDs = append(s.DatasetIDs, id)
	}
	sort.Slice(s.ClaimIDs, func(i, j int) bool { return s.ClaimIDs[i] < s.ClaimIDs[j] })
	sort.Slice(s.EvidenceIDs, func(i, j int) bool { return s.EvidenceIDs[i] < s.EvidenceIDs[j] })
	sort.Strings(s.DatasetIDs)
	return s
}

// ResolvedDigest renders the resolved-entity maps for prompt injection.
// These are carried verbatim into every planner prompt so later iterations
// can substitute keys without re-resolving.
func (p *Pack) ResolvedDigest() string {
	var b strings.Builder
	write := func(label string, m map[string]int64) {
		if len(m) == 0 {
			return
		}
		names := make([]string, 0, len(m))
		for n := range m {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "%s:", label)
		for _, n := range names {
			fmt.Fprintf(&b, " %s=%d", n, m[n])
		}
		b.WriteByte('\n')
	}
	write("drugs", p.Drugs)
	write("genes", p.Genes)
	write("diseases", p.Diseases)
	write("adverse_events", p.AdverseEvents)
	if b.Len() == 0 {
		return "none\n"
	}
	return b.String()
}
