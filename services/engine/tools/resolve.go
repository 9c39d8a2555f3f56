// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Entity resolution. Each resolver tries a fixed cascade of matching
// attempts and returns name -> entity-or-nil. Within one attempt, ties are
// broken by cross-reference richness, then by lower surrogate key.
package tools

import (
	"context"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// Match-attempt confidence levels.
const (
	confExact      = 1.0
	confExternalID = 0.95
	confDrugSub    = 0.8
	confLabelSub   = 0.7
)

// candidate pairs an entity with its tie-break rank.
type candidate struct {
	entity    datatypes.ResolvedEntity
	crossRefs int
}

// pick selects the winning candidate: most cross-references, then lowest key.
func pick(cands []candidate) *datatypes.ResolvedEntity {
	if len(cands) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].crossRefs > cands[best].crossRefs ||
			(cands[i].crossRefs == cands[best].crossRefs &&
				cands[i].entity.Key < cands[best].entity.Key) {
			best = i
		}
	}
	e := cands[best].entity
	return &e
}

func drugCandidates(rows []graph.DrugRow, source string, conf float64) []candidate {
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		refs := 0
		if r.ChemblID != nil {
			refs++
		}
		if r.DrugcentralID != nil {
			refs++
		}
		if r.InchiKey != nil {
			refs++
		}
		out = append(out, candidate{
			entity: datatypes.ResolvedEntity{
				Key: r.DrugKey, Name: r.PreferredName, Source: source, Confidence: conf,
			},
			crossRefs: refs,
		})
	}
	return out
}

// ResolveDrugs resolves each name through exact preferred-name match, then
// external identifiers, then substring.
func (t *Toolset) ResolveDrugs(ctx context.Context, names []string) (map[string]*datatypes.ResolvedEntity, error) {
	if len(names) == 0 {
		return nil, InvalidArgs("names must be non-empty")
	}
	out := make(map[string]*datatypes.ResolvedEntity, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rows, err := t.store.DrugExact(ctx, name)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(drugCandidates(rows, "preferred_name", confExact)); e != nil {
			out[name] = e
			continue
		}
		rows, err = t.store.DrugByExternalID(ctx, name)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(drugCandidates(rows, "external_id", confExternalID)); e != nil {
			out[name] = e
			continue
		}
		rows, err = t.store.DrugSubstring(ctx, name, substringLimit)
		if err != nil {
			return nil, Upstream(err)
		}
		out[name] = pick(drugCandidates(rows, "preferred_name_partial", confDrugSub))
	}
	return out, nil
}

func geneCandidates(rows []graph.GeneRow, source string, conf float64) []candidate {
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		refs := 0
		if r.HGNCID != nil {
			refs++
		}
		if r.Name != nil {
			refs++
		}
		out = append(out, candidate{
			entity: datatypes.ResolvedEntity{
				Key: r.GeneKey, Name: r.Symbol, Source: source, Confidence: conf,
			},
			crossRefs: refs,
		})
	}
	return out
}

// ResolveGenes resolves gene symbols, falling back to nomenclature IDs.
// There is no fuzzy attempt: gene symbols are short enough that substring
// matching produces junk.
func (t *Toolset) ResolveGenes(ctx context.Context, symbols []string) (map[string]*datatypes.ResolvedEntity, error) {
	if len(symbols) == 0 {
		return nil, InvalidArgs("symbols must be non-empty")
	}
	out := make(map[string]*datatypes.ResolvedEntity, len(symbols))
	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		rows, err := t.store.GeneBySymbol(ctx, sym)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(geneCandidates(rows, "symbol", confExact)); e != nil {
			out[sym] = e
			continue
		}
		rows, err = t.store.GeneByHGNC(ctx, sym)
		if err != nil {
			return nil, Upstream(err)
		}
		out[sym] = pick(geneCandidates(rows, "hgnc_id", confExternalID))
	}
	return out, nil
}

func diseaseCandidates(rows []graph.DiseaseRow, source string, conf float64) []candidate {
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		refs := 0
		if r.OntologyID != nil {
			refs++
		}
		out = append(out, candidate{
			entity: datatypes.ResolvedEntity{
				Key: r.DiseaseKey, Name: r.Label, Source: source, Confidence: conf,
			},
			crossRefs: refs,
		})
	}
	return out
}

// ResolveDiseases resolves disease labels, then ontology IDs, then substring.
func (t *Toolset) ResolveDiseases(ctx context.Context, terms []string) (map[string]*datatypes.ResolvedEntity, error) {
	if len(terms) == 0 {
		return nil, InvalidArgs("terms must be non-empty")
	}
	out := make(map[string]*datatypes.ResolvedEntity, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		rows, err := t.store.DiseaseExact(ctx, term)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(diseaseCandidates(rows, "label", confExact)); e != nil {
			out[term] = e
			continue
		}
		rows, err = t.store.DiseaseByOntologyID(ctx, term)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(diseaseCandidates(rows, "ontology_id", confExternalID)); e != nil {
			out[term] = e
			continue
		}
		rows, err = t.store.DiseaseSubstring(ctx, term, substringLimit)
		if err != nil {
			return nil, Upstream(err)
		}
		out[term] = pick(diseaseCandidates(rows, "label_partial", confLabelSub))
	}
	return out, nil
}

func aeCandidates(rows []graph.AdverseEventRow, source string, conf float64) []candidate {
	out := make([]candidate, 0, len(rows))
	for _, r := range rows {
		refs := 0
		if r.MeddraCode != nil {
			refs++
		}
		out = append(out, candidate{
			entity: datatypes.ResolvedEntity{
				Key: r.AEKey, Name: r.Label, Source: source, Confidence: conf,
			},
			crossRefs: refs,
		})
	}
	return out
}

// ResolveAdverseEvents resolves AE labels, then MedDRA codes, then substring.
func (t *Toolset) ResolveAdverseEvents(ctx context.Context, terms []string) (map[string]*datatypes.ResolvedEntity, error) {
	if len(terms) == 0 {
		return nil, InvalidArgs("terms must be non-empty")
	}
	out := make(map[string]*datatypes.ResolvedEntity, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		rows, err := t.store.AdverseEventExact(ctx, term)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(aeCandidates(rows, "label", confExact)); e != nil {
			out[term] = e
			continue
		}
		rows, err = t.store.AdverseEventByCode(ctx, term)
		if err != nil {
			return nil, Upstream(err)
		}
		if e := pick(aeCandidates(rows, "meddra_code", confExternalID)); e != nil {
			out[term] = e
			continue
		}
		rows, err = t.store.AdverseEventSubstring(ctx, term, substringLimit)
		if err != nil {
			return nil, Upstream(err)
		}
		out[term] = pick(aeCandidates(rows, "label_partial", confLabelSub))
	}
	return out, nil
}
