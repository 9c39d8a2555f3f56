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

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// fakeStore is an in-memory Store for tool tests. Every lookup also counts
// calls so tests can assert on query behavior.
type fakeStore struct {
	drugsByName     map[string][]graph.DrugRow
	drugsByExtID    map[string][]graph.DrugRow
	drugsBySub      map[string][]graph.DrugRow
	drugsByKey      map[int64]*graph.DrugRow
	genesBySymbol   map[string][]graph.GeneRow
	genesByHGNC     map[string][]graph.GeneRow
	diseasesByLabel map[string][]graph.DiseaseRow
	diseasesByOnto  map[string][]graph.DiseaseRow
	diseasesBySub   map[string][]graph.DiseaseRow
	aesByLabel      map[string][]graph.AdverseEventRow
	aesByCode       map[string][]graph.AdverseEventRow
	aesBySub        map[string][]graph.AdverseEventRow

	targets     map[int64][]graph.TargetRow
	pathways    map[int64][]graph.GenePathwayRow
	geneDisease map[int64][]graph.GeneDiseaseRow
	diseaseGene map[int64][]graph.DiseaseGeneRow
	interactors map[int64][]graph.InteractorRow

	drugAEs  map[int64][]graph.DrugAdverseEventRow
	faers    map[int64][]graph.FAERSSignalRow
	labels   map[int64][]graph.LabelSectionRow
	claims   map[int64]*graph.ClaimRow
	evidence map[int64][]graph.EvidenceRow
	evCounts map[int64]int

	entityClaims map[string][]graph.ClaimRow
	directAE     map[[2]int64][]graph.ClaimRow
	genePathHops map[int64][]graph.TwoHopRow
	geneDisHops  map[int64][]graph.TwoHopRow
	edges        map[string][]graph.EdgeRow

	queries int
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drugsByName:     map[string][]graph.DrugRow{},
		drugsByExtID:    map[string][]graph.DrugRow{},
		drugsBySub:      map[string][]graph.DrugRow{},
		drugsByKey:      map[int64]*graph.DrugRow{},
		genesBySymbol:   map[string][]graph.GeneRow{},
		genesByHGNC:     map[string][]graph.GeneRow{},
		diseasesByLabel: map[string][]graph.DiseaseRow{},
		diseasesByOnto:  map[string][]graph.DiseaseRow{},
		diseasesBySub:   map[string][]graph.DiseaseRow{},
		aesByLabel:      map[string][]graph.AdverseEventRow{},
		aesByCode:       map[string][]graph.AdverseEventRow{},
		aesBySub:        map[string][]graph.AdverseEventRow{},
		targets:         map[int64][]graph.TargetRow{},
		pathways:        map[int64][]graph.GenePathwayRow{},
		geneDisease:     map[int64][]graph.GeneDiseaseRow{},
		diseaseGene:     map[int64][]graph.DiseaseGeneRow{},
		interactors:     map[int64][]graph.InteractorRow{},
		drugAEs:         map[int64][]graph.DrugAdverseEventRow{},
		faers:           map[int64][]graph.FAERSSignalRow{},
		labels:          map[int64][]graph.LabelSectionRow{},
		claims:          map[int64]*graph.ClaimRow{},
		evidence:        map[int64][]graph.EvidenceRow{},
		evCounts:        map[int64]int{},
		entityClaims:    map[string][]graph.ClaimRow{},
		directAE:        map[[2]int64][]graph.ClaimRow{},
		genePathHops:    map[int64][]graph.TwoHopRow{},
		geneDisHops:     map[int64][]graph.TwoHopRow{},
		edges:           map[string][]graph.EdgeRow{},
	}
}

func (f *fakeStore) tick() error {
	f.queries++
	return f.err
}

func (f *fakeStore) DrugExact(_ context.Context, name string) ([]graph.DrugRow, error) {
	return f.drugsByName[name], f.tick()
}

func (f *fakeStore) DrugByExternalID(_ context.Context, id string) ([]graph.DrugRow, error) {
	return f.drugsByExtID[id], f.tick()
}

func (f *fakeStore) DrugSubstring(_ context.Context, fragment string, _ int) ([]graph.DrugRow, error) {
	return f.drugsBySub[fragment], f.tick()
}

func (f *fakeStore) DrugByKey(_ context.Context, key int64) (*graph.DrugRow, error) {
	return f.drugsByKey[key], f.tick()
}

func (f *fakeStore) GeneBySymbol(_ context.Context, symbol string) ([]graph.GeneRow, error) {
	return f.genesBySymbol[symbol], f.tick()
}

func (f *fakeStore) GeneByHGNC(_ context.Context, id string) ([]graph.GeneRow, error) {
	return f.genesByHGNC[id], f.tick()
}

func (f *fakeStore) DiseaseExact(_ context.Context, label string) ([]graph.DiseaseRow, error) {
	return f.diseasesByLabel[label], f.tick()
}

func (f *fakeStore) DiseaseByOntologyID(_ context.Context, id string) ([]graph.DiseaseRow, error) {
	return f.diseasesByOnto[id], f.tick()
}

func (f *fakeStore) DiseaseSubstring(_ context.Context, fragment string, _ int) ([]graph.DiseaseRow, error) {
	return f.diseasesBySub[fragment], f.tick()
}

func (f *fakeStore) AdverseEventExact(_ context.Context, label string) ([]graph.AdverseEventRow, error) {
	return f.aesByLabel[label], f.tick()
}

func (f *fakeStore) AdverseEventByCode(_ context.Context, code string) ([]graph.AdverseEventRow, error) {
	return f.aesByCode[code], f.tick()
}

func (f *fakeStore) AdverseEventSubstring(_ context.Context, fragment string, _ int) ([]graph.AdverseEventRow, error) {
	return f.aesBySub[fragment], f.tick()
}

func (f *fakeStore) TargetsOfDrug(_ context.Context, drugKey int64) ([]graph.TargetRow, error) {
	return f.targets[drugKey], f.tick()
}

func (f *fakeStore) PathwaysOfGene(_ context.Context, geneKey int64) ([]graph.GenePathwayRow, error) {
	return f.pathways[geneKey], f.tick()
}

func (f *fakeStore) DiseasesOfGene(_ context.Context, geneKey int64) ([]graph.GeneDiseaseRow, error) {
	return f.geneDisease[geneKey], f.tick()
}

func (f *fakeStore) GenesOfDisease(_ context.Context, diseaseKey int64) ([]graph.DiseaseGeneRow, error) {
	return f.diseaseGene[diseaseKey], f.tick()
}

func (f *fakeStore) InteractorsOfGene(_ context.Context, geneKey int64) ([]graph.InteractorRow, error) {
	return f.interactors[geneKey], f.tick()
}

func (f *fakeStore) AdverseEventsOfDrug(_ context.Context, drugKey int64) ([]graph.DrugAdverseEventRow, error) {
	return f.drugAEs[drugKey], f.tick()
}

func (f *fakeStore) FAERSSignals(_ context.Context, drugKey int64) ([]graph.FAERSSignalRow, error) {
	return f.faers[drugKey], f.tick()
}

func (f *fakeStore) LabelSections(_ context.Context, drugKey int64, sections []string) ([]graph.LabelSectionRow, error) {
	rows := f.labels[drugKey]
	if len(sections) == 0 {
		return rows, f.tick()
	}
	want := map[string]bool{}
	for _, s := range sections {
		want[s] = true
	}
	var out []graph.LabelSectionRow
	for _, r := range rows {
		if want[r.Section] {
			out = append(out, r)
		}
	}
	return out, f.tick()
}

func (f *fakeStore) ClaimByKey(_ context.Context, claimKey int64) (*graph.ClaimRow, error) {
	return f.claims[claimKey], f.tick()
}

func (f *fakeStore) EvidenceForClaim(_ context.Context, claimKey int64) ([]graph.EvidenceRow, error) {
	return f.evidence[claimKey], f.tick()
}

func (f *fakeStore) EvidenceCounts(_ context.Context, claimKeys []int64) (map[int64]int, error) {
	out := map[int64]int{}
	for _, ck := range claimKeys {
		if n, ok := f.evCounts[ck]; ok {
			out[ck] = n
		}
	}
	return out, f.tick()
}

func (f *fakeStore) ClaimsForEntity(_ context.Context, kind string, key int64) ([]graph.ClaimRow, error) {
	return f.entityClaims[nodeID(kind, key)], f.tick()
}

func (f *fakeStore) DirectDrugAE(_ context.Context, drugKey, aeKey int64) ([]graph.ClaimRow, error) {
	return f.directAE[[2]int64{drugKey, aeKey}], f.tick()
}

func (f *fakeStore) DrugGenePathway(_ context.Context, drugKey int64) ([]graph.TwoHopRow, error) {
	return f.genePathHops[drugKey], f.tick()
}

func (f *fakeStore) DrugGeneDisease(_ context.Context, drugKey int64) ([]graph.TwoHopRow, error) {
	return f.geneDisHops[drugKey], f.tick()
}

func (f *fakeStore) EdgesTouching(_ context.Context, kind string, key int64, _ int) ([]graph.EdgeRow, error) {
	return f.edges[nodeID(kind, key)], f.tick()
}
