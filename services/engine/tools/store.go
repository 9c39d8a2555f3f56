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

// Store is the read surface the tool library needs from the knowledge graph.
// *graph.Gateway satisfies it; tests substitute a fake.
type Store interface {
	DrugExact(ctx context.Context, name string) ([]graph.DrugRow, error)
	DrugByExternalID(ctx context.Context, id string) ([]graph.DrugRow, error)
	DrugSubstring(ctx context.Context, fragment string, limit int) ([]graph.DrugRow, error)
	DrugByKey(ctx context.Context, key int64) (*graph.DrugRow, error)

	GeneBySymbol(ctx context.Context, symbol string) ([]graph.GeneRow, error)
	GeneByHGNC(ctx context.Context, hgncID string) ([]graph.GeneRow, error)

	DiseaseExact(ctx context.Context, label string) ([]graph.DiseaseRow, error)
	DiseaseByOntologyID(ctx context.Context, id string) ([]graph.DiseaseRow, error)
	DiseaseSubstring(ctx context.Context, fragment string, limit int) ([]graph.DiseaseRow, error)

	AdverseEventExact(ctx context.Context, label string) ([]graph.AdverseEventRow, error)
	AdverseEventByCode(ctx context.Context, code string) ([]graph.AdverseEventRow, error)
	AdverseEventSubstring(ctx context.Context, fragment string, limit int) ([]graph.AdverseEventRow, error)

	TargetsOfDrug(ctx context.Context, drugKey int64) ([]graph.TargetRow, error)
	PathwaysOfGene(ctx context.Context, geneKey int64) ([]graph.GenePathwayRow, error)
	DiseasesOfGene(ctx context.Context, geneKey int64) ([]graph.GeneDiseaseRow, error)
	GenesOfDisease(ctx context.Context, diseaseKey int64) ([]graph.DiseaseGeneRow, error)
	InteractorsOfGene(ctx context.Context, geneKey int64) ([]graph.InteractorRow, error)

	AdverseEventsOfDrug(ctx context.Context, drugKey int64) ([]graph.DrugAdverseEventRow, error)
	FAERSSignals(ctx context.Context, drugKey int64) ([]graph.FAERSSignalRow, error)
	LabelSections(ctx context.Context, drugKey int64, sections []string) ([]graph.LabelSectionRow, error)

	ClaimByKey(ctx context.Context, claimKey int64) (*graph.ClaimRow, error)
	EvidenceForClaim(ctx context.Context, claimKey int64) ([]graph.EvidenceRow, error)
	EvidenceCounts(ctx context.Context, claimKeys []int64) (map[int64]int, error)
	ClaimsForEntity(ctx context.Context, kind string, key int64) ([]graph.ClaimRow, error)
	DirectDrugAE(ctx context.Context, drugKey, aeKey int64) ([]graph.ClaimRow, error)

	DrugGenePathway(ctx context.Context, drugKey int64) ([]graph.TwoHopRow, error)
	DrugGeneDisease(ctx context.Context, drugKey int64) ([]graph.TwoHopRow, error)
	EdgesTouching(ctx context.Context, kind string, key int64, limit int) ([]graph.EdgeRow, error)
}
