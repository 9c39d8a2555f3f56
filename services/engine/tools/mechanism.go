// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Mechanism traversal tools: targets, pathways, disease associations,
// interactors, and the two composite expansion tools.
package tools

import (
	"context"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// GetDrugTargets lists the genes a drug targets.
func (t *Toolset) GetDrugTargets(ctx context.Context, drugKey int64) ([]graph.TargetRow, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	rows, err := t.store.TargetsOfDrug(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	return rows, nil
}

// GetGenePathways lists the pathways a gene participates in.
func (t *Toolset) GetGenePathways(ctx context.Context, geneKey int64) ([]graph.GenePathwayRow, error) {
	if geneKey <= 0 {
		return nil, InvalidArgs("gene_key must be positive, got %d", geneKey)
	}
	rows, err := t.store.PathwaysOfGene(ctx, geneKey)
	if err != nil {
		return nil, Upstream(err)
	}
	return rows, nil
}

// GetGeneDiseases lists diseases associated with a gene, filtered by a
// minimum association strength. Claims without a strength pass the filter
// only when minScore is zero.
func (t *Toolset) GetGeneDiseases(ctx context.Context, geneKey int64, minScore float64) ([]graph.GeneDiseaseRow, error) {
	if geneKey <= 0 {
		return nil, InvalidArgs("gene_key must be positive, got %d", geneKey)
	}
	if minScore < 0 || minScore > 1 {
		return nil, InvalidArgs("min_score must be in [0,1], got %f", minScore)
	}
	rows, err := t.store.DiseasesOfGene(ctx, geneKey)
	if err != nil {
		return nil, Upstream(err)
	}
	out := rows[:0]
	for _, r := range rows {
		if minScore > 0 && (r.Strength == nil || *r.Strength < minScore) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// GetDiseaseGenes lists genes associated with a disease, optionally
// restricted to specific source datasets.
func (t *Toolset) GetDiseaseGenes(ctx context.Context, diseaseKey int64, sources []string, minScore float64, limit int) ([]graph.DiseaseGeneRow, error) {
	if diseaseKey <= 0 {
		return nil, InvalidArgs("disease_key must be positive, got %d", diseaseKey)
	}
	if minScore < 0 || minScore > 1 {
		return nil, InvalidArgs("min_score must be in [0,1], got %f", minScore)
	}
	limit = capInt(limit, MaxItemsPerTool, MaxItemsPerTool)

	rows, err := t.store.GenesOfDisease(ctx, diseaseKey)
	if err != nil {
		return nil, Upstream(err)
	}
	allowed := map[string]bool{}
	for _, s := range sources {
		allowed[s] = true
	}
	out := make([]graph.DiseaseGeneRow, 0, len(rows))
	for _, r := range rows {
		if len(allowed) > 0 && !allowed[r.DatasetID] {
			continue
		}
		if minScore > 0 && (r.Strength == nil || *r.Strength < minScore) {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// GetGeneInteractors lists a gene's interaction partners above a score floor.
func (t *Toolset) GetGeneInteractors(ctx context.Context, geneKey int64, minScore float64, limit int) ([]graph.InteractorRow, error) {
	if geneKey <= 0 {
		return nil, InvalidArgs("gene_key must be positive, got %d", geneKey)
	}
	if minScore < 0 || minScore > 1 {
		return nil, InvalidArgs("min_score must be in [0,1], got %f", minScore)
	}
	limit = capInt(limit, MaxItemsPerTool, MaxItemsPerTool)

	rows, err := t.store.InteractorsOfGene(ctx, geneKey)
	if err != nil {
		return nil, Upstream(err)
	}
	out := make([]graph.InteractorRow, 0, len(rows))
	for _, r := range rows {
		if minScore > 0 && (r.Strength == nil || *r.Strength < minScore) {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MechanismExpansion is the composite result of ExpandMechanism.
type MechanismExpansion struct {
	DrugKey  int64                  `json:"drug_key"`
	Targets  []graph.TargetRow      `json:"targets"`
	Pathways []graph.GenePathwayRow `json:"pathways"`
	// PathwayGenes maps pathway key to the target gene symbols reaching it.
	PathwayGenes map[int64][]string `json:"pathway_genes,omitempty"`
}

// ExpandMechanism returns a drug's targets plus every pathway of those
// targets in one call, pathways deduplicated across targets.
func (t *Toolset) ExpandMechanism(ctx context.Context, drugKey int64) (*MechanismExpansion, error) {
	targets, err := t.GetDrugTargets(ctx, drugKey)
	if err != nil {
		return nil, err
	}
	exp := &MechanismExpansion{
		DrugKey:      drugKey,
		Targets:      targets,
		PathwayGenes: map[int64][]string{},
	}
	seen := map[int64]bool{}
	for _, tgt := range targets {
		pws, err := t.store.PathwaysOfGene(ctx, tgt.GeneKey)
		if err != nil {
			return nil, Upstream(err)
		}
		for _, pw := range pws {
			if !seen[pw.PathwayKey] {
				seen[pw.PathwayKey] = true
				exp.Pathways = append(exp.Pathways, pw)
			}
			exp.PathwayGenes[pw.PathwayKey] = append(exp.PathwayGenes[pw.PathwayKey], tgt.Symbol)
		}
	}
	return exp, nil
}

// GeneContext is one gene's slice of an ExpandGeneContext result.
type GeneContext struct {
	GeneKey  int64                  `json:"gene_key"`
	Pathways []graph.GenePathwayRow `json:"pathways"`
	Diseases []graph.GeneDiseaseRow `json:"diseases"`
}

// ExpandGeneContext returns pathways and disease associations for each gene.
func (t *Toolset) ExpandGeneContext(ctx context.Context, geneKeys []int64, minDiseaseScore float64) ([]GeneContext, error) {
	if len(geneKeys) == 0 {
		return nil, InvalidArgs("gene_keys must be non-empty")
	}
	out := make([]GeneContext, 0, len(geneKeys))
	for _, gk := range geneKeys {
		pws, err := t.GetGenePathways(ctx, gk)
		if err != nil {
			return nil, err
		}
		diseases, err := t.GetGeneDiseases(ctx, gk, minDiseaseScore)
		if err != nil {
			return nil, err
		}
		out = append(out, GeneContext{GeneKey: gk, Pathways: pws, Diseases: diseases})
	}
	return out, nil
}
