// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Adverse-event tools: known AEs, product label text, FAERS signals, and
// the composite drug profile.
package tools

import (
	"context"
	"sort"
	"unicode/utf8"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// maxLabelSectionBytes caps each label section's body. Label text is prose
// for the narrator, not structured evidence; 10 KB is plenty.
const maxLabelSectionBytes = 10 * 1024

// profileTopAEs bounds the adverse event list inside a drug profile.
const profileTopAEs = 20

// GetDrugAdverseEvents lists a drug's known adverse events, highest reported
// frequency first. Claims without a frequency sort last and pass the filter
// only when minFrequency is zero.
func (t *Toolset) GetDrugAdverseEvents(ctx context.Context, drugKey int64, minFrequency float64, limit int) ([]graph.DrugAdverseEventRow, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	if minFrequency < 0 || minFrequency > 1 {
		return nil, InvalidArgs("min_frequency must be in [0,1], got %f", minFrequency)
	}
	limit = capInt(limit, MaxItemsPerTool, MaxItemsPerTool)

	rows, err := t.store.AdverseEventsOfDrug(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	out := make([]graph.DrugAdverseEventRow, 0, len(rows))
	for _, r := range rows {
		if minFrequency > 0 && (r.Strength == nil || *r.Strength < minFrequency) {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// GetDrugLabelSections returns product label text, each section truncated to
// 10 KB. Unknown section names simply return nothing.
func (t *Toolset) GetDrugLabelSections(ctx context.Context, drugKey int64, sections []string) ([]graph.LabelSectionRow, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	rows, err := t.store.LabelSections(ctx, drugKey, sections)
	if err != nil {
		return nil, Upstream(err)
	}
	for i := range rows {
		rows[i].Body = truncateAtRune(rows[i].Body, maxLabelSectionBytes)
	}
	return rows, nil
}

// truncateAtRune cuts s to at most max bytes without splitting a UTF-8
// sequence.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// GetDrugFAERSSignals returns FAERS disproportionality signals for a drug,
// filtered by case count and PRR, strongest PRR first, capped at topK.
func (t *Toolset) GetDrugFAERSSignals(ctx context.Context, drugKey int64, topK, minCount int, minPRR float64) ([]graph.FAERSSignalRow, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	if minPRR < 0 {
		return nil, InvalidArgs("min_prr must be non-negative, got %f", minPRR)
	}
	topK = capInt(topK, MaxItemsPerTool, MaxItemsPerTool)

	rows, err := t.store.FAERSSignals(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	out := make([]graph.FAERSSignalRow, 0, len(rows))
	for _, r := range rows {
		if minCount > 0 && r.CaseCount < int64(minCount) {
			continue
		}
		if minPRR > 0 && (r.PRR == nil || *r.PRR < minPRR) {
			continue
		}
		out = append(out, r)
	}
	// The store orders by case count; a PRR-driven caller wants the most
	// disproportionate signals first.
	sortSignalsByPRR(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func sortSignalsByPRR(rows []graph.FAERSSignalRow) {
	prr := func(r *graph.FAERSSignalRow) float64 {
		if r.PRR == nil {
			return 0
		}
		return *r.PRR
	}
	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := prr(&rows[i]), prr(&rows[j])
		if pi != pj {
			return pi > pj
		}
		return rows[i].CaseCount > rows[j].CaseCount
	})
}

// DrugProfile is the composite overview GetDrugProfile returns.
type DrugProfile struct {
	Drug          *graph.DrugRow              `json:"drug"`
	Targets       []graph.TargetRow           `json:"targets"`
	AdverseEvents []graph.DrugAdverseEventRow `json:"adverse_events"`
}

// GetDrugProfile returns basic drug info, its targets, and its top adverse
// events. A nonexistent key returns a profile with a nil Drug.
func (t *Toolset) GetDrugProfile(ctx context.Context, drugKey int64) (*DrugProfile, error) {
	if drugKey <= 0 {
		return nil, InvalidArgs("drug_key must be positive, got %d", drugKey)
	}
	drug, err := t.store.DrugByKey(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	if drug == nil {
		return &DrugProfile{}, nil
	}
	targets, err := t.store.TargetsOfDrug(ctx, drugKey)
	if err != nil {
		return nil, Upstream(err)
	}
	aes, err := t.GetDrugAdverseEvents(ctx, drugKey, 0, profileTopAEs)
	if err != nil {
		return nil, err
	}
	return &DrugProfile{Drug: drug, Targets: targets, AdverseEvents: aes}, nil
}
