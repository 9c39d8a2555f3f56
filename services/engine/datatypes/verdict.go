// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the observer-output types: the sufficiency verdict the
// observer LLM must produce after each dispatch, including the gap list the
// orchestrator folds back into the next planner prompt.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Sufficiency Status
// =============================================================================

// SufficiencyStatus classifies whether accumulated evidence answers the query.
type SufficiencyStatus string

const (
	StatusSufficient          SufficiencyStatus = "sufficient"
	StatusInsufficient        SufficiencyStatus = "insufficient"
	StatusPartiallySufficient SufficiencyStatus = "partially_sufficient"
)

var verdictValidate = validator.New()

// =============================================================================
// Information Gap
// =============================================================================

// InformationGap describes a specific hole in the gathered evidence.
//
// Priority is 1 (high) to 3 (low). SuggestedTool, when set, names a catalog
// tool the observer thinks could fill the gap; the orchestrator forwards it
// to the planner as a hint, never executes it directly.
type InformationGap struct {
	Category      string `json:"category" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Priority      int    `json:"priority" validate:"gte=1,lte=3"`
	SuggestedTool string `json:"suggested_tool,omitempty"`
}

// =============================================================================
// Sufficiency Verdict
// =============================================================================

// SufficiencyVerdict is the observer's assessment after one dispatch round.
//
// # Description
//
// The orchestrator branches on Status and CanAnswer:
//
//   - sufficient → narrate
//   - partially_sufficient + can_answer → narrate
//   - partially_sufficient + !can_answer → plan again (budget permitting)
//   - insufficient → plan again (budget permitting)
type SufficiencyVerdict struct {
	Status     SufficiencyStatus `json:"status" validate:"required,oneof=sufficient insufficient partially_sufficient"`
	Confidence float64           `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning  string            `json:"reasoning"`
	Gaps       []InformationGap  `json:"gaps"`
	CanAnswer  bool              `json:"can_answer"`
}

// Validate checks field constraints on the verdict and its gaps.
func (v *SufficiencyVerdict) Validate() error {
	if err := verdictValidate.Struct(v); err != nil {
		return err
	}
	for i := range v.Gaps {
		if err := verdictValidate.Struct(&v.Gaps[i]); err != nil {
			return fmt.Errorf("gap %d: %w", i, err)
		}
	}
	return nil
}

// ShouldNarrate reports whether the verdict permits ending the loop with a
// narrated answer.
func (v *SufficiencyVerdict) ShouldNarrate() bool {
	switch v.Status {
	case StatusSufficient:
		return true
	case StatusPartiallySufficient:
		return v.CanAnswer
	default:
		return false
	}
}
