// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "testing"

func TestSufficiencyVerdictValidate(t *testing.T) {
	v := SufficiencyVerdict{Status: StatusSufficient, Confidence: 0.9, CanAnswer: true}
	if err := v.Validate(); err != nil {
		t.Errorf("valid verdict rejected: %v", err)
	}

	v = SufficiencyVerdict{Status: "maybe", Confidence: 0.5}
	if err := v.Validate(); err == nil {
		t.Error("unknown status should be rejected")
	}

	v = SufficiencyVerdict{Status: StatusInsufficient, Confidence: 1.5}
	if err := v.Validate(); err == nil {
		t.Error("confidence above 1 should be rejected")
	}

	v = SufficiencyVerdict{
		Status:     StatusInsufficient,
		Confidence: 0.4,
		Gaps: []InformationGap{
			{Category: "mechanism", Description: "no target evidence", Priority: 4},
		},
	}
	if err := v.Validate(); err == nil {
		t.Error("gap priority outside [1,3] should be rejected")
	}
}

func TestShouldNarrate(t *testing.T) {
	cases := []struct {
		status    SufficiencyStatus
		canAnswer bool
		want      bool
	}{
		{StatusSufficient, false, true},
		{StatusSufficient, true, true},
		{StatusPartiallySufficient, true, true},
		{StatusPartiallySufficient, false, false},
		{StatusInsufficient, true, false},
	}
	for _, c := range cases {
		v := SufficiencyVerdict{Status: c.status, CanAnswer: c.canAnswer}
		if got := v.ShouldNarrate(); got != c.want {
			t.Errorf("ShouldNarrate(%s, can_answer=%v) = %v, want %v",
				c.status, c.canAnswer, got, c.want)
		}
	}
}
