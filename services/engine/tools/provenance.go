// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Provenance tools: the audit backbone. Every relationship a traversal tool
// returns carries claim keys; these two tools drill from a claim key down to
// the evidence records behind it.
package tools

import (
	"context"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// entityKinds are the valid values of the entity_kind parameter.
var entityKinds = map[string]bool{
	"drug":          true,
	"gene":          true,
	"disease":       true,
	"pathway":       true,
	"adverse_event": true,
}

// ClaimEvidence is a claim with all of its supporting evidence records.
type ClaimEvidence struct {
	Claim    *graph.ClaimRow     `json:"claim"`
	Evidence []graph.EvidenceRow `json:"evidence"`
}

// GetClaimEvidence returns one claim and its evidence. A nonexistent claim
// key returns an empty result, not an error.
func (t *Toolset) GetClaimEvidence(ctx context.Context, claimKey int64) (*ClaimEvidence, error) {
	if claimKey <= 0 {
		return nil, InvalidArgs("claim_key must be positive, got %d", claimKey)
	}
	claim, err := t.store.ClaimByKey(ctx, claimKey)
	if err != nil {
		return nil, Upstream(err)
	}
	if claim == nil {
		return &ClaimEvidence{}, nil
	}
	evidence, err := t.store.EvidenceForClaim(ctx, claimKey)
	if err != nil {
		return nil, Upstream(err)
	}
	return &ClaimEvidence{Claim: claim, Evidence: evidence}, nil
}

// GetEntityClaims returns the claims attached to an entity, optionally
// restricted to specific predicates.
func (t *Toolset) GetEntityClaims(ctx context.Context, kind string, key int64, claimTypes []string, limit int) ([]graph.ClaimRow, error) {
	if !entityKinds[kind] {
		return nil, InvalidArgs("unknown entity_kind %q", kind)
	}
	if key <= 0 {
		return nil, InvalidArgs("entity_key must be positive, got %d", key)
	}
	limit = capInt(limit, MaxItemsPerTool, MaxItemsPerTool)

	rows, err := t.store.ClaimsForEntity(ctx, kind, key)
	if err != nil {
		return nil, Upstream(err)
	}
	allowed := map[string]bool{}
	for _, ct := range claimTypes {
		allowed[ct] = true
	}
	out := make([]graph.ClaimRow, 0, len(rows))
	for _, r := range rows {
		if len(allowed) > 0 && !allowed[r.Predicate] {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
