// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dispatch executes planner tool plans against the tool library.
//
// # Description
//
// The dispatcher is the enforcement point between the untrusted planner and
// the graph: allow-list check, argument coercion, execution with a
// watchdog timeout, evidence absorption, and result shaping, in that order.
// A failed call becomes a synthetic error ToolResult and the plan continues;
// the observer needs to see failures, not have them hidden.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/evidence"
	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// KindUnknownTool is the error kind for names outside the closed catalog.
const KindUnknownTool = "dispatch.unknown_tool"

// KindCancelled is the error kind for calls cut short because the caller's
// context ended, as opposed to the per-call watchdog firing.
const KindCancelled = "dispatch.cancelled"

// Dispatcher runs tool plans sequentially, in plan order.
type Dispatcher struct {
	tools    *tools.Toolset
	log      *logging.Logger
	timeout  time.Duration
	shapeCap int
}

// New builds a dispatcher. timeout bounds each individual tool call;
// shapeCap bounds list payloads reinjected into the prompt.
func New(ts *tools.Toolset, log *logging.Logger, timeout time.Duration, shapeCap int) *Dispatcher {
	if shapeCap <= 0 {
		shapeCap = 30
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{tools: ts, log: log, timeout: timeout, shapeCap: shapeCap}
}

// Dispatch executes every call in the plan and returns one ToolResult per
// call, in plan order. It never returns an error: failures are encoded in
// the results.
func (d *Dispatcher) Dispatch(ctx context.Context, plan *datatypes.ToolPlan, pack *evidence.Pack) []datatypes.ToolResult {
	results := make([]datatypes.ToolResult, 0, len(plan.Calls))
	for _, call := range plan.Calls {
		res := d.dispatchOne(ctx, call, pack)
		pack.RecordCall(datatypes.ToolCallLog{
			Tool:    res.Tool,
			Args:    res.Args,
			OK:      res.OK,
			Summary: res.Summary,
			Error:   res.Error,
		})
		results = append(results, res)
	}
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, call datatypes.ToolCallRequest, pack *evidence.Pack) datatypes.ToolResult {
	spec := tools.Lookup(call.Tool)
	if spec == nil {
		d.log.Warn("unknown tool requested", "tool", call.Tool)
		return errorResult(call, KindUnknownTool, fmt.Sprintf("tool %q is not in the catalog", call.Tool))
	}

	coerced, err := coerceArgs(spec, call.Args)
	if err != nil {
		return errorResult(call, tools.KindInvalidArgs, err.Error())
	}

	// Re-resolution of already-resolved names is answered from the
	// accumulator without touching the graph.
	if kind, param := resolverKind(call.Tool); kind != "" {
		if res, done := d.resolveCached(ctx, kind, param, coerced, pack); done {
			return res
		}
	}

	type outcome struct {
		data any
		err  error
	}
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	ch := make(chan outcome, 1)
	start := time.Now()
	go func() {
		data, err := d.invoke(cctx, call.Tool, coerced)
		ch <- outcome{data, err}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			if errors.Is(o.err, context.Canceled) {
				return errorResult(call, KindCancelled, "tool call cancelled")
			}
			// An upstream wrap of a deadline error is still a timeout.
			if errors.Is(o.err, context.DeadlineExceeded) {
				return errorResult(call, tools.KindTimeout, "tool call timed out")
			}
			if te, ok := tools.AsToolError(o.err); ok {
				d.log.Warn("tool call failed", "tool", call.Tool, "kind", te.Kind, "error", te.Err.Error())
				return errorResult(call, te.Kind, te.Err.Error())
			}
			// Anything else is an orchestrator bug; let it surface loudly.
			panic(o.err)
		}
		if kind, _ := resolverKind(call.Tool); kind != "" {
			if res, ok := o.data.(map[string]*datatypes.ResolvedEntity); ok {
				pack.AddResolution(kind, res)
			}
		} else {
			pack.Absorb(o.data)
		}
		sh := shapePayload(o.data, d.shapeCap)
		d.log.Debug("tool call ok", "tool", call.Tool, "elapsed_ms", time.Since(start).Milliseconds())
		return datatypes.ToolResult{
			Tool:          call.Tool,
			Args:          call.Args,
			OK:            true,
			Data:          sh.data,
			Truncated:     sh.truncated,
			OriginalCount: sh.originalCount,
			Summary:       summarize(o.data),
		}
	case <-cctx.Done():
		// The watchdog and the caller's context share cctx; only blame the
		// tool when the caller is still live.
		if ctx.Err() != nil {
			d.log.Warn("tool call cancelled", "tool", call.Tool)
			return errorResult(call, KindCancelled, "tool call cancelled")
		}
		d.log.Warn("tool call timed out", "tool", call.Tool, "timeout", d.timeout.String())
		return errorResult(call, tools.KindTimeout, "tool call timed out")
	}
}

func errorResult(call datatypes.ToolCallRequest, kind, msg string) datatypes.ToolResult {
	return datatypes.ToolResult{
		Tool:      call.Tool,
		Args:      call.Args,
		OK:        false,
		ErrorKind: kind,
		Error:     msg,
		Summary:   "failed: " + msg,
	}
}

// resolverKind maps a resolve tool to its entity kind and list parameter.
func resolverKind(tool string) (kind, param string) {
	switch tool {
	case tools.ToolResolveDrugs:
		return "drug", "names"
	case tools.ToolResolveGenes:
		return "gene", "symbols"
	case tools.ToolResolveDiseases:
		return "disease", "terms"
	case tools.ToolResolveAdverseEvents:
		return "adverse_event", "terms"
	}
	return "", ""
}

// resolveCached splits a resolve call into cached and novel names. When
// every name is already resolved the call completes without any graph
// access; otherwise only the novel names are forwarded.
func (d *Dispatcher) resolveCached(ctx context.Context, kind, param string, coerced args, pack *evidence.Pack) (datatypes.ToolResult, bool) {
	names := coerced.strings(param)
	cached := map[string]*datatypes.ResolvedEntity{}
	var novel []string
	for _, n := range names {
		if key, ok := pack.ResolvedKey(kind, n); ok {
			cached[n] = &datatypes.ResolvedEntity{Key: key, Name: n, Source: "cached", Confidence: 1.0}
		} else {
			novel = append(novel, n)
		}
	}
	if len(novel) > 0 {
		coerced[param] = novel
		return datatypes.ToolResult{}, false
	}

	call := datatypes.ToolCallRequest{Tool: resolveToolFor(kind), Args: map[string]any{param: names}}
	sh := shapePayload(cached, d.shapeCap)
	return datatypes.ToolResult{
		Tool:    call.Tool,
		Args:    call.Args,
		OK:      true,
		Data:    sh.data,
		Summary: summarize(cached),
	}, true
}

func resolveToolFor(kind string) string {
	switch kind {
	case "drug":
		return tools.ToolResolveDrugs
	case "gene":
		return tools.ToolResolveGenes
	case "disease":
		return tools.ToolResolveDiseases
	default:
		return tools.ToolResolveAdverseEvents
	}
}

// invoke routes one coerced call to its typed tool implementation.
func (d *Dispatcher) invoke(ctx context.Context, tool string, a args) (any, error) {
	switch tool {
	case tools.ToolResolveDrugs:
		return d.tools.ResolveDrugs(ctx, a.strings("names"))
	case tools.ToolResolveGenes:
		return d.tools.ResolveGenes(ctx, a.strings("symbols"))
	case tools.ToolResolveDiseases:
		return d.tools.ResolveDiseases(ctx, a.strings("terms"))
	case tools.ToolResolveAdverseEvents:
		return d.tools.ResolveAdverseEvents(ctx, a.strings("terms"))

	case tools.ToolGetDrugTargets:
		return d.tools.GetDrugTargets(ctx, a.int64At("drug_key"))
	case tools.ToolGetGenePathways:
		return d.tools.GetGenePathways(ctx, a.int64At("gene_key"))
	case tools.ToolGetGeneDiseases:
		return d.tools.GetGeneDiseases(ctx, a.int64At("gene_key"), a.floatAt("min_score"))
	case tools.ToolGetDiseaseGenes:
		return d.tools.GetDiseaseGenes(ctx, a.int64At("disease_key"), a.strings("sources"), a.floatAt("min_score"), a.intAt("limit"))
	case tools.ToolGetGeneInteractors:
		return d.tools.GetGeneInteractors(ctx, a.int64At("gene_key"), a.floatAt("min_score"), a.intAt("limit"))
	case tools.ToolExpandMechanism:
		return d.tools.ExpandMechanism(ctx, a.int64At("drug_key"))
	case tools.ToolExpandGeneContext:
		return d.tools.ExpandGeneContext(ctx, a.int64s("gene_keys"), a.floatAt("min_disease_score"))

	case tools.ToolGetDrugAdverseEvents:
		return d.tools.GetDrugAdverseEvents(ctx, a.int64At("drug_key"), a.floatAt("min_frequency"), a.intAt("limit"))
	case tools.ToolGetDrugLabelSections:
		return d.tools.GetDrugLabelSections(ctx, a.int64At("drug_key"), a.strings("sections"))
	case tools.ToolGetDrugFAERSSignals:
		return d.tools.GetDrugFAERSSignals(ctx, a.int64At("drug_key"), a.intAt("top_k"), a.intAt("min_count"), a.floatAt("min_prr"))
	case tools.ToolGetDrugProfile:
		return d.tools.GetDrugProfile(ctx, a.int64At("drug_key"))

	case tools.ToolGetClaimEvidence:
		return d.tools.GetClaimEvidence(ctx, a.int64At("claim_key"))
	case tools.ToolGetEntityClaims:
		return d.tools.GetEntityClaims(ctx, a.str("entity_kind"), a.int64At("entity_key"), a.strings("claim_types"), a.intAt("limit"))

	case tools.ToolFindDrugToAEPaths:
		return d.tools.FindDrugToAEPaths(ctx, a.int64At("drug_key"), a.int64At("ae_key"), a.intAt("max_paths"))
	case tools.ToolExplainPaths:
		return d.tools.ExplainPaths(ctx, a.int64At("drug_key"), a.int64At("ae_key"), a.int64s("condition_keys"), a.intAt("top_k"))

	case tools.ToolBuildSubgraph:
		return d.tools.BuildSubgraph(ctx, a.int64s("drug_keys"), tools.SubgraphOptions{
			IncludeTargets:       a.boolAt("include_targets", true),
			IncludePathways:      a.boolAt("include_pathways", false),
			IncludeDiseases:      a.boolAt("include_diseases", false),
			IncludeAdverseEvents: a.boolAt("include_adverse_events", false),
			MaxPerCategory:       a.intAt("max_per_category"),
			MinDiseaseScore:      a.floatAt("min_disease_score"),
		})
	case tools.ToolScoreEdges:
		sub, err := decodeSubgraph(a.object("subgraph"))
		if err != nil {
			return nil, tools.InvalidArgs("subgraph: %v", err)
		}
		weights, err := decodeWeights(a.object("weights"))
		if err != nil {
			return nil, tools.InvalidArgs("weights: %v", err)
		}
		return d.tools.ScoreEdges(sub, weights)
	}
	// Lookup already vetted the name; reaching here is a missing case.
	panic("unhandled tool " + tool)
}

// decodeSubgraph rebuilds a typed subgraph from planner-supplied JSON.
func decodeSubgraph(m map[string]any) (*datatypes.Subgraph, error) {
	if m == nil {
		return nil, fmt.Errorf("required")
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var sub datatypes.Subgraph
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func decodeWeights(m map[string]any) (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("weight for %q must be a number, got %T", k, v)
		}
		out[k] = f
	}
	return out, nil
}
