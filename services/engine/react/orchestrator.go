// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package react runs the iterative plan/dispatch/observe/narrate loop.
//
// # Description
//
// Each iteration the planner proposes tool calls, the dispatcher executes
// them against the knowledge graph, and the observer judges whether the
// accumulated evidence answers the question. The loop ends when the
// evidence is sufficient, the planner signals a stop, the iteration budget
// runs out, or the caller cancels. The narrator always writes the final
// answer from the evidence pack, never from the loop's internal state.
package react

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/dispatch"
	"github.com/AleutianAI/GraphRx/services/engine/evidence"
	"github.com/AleutianAI/GraphRx/services/engine/llm"
	"github.com/AleutianAI/GraphRx/services/engine/observability"
	"github.com/AleutianAI/GraphRx/services/engine/prompts"
)

var tracer = otel.Tracer("graphrx.engine.react")

// Orchestrator drives the query loop. Construct once, share across queries.
type Orchestrator struct {
	client  llm.Client
	disp    *dispatch.Dispatcher
	log     *logging.Logger
	metrics *observability.Metrics

	maxIterations int

	// Role system prompts are static; built once at construction.
	plannerSystem  string
	observerSystem string
	narratorSystem string
}

// New builds an orchestrator. metrics may be nil (e.g. in the one-shot CLI).
func New(client llm.Client, disp *dispatch.Dispatcher, maxIterations int, log *logging.Logger, metrics *observability.Metrics) *Orchestrator {
	if maxIterations <= 0 {
		maxIterations = 3
	}
	return &Orchestrator{
		client:         client,
		disp:           disp,
		log:            log,
		metrics:        metrics,
		maxIterations:  maxIterations,
		plannerSystem:  prompts.PlannerSystem(),
		observerSystem: prompts.ObserverSystem(),
		narratorSystem: prompts.NarratorSystem(),
	}
}

// Run answers one query. It always returns a result; failures are encoded
// in CompletionReason and Summary rather than an error return, so callers
// always get the trace of whatever work was done.
func (o *Orchestrator) Run(ctx context.Context, req datatypes.QueryRequest) *datatypes.QueryResult {
	start := time.Now()
	queryID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "Orchestrator.Run",
		oteltrace.WithAttributes(attribute.String("query.id", queryID)))
	defer span.End()
	o.log.Info("query started", "query_id", queryID, "query", req.Query)

	pack := evidence.NewPack(req.Query)
	budget := req.MaxIterations
	if budget <= 0 {
		budget = o.maxIterations
	}

	var trace []datatypes.IterationLog
	var gaps []datatypes.InformationGap
	reason := datatypes.ReasonMaxIterations

	for i := 1; i <= budget; i++ {
		if ctx.Err() != nil {
			return o.finish(ctx, queryID, req.Query, "query cancelled before completion", pack, trace, datatypes.ReasonCancelled, start)
		}

		plan, err := o.plan(ctx, req.Query, pack, trace, gaps)
		if err != nil {
			o.log.Error("planning failed", "query_id", queryID, "iteration", i, "error", err)
			o.countError(ctx, err)
			return o.finish(ctx, queryID, req.Query, "planning failed: "+err.Error(), pack, trace, datatypes.ReasonError, start)
		}
		if plan.IsStop() {
			o.log.Info("planner stop", "query_id", queryID, "iteration", i, "signal", plan.Stop)
			reason = datatypes.ReasonPlannerStop
			break
		}

		iter := datatypes.IterationLog{Iteration: i, Thought: plan.Thought, StartedAt: time.Now()}
		results := o.disp.Dispatch(ctx, plan, pack)
		iter.ToolCalls = callLogs(results)
		o.countToolCalls(ctx, results)

		if ctx.Err() != nil {
			trace = append(trace, iter)
			return o.finish(ctx, queryID, req.Query, "query cancelled before completion", pack, trace, datatypes.ReasonCancelled, start)
		}

		verdict, err := o.observe(ctx, queryID, req.Query, results)
		if err != nil {
			o.log.Error("observation failed", "query_id", queryID, "iteration", i, "error", err)
			o.countError(ctx, err)
			iter.EndedAt = time.Now()
			trace = append(trace, iter)
			return o.finish(ctx, queryID, req.Query, "observation failed: "+err.Error(), pack, trace, datatypes.ReasonError, start)
		}
		iter.Verdict = verdict
		iter.EndedAt = time.Now()
		trace = append(trace, iter)

		if verdict != nil {
			gaps = verdict.Gaps
			if verdict.ShouldNarrate() {
				reason = datatypes.ReasonSufficient
				break
			}
		}
	}

	if ctx.Err() != nil {
		return o.finish(ctx, queryID, req.Query, "query cancelled before completion", pack, trace, datatypes.ReasonCancelled, start)
	}

	exhausted := reason == datatypes.ReasonMaxIterations
	summary, err := o.narrate(ctx, req.Query, pack, exhausted)
	if err != nil {
		o.log.Error("narration failed", "query_id", queryID, "error", err)
		o.countError(ctx, err)
		return o.finish(ctx, queryID, req.Query, "answer generation failed: "+err.Error(), pack, trace, datatypes.ReasonError, start)
	}
	return o.finish(ctx, queryID, req.Query, summary, pack, trace, reason, start)
}

// plan asks the planner for the next tool plan.
func (o *Orchestrator) plan(ctx context.Context, query string, pack *evidence.Pack, trace []datatypes.IterationLog, gaps []datatypes.InformationGap) (*datatypes.ToolPlan, error) {
	user := prompts.PlannerUser(query, pack.ResolvedDigest(), trace, gaps)
	defer o.timeLLM(ctx, llm.RolePlanner)()
	return llm.RequestPlan(ctx, o.client, o.plannerSystem, user)
}

// observe asks the observer for a sufficiency verdict. A verdict that stays
// malformed after the repair retry is treated as insufficient so the loop
// can spend its remaining budget rather than abort; timeouts and backend
// failures propagate, since retrying the loop against a dead or stalled
// model server only burns the budget.
func (o *Orchestrator) observe(ctx context.Context, queryID, query string, results []datatypes.ToolResult) (*datatypes.SufficiencyVerdict, error) {
	user := prompts.ObserverUser(query, results)
	done := o.timeLLM(ctx, llm.RoleObserver)
	verdict, err := llm.RequestVerdict(ctx, o.client, o.observerSystem, user)
	done()
	if err != nil {
		if le, ok := llm.AsLLMError(err); ok && le.Kind == llm.KindMalformedVerdict {
			o.log.Warn("observer verdict unusable, treating as insufficient", "query_id", queryID, "error", err)
			o.countError(ctx, err)
			return &datatypes.SufficiencyVerdict{
				Status:    datatypes.StatusInsufficient,
				Reasoning: "observer verdict unusable: " + err.Error(),
			}, nil
		}
		return nil, err
	}
	return verdict, nil
}

// narrate produces the final prose answer from the evidence pack.
func (o *Orchestrator) narrate(ctx context.Context, query string, pack *evidence.Pack, exhausted bool) (string, error) {
	user := prompts.NarratorUser(query, pack, exhausted)
	defer o.timeLLM(ctx, llm.RoleNarrator)()
	return o.client.Complete(ctx, llm.RoleNarrator, o.narratorSystem, user)
}

// finish assembles the result and records query-level metrics.
func (o *Orchestrator) finish(ctx context.Context, queryID, query, summary string, pack *evidence.Pack, trace []datatypes.IterationLog, reason datatypes.CompletionReason, start time.Time) *datatypes.QueryResult {
	elapsed := time.Since(start)
	o.log.Info("query finished", "query_id", queryID, "reason", string(reason),
		"iterations", len(trace), "elapsed_ms", elapsed.Milliseconds())

	if o.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("completion_reason", string(reason)))
		o.metrics.QueriesTotal.Add(ctx, 1, attrs)
		o.metrics.QueryDuration.Record(ctx, elapsed.Seconds())
		o.metrics.IterationsPerQuery.Record(ctx, int64(len(trace)))
	}
	return &datatypes.QueryResult{
		QueryID:          queryID,
		Query:            query,
		Summary:          summary,
		Subgraph:         pack.Subgraph(),
		Paths:            pack.Paths(),
		Evidence:         pack.Summary(),
		Trace:            trace,
		Iterations:       len(trace),
		CompletionReason: reason,
	}
}

func (o *Orchestrator) countToolCalls(ctx context.Context, results []datatypes.ToolResult) {
	if o.metrics == nil {
		return
	}
	for _, r := range results {
		outcome := "ok"
		if !r.OK {
			outcome = r.ErrorKind
		}
		o.metrics.ToolCallsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", r.Tool),
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Orchestrator) countError(ctx context.Context, err error) {
	if o.metrics == nil {
		return
	}
	kind := "llm.backend"
	if le, ok := llm.AsLLMError(err); ok {
		kind = le.Kind
	}
	o.metrics.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// timeLLM returns a closure that records the completion latency for a role.
func (o *Orchestrator) timeLLM(ctx context.Context, role llm.Role) func() {
	if o.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		o.metrics.LLMRequestDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("role", string(role))))
	}
}

func callLogs(results []datatypes.ToolResult) []datatypes.ToolCallLog {
	logs := make([]datatypes.ToolCallLog, 0, len(results))
	for _, r := range results {
		logs = append(logs, datatypes.ToolCallLog{
			Tool:    r.Tool,
			Args:    r.Args,
			OK:      r.OK,
			Summary: r.Summary,
			Error:   r.Error,
		})
	}
	return logs
}
