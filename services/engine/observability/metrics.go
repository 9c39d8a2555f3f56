// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the engine service.
//
// # Description
//
// Counters and histograms for the query loop, tool dispatch, graph access,
// and LLM calls. All metrics use the "engine_" prefix.
//
// # Thread Safety
//
// Safe for concurrent use after creation.
type Metrics struct {
	// QueriesTotal counts completed queries by completion_reason.
	QueriesTotal metric.Int64Counter

	// QueryDuration records end-to-end query duration in seconds.
	QueryDuration metric.Float64Histogram

	// IterationsPerQuery records how many plan/dispatch/observe cycles a
	// query used before completing.
	IterationsPerQuery metric.Int64Histogram

	// ToolCallsTotal counts dispatched tool calls by tool and outcome.
	ToolCallsTotal metric.Int64Counter

	// LLMRequestDuration records LLM completion duration in seconds by role.
	LLMRequestDuration metric.Float64Histogram

	// ErrorsTotal counts errors by kind.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics registers all engine metrics with the provided meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.QueriesTotal, err = meter.Int64Counter(
		"engine_queries_total",
		metric.WithDescription("Total queries by completion reason"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queries_total: %w", err)
	}

	m.QueryDuration, err = meter.Float64Histogram(
		"engine_query_duration_seconds",
		metric.WithDescription("End-to-end query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, fmt.Errorf("create query_duration: %w", err)
	}

	m.IterationsPerQuery, err = meter.Int64Histogram(
		"engine_iterations_per_query",
		metric.WithDescription("Plan/dispatch/observe cycles per query"),
		metric.WithUnit("{iteration}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 8, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("create iterations_per_query: %w", err)
	}

	m.ToolCallsTotal, err = meter.Int64Counter(
		"engine_tool_calls_total",
		metric.WithDescription("Total tool calls by tool and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tool_calls_total: %w", err)
	}

	m.LLMRequestDuration, err = meter.Float64Histogram(
		"engine_llm_request_duration_seconds",
		metric.WithDescription("LLM completion duration in seconds by role"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm_request_duration: %w", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"engine_errors_total",
		metric.WithDescription("Total errors by kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}
