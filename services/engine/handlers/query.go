// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers exposes the engine over HTTP.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

var queryTracer = otel.Tracer("graphrx.engine.handlers")

// QueryRunner is the loop surface the query handler needs.
type QueryRunner interface {
	Run(ctx context.Context, req datatypes.QueryRequest) *datatypes.QueryResult
}

// HandleQuery answers POST /v1/query.
func HandleQuery(runner QueryRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := queryTracer.Start(c.Request.Context(), "HandleQuery")
		defer span.End()

		var req datatypes.QueryRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the query request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := runner.Run(ctx, req)
		if result.CompletionReason == datatypes.ReasonError {
			span.SetStatus(codes.Error, result.Summary)
			c.JSON(http.StatusBadGateway, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
