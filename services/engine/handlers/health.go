// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

// probeTimeout bounds the health check's graph round trip.
const probeTimeout = 5 * time.Second

// Prober is the readiness surface the health handler needs.
type Prober interface {
	Probe(ctx context.Context) error
}

// HandleHealth answers GET /healthz. It reports the graph connection and
// schema state so a schema drift shows up in orchestration probes, not in
// the first failing query.
func HandleHealth(p Prober) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		if err := p.Probe(ctx); err != nil {
			status := gin.H{"status": "unhealthy", "error": err.Error()}
			switch {
			case errors.Is(err, graph.ErrSchemaMismatch):
				status["kind"] = graph.KindSchemaMismatch
			case errors.Is(err, graph.ErrUnavailable):
				status["kind"] = graph.KindUnavailable
			}
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
