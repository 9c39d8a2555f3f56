// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine assembles the query engine: graph gateway, tool layer,
// dispatcher, LLM backends, and the ReAct loop, behind an HTTP surface.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine/config"
	"github.com/AleutianAI/GraphRx/services/engine/dispatch"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
	"github.com/AleutianAI/GraphRx/services/engine/handlers"
	"github.com/AleutianAI/GraphRx/services/engine/llm"
	"github.com/AleutianAI/GraphRx/services/engine/observability"
	"github.com/AleutianAI/GraphRx/services/engine/react"
	"github.com/AleutianAI/GraphRx/services/engine/scoring"
	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// Engine holds the assembled service.
type Engine struct {
	cfg          config.Config
	log          *logging.Logger
	gateway      *graph.Gateway
	orchestrator *react.Orchestrator
	shutdownOTel func(context.Context) error
}

// New assembles the engine from configuration. It probes the graph before
// returning so a missing schema fails startup, not the first query.
func New(ctx context.Context, cfg config.Config) (*Engine, error) {
	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: "engine",
	})

	metrics, shutdownOTel, err := observability.Init(ctx, observability.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	gateway, err := graph.New(cfg.Graph, log)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	if err := gateway.Probe(ctx); err != nil {
		return nil, fmt.Errorf("probe graph: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}

	policy := scoring.NewPolicy(cfg.Engine.SourceWeights, cfg.Engine.UseSourceWeight)
	toolset := tools.NewToolset(gateway, policy, log)
	dispatcher := dispatch.New(toolset, log, cfg.Engine.ToolTimeout, cfg.Engine.TruncationCap)
	orchestrator := react.New(client, dispatcher, cfg.Engine.MaxIterations, log, metrics)

	return &Engine{
		cfg:          cfg,
		log:          log,
		gateway:      gateway,
		orchestrator: orchestrator,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Orchestrator exposes the query loop for the one-shot CLI path.
func (e *Engine) Orchestrator() *react.Orchestrator { return e.orchestrator }

// Gateway exposes the graph connection for probe commands.
func (e *Engine) Gateway() *graph.Gateway { return e.gateway }

// Router builds the HTTP surface.
func (e *Engine) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("graphrx-engine"))

	router.POST("/v1/query", handlers.HandleQuery(e.orchestrator))
	router.GET("/healthz", handlers.HandleHealth(e.gateway))
	router.GET("/metrics", gin.WrapH(observability.MetricsHandler()))
	return router
}

// Run serves HTTP until the context ends or a signal arrives, then shuts
// down gracefully.
func (e *Engine) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              e.cfg.ListenAddr,
		Handler:           e.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.log.Info("engine listening", "addr", e.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		e.log.Info("engine shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	e.Close()
	return err
}

// Close releases the graph connection and flushes telemetry.
func (e *Engine) Close() {
	if err := e.gateway.Close(); err != nil {
		e.log.Warn("closing graph connection", "error", err)
	}
	if e.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.shutdownOTel(ctx); err != nil {
			e.log.Warn("shutting down telemetry", "error", err)
		}
	}
}
