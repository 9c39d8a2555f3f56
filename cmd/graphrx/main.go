// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/GraphRx/pkg/logging"
	"github.com/AleutianAI/GraphRx/services/engine"
	"github.com/AleutianAI/GraphRx/services/engine/config"
	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
	"github.com/AleutianAI/GraphRx/services/engine/graph"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "graphrx",
	Short: "Pharmacovigilance question answering over a biomedical knowledge graph",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query service",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return eng.Run(cmd.Context())
	},
}

var maxIterations int

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer one question and print the result as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question, err := readQuestion(args)
		if err != nil {
			return err
		}

		eng, err := engine.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		req := datatypes.QueryRequest{Query: question, MaxIterations: maxIterations}
		if err := req.Validate(); err != nil {
			return err
		}
		result := eng.Orchestrator().Run(cmd.Context(), req)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if result.CompletionReason == datatypes.ReasonError {
			return fmt.Errorf("query did not complete: %s", result.Summary)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check graph connectivity and schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := graph.New(cfg.Graph, logging.Default())
		if err != nil {
			return err
		}
		defer gw.Close()

		if err := gw.Probe(cmd.Context()); err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}
		fmt.Println("graph ok")
		return nil
	},
}

// readQuestion takes the question from the argument or, absent one, stdin.
func readQuestion(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	fmt.Fprintln(os.Stderr, "reading question from stdin...")
	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	q := strings.TrimSpace(strings.Join(lines, " "))
	if q == "" {
		return "", fmt.Errorf("no question given")
	}
	return q, nil
}

func main() {
	rootCmd.AddCommand(serveCmd, queryCmd, probeCmd)
	queryCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the iteration budget (1-10)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("graphrx: %v", err)
	}
}
