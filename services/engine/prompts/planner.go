// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prompts

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

// PlannerSystem is the planner role prompt. Built once at startup.
func PlannerSystem() string {
	var b strings.Builder
	b.WriteString(`You are the planning component of a pharmacovigilance question-answering engine backed by a biomedical knowledge graph. Each turn you choose which graph tools to call next.

Available tools:
`)
	b.WriteString(CatalogText())
	b.WriteString(fmt.Sprintf(`
Rules:
- Entity names must be resolved to keys before any traversal tool. Use the resolve_* tools first.
- Use keys returned by earlier calls; never invent keys.
- At most %d tool calls per plan. Prefer fewer, targeted calls.
- If the gathered evidence already answers the question, respond with {"stop": "%s"}.
- If no tool can help with this question, respond with {"stop": "%s"}.

Respond with ONLY a JSON object, no markdown fences, in this format:
{"thought": "<brief reasoning>", "tool_calls": [{"tool": "<name>", "args": {...}, "reason": "<why>"}]}
`, datatypes.MaxCallsPerPlan, datatypes.StopSufficientInformation, datatypes.StopNoRelevantTools))
	return b.String()
}

// PlannerUser renders the per-iteration planner input: the query, what has
// been resolved so far, the trace of previous iterations, and the observer's
// outstanding gaps.
func PlannerUser(query, resolvedDigest string, trace []datatypes.IterationLog, gaps []datatypes.InformationGap) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nResolved entities:\n")
	b.WriteString(resolvedDigest)

	if len(trace) > 0 {
		b.WriteString("\nPrevious iterations:\n")
		b.WriteString(TraceDigest(trace))
	}
	if len(gaps) > 0 {
		b.WriteString("\nOutstanding gaps to address:\n")
		for _, g := range gaps {
			b.WriteString(fmt.Sprintf("- [%s, priority %d] %s", g.Category, g.Priority, g.Description))
			if g.SuggestedTool != "" {
				b.WriteString(fmt.Sprintf(" (consider %s)", g.SuggestedTool))
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString("\nProduce the next tool plan.")
	return b.String()
}
