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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

// ObserverSystem is the observer role prompt. Built once at startup.
func ObserverSystem() string {
	return fmt.Sprintf(`You are the evidence assessor of a pharmacovigilance question-answering engine. Given a question and the results of the graph tool calls executed so far, judge whether the accumulated evidence is sufficient to answer.

Status values:
- "%s": the evidence answers the question.
- "%s": parts are answerable; set "can_answer" true only if a useful partial answer exists.
- "%s": the evidence does not answer the question.

For anything missing, list gaps with a category, a description, a priority from 1 (high) to 3 (low), and optionally the tool most likely to fill it.

Respond with ONLY a JSON object, no markdown fences, in this format:
{"status": "<status>", "confidence": <0..1>, "reasoning": "<brief>", "can_answer": <bool>, "gaps": [{"category": "<c>", "description": "<d>", "priority": <1-3>, "suggested_tool": "<name>"}]}
`, datatypes.StatusSufficient, datatypes.StatusPartiallySufficient, datatypes.StatusInsufficient)
}

// ObserverUser renders the question plus the shaped results of the current
// dispatch round.
func ObserverUser(query string, results []datatypes.ToolResult) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nTool results this iteration:\n")
	for i, r := range results {
		if !r.OK {
			b.WriteString(fmt.Sprintf("%d. %s failed (%s): %s\n", i+1, r.Tool, r.ErrorKind, r.Error))
			continue
		}
		b.WriteString(fmt.Sprintf("%d. %s: %s", i+1, r.Tool, r.Summary))
		if r.Truncated {
			b.WriteString(fmt.Sprintf(" (showing first %d of %d)", truncatedShown(r), r.OriginalCount))
		}
		b.WriteByte('\n')
		if r.Data != nil {
			raw, err := json.Marshal(r.Data)
			if err == nil {
				b.Write(raw)
				b.WriteByte('\n')
			}
		}
	}
	b.WriteString("\nAssess sufficiency.")
	return b.String()
}

func truncatedShown(r datatypes.ToolResult) int {
	switch list := r.Data.(type) {
	case []json.RawMessage:
		return len(list)
	case []any:
		return len(list)
	}
	return 0
}
