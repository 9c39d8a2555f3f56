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

// TraceDigest compresses past iterations into a few lines per iteration so
// the planner context does not grow with raw tool payloads.
func TraceDigest(trace []datatypes.IterationLog) string {
	var b strings.Builder
	for _, it := range trace {
		b.WriteString(fmt.Sprintf("Iteration %d:", it.Iteration))
		if it.Thought != "" {
			b.WriteString(" thought: ")
			b.WriteString(firstLine(it.Thought))
		}
		b.WriteByte('\n')
		for _, c := range it.ToolCalls {
			if c.OK {
				b.WriteString(fmt.Sprintf("  %s -> %s\n", c.Tool, c.Summary))
			} else {
				b.WriteString(fmt.Sprintf("  %s -> FAILED: %s\n", c.Tool, c.Error))
			}
		}
		if v := it.Verdict; v != nil {
			b.WriteString(fmt.Sprintf("  observation: %s (confidence %.2f)", v.Status, v.Confidence))
			if len(v.Gaps) > 0 {
				descs := make([]string, 0, len(v.Gaps))
				for _, g := range v.Gaps {
					descs = append(descs, g.Description)
				}
				b.WriteString("; gaps: ")
				b.WriteString(strings.Join(descs, "; "))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
