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

	"github.com/AleutianAI/GraphRx/services/engine/evidence"
)

// NarratorSystem is the narrator role prompt. Built once at startup.
func NarratorSystem() string {
	return `You are the answer writer of a pharmacovigilance question-answering engine. Write a concise, clinically careful answer to the question using ONLY the evidence provided below.

Rules:
- Every factual statement must be supported by the provided evidence. Never draw on outside knowledge of drugs, genes, or adverse events.
- When the evidence does not support an answer, or only partially supports one, say so explicitly. "No evidence for this association was found in the knowledge graph" is a complete and correct answer.
- Name the datasets behind key claims (e.g. FAERS, SIDER, DrugCentral) so the reader can weigh them.
- Mechanistic paths are hypotheses ranked by graph evidence, not established causal chains; present them as such.
- Plain prose, no JSON, no markdown headings.`
}

// NarratorUser renders everything the loop accumulated for the final answer.
func NarratorUser(query string, pack *evidence.Pack, exhausted bool) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nResolved entities:\n")
	b.WriteString(pack.ResolvedDigest())

	if paths := pack.Paths(); len(paths) > 0 {
		b.WriteString("\nRanked mechanistic paths:\n")
		for i, p := range paths {
			b.WriteString(fmt.Sprintf("%d. (score %.4f) %s [datasets: %s]\n",
				i+1, p.Score, p.String(), strings.Join(p.Datasets, ", ")))
		}
	}
	if len(pack.FAERSSignals) > 0 {
		b.WriteString("\nFAERS disproportionality signals:\n")
		for _, s := range pack.FAERSSignals {
			prr := "n/a"
			if s.PRR != nil {
				prr = fmt.Sprintf("%.2f", *s.PRR)
			}
			b.WriteString(fmt.Sprintf("- %s: PRR %s, %d cases\n", s.AELabel, prr, s.CaseCount))
		}
	}
	if len(pack.LabelSections) > 0 {
		b.WriteString("\nProduct label excerpts:\n")
		for section, body := range pack.LabelSections {
			b.WriteString(fmt.Sprintf("[%s]\n%s\n", section, body))
		}
	}

	s := pack.Summary()
	b.WriteString(fmt.Sprintf("\nProvenance: %d claims, %d evidence records, datasets: %s\n",
		len(s.ClaimIDs), len(s.EvidenceIDs), strings.Join(s.DatasetIDs, ", ")))

	b.WriteString("\nTool call log:\n")
	for _, c := range pack.Calls {
		if c.OK {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c.Tool, c.Summary))
		} else {
			b.WriteString(fmt.Sprintf("- %s failed: %s\n", c.Tool, c.Error))
		}
	}

	if exhausted {
		b.WriteString("\nNote: the iteration budget ran out before the evidence was judged sufficient. State clearly what remains unresolved.\n")
	}
	b.WriteString("\nWrite the answer.")
	return b.String()
}
