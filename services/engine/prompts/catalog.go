// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prompts renders the system and user prompts for the three LLM
// roles. The tool catalog text is generated from the live tool specs so the
// prompt can never describe a tool the dispatcher would reject.
package prompts

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/tools"
)

// CatalogText renders the closed tool catalog for the planner prompt, one
// tool per block.
func CatalogText() string {
	var b strings.Builder
	for _, spec := range tools.Catalog() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Doc))
		for _, p := range spec.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			b.WriteString(fmt.Sprintf("    %s (%s, %s): %s\n", p.Name, p.Kind, req, p.Doc))
		}
	}
	return b.String()
}
