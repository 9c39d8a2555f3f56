// Package llm provides the language-model backends for the three engine
// roles. The planner and observer must emit machine-checkable JSON; the
// narrator emits prose. Role settings (model, temperature, token budget)
// come from config so a cheap model can plan while a stronger one narrates.
package llm

import "context"

// Role identifies which engine role a completion serves.
type Role string

const (
	RolePlanner  Role = "planner"
	RoleObserver Role = "observer"
	RoleNarrator Role = "narrator"
)

// Client is the minimal surface the orchestrator needs from a backend.
type Client interface {
	Complete(ctx context.Context, role Role, system, user string) (string, error)
}
