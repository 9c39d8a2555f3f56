package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

// validatable is anything decoded from model output that can self-check.
type validatable interface {
	Validate() error
}

// RequestPlan asks the planner for a tool plan and parses it, with one
// repair retry on malformed output.
func RequestPlan(ctx context.Context, c Client, system, user string) (*datatypes.ToolPlan, error) {
	plan := &datatypes.ToolPlan{}
	if err := requestStructured(ctx, c, RolePlanner, system, user, plan); err != nil {
		return nil, tagMalformed(err, KindMalformedPlan)
	}
	return plan, nil
}

// RequestVerdict asks the observer for a sufficiency verdict and parses it,
// with one repair retry on malformed output.
func RequestVerdict(ctx context.Context, c Client, system, user string) (*datatypes.SufficiencyVerdict, error) {
	verdict := &datatypes.SufficiencyVerdict{}
	if err := requestStructured(ctx, c, RoleObserver, system, user, verdict); err != nil {
		return nil, tagMalformed(err, KindMalformedVerdict)
	}
	return verdict, nil
}

// requestStructured runs one completion, decodes into out, and on a parse or
// validation failure sends the raw output back with a repair instruction
// exactly once. Backend errors are returned as-is: a retry will not fix a
// dead server.
func requestStructured(ctx context.Context, c Client, role Role, system, user string, out validatable) error {
	raw, err := c.Complete(ctx, role, system, user)
	if err != nil {
		return err
	}
	decodeErr := decodeInto(raw, out)
	if decodeErr == nil {
		return nil
	}
	slog.Warn("Malformed structured output, attempting repair",
		"role", string(role), "error", decodeErr)

	repair := fmt.Sprintf(
		"Your previous response could not be parsed: %v\n\nPrevious response:\n%s\n\nRespond again with ONLY a valid JSON object in the required format. No prose, no markdown fences.",
		decodeErr, raw)
	raw, err = c.Complete(ctx, role, system, repair)
	if err != nil {
		return err
	}
	if err := decodeInto(raw, out); err != nil {
		return &parseError{err: err}
	}
	return nil
}

// parseError marks a failure as a parse problem rather than a backend one.
type parseError struct{ err error }

func (p *parseError) Error() string { return p.err.Error() }
func (p *parseError) Unwrap() error { return p.err }

// tagMalformed wraps parse failures with the role-specific kind. Timeouts
// get their own kind; backend errors pass through untagged.
func tagMalformed(err error, kind string) error {
	var pe *parseError
	if errors.As(err, &pe) {
		return &Error{Kind: kind, Err: pe.err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return err
}

// decodeInto strips markdown fencing, unmarshals, and validates.
func decodeInto(raw string, out validatable) error {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return out.Validate()
}

// stripFences removes a surrounding ```json ... ``` block and any prose
// before the first brace. Models wrap JSON in fences no matter how firmly
// the prompt forbids it.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if start := strings.Index(s, "```"); start >= 0 {
		s = s[start+3:]
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && len(strings.TrimSpace(s[:nl])) <= len("json") {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	s = strings.TrimSpace(s)
	// Drop leading prose up to the first object brace.
	if i := strings.IndexByte(s, '{'); i > 0 {
		s = s[i:]
	}
	if j := strings.LastIndexByte(s, '}'); j >= 0 {
		s = s[:j+1]
	}
	return s
}
