package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/GraphRx/services/engine/datatypes"
)

// scriptedClient returns canned responses in order.
type scriptedClient struct {
	responses []string
	err       error
	calls     int
	lastUser  string
}

func (s *scriptedClient) Complete(_ context.Context, _ Role, _, user string) (string, error) {
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("no scripted response for call %d", s.calls)
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func TestRequestPlan_CleanJSON(t *testing.T) {
	c := &scriptedClient{responses: []string{
		`{"thought": "look up targets", "tool_calls": [{"tool": "get_drug_targets", "args": {"drug_key": 10}}]}`,
	}}
	plan, err := RequestPlan(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls)
	require.Len(t, plan.Calls, 1)
	assert.Equal(t, "get_drug_targets", plan.Calls[0].Tool)
}

func TestRequestPlan_FencedJSON(t *testing.T) {
	c := &scriptedClient{responses: []string{
		"Here is the plan:\n```json\n{\"tool_calls\": [{\"tool\": \"resolve_drugs\", \"args\": {\"names\": [\"aspirin\"]}}]}\n```\n",
	}}
	plan, err := RequestPlan(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls, "fenced output must parse without a repair round trip")
	require.Len(t, plan.Calls, 1)
}

func TestRequestPlan_RepairRetry(t *testing.T) {
	c := &scriptedClient{responses: []string{
		`{"tool_calls": [}`, // broken JSON
		`{"tool_calls": [{"tool": "resolve_drugs", "args": {"names": ["aspirin"]}}]}`,
	}}
	plan, err := RequestPlan(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, 2, c.calls, "exactly one repair attempt")
	assert.Contains(t, c.lastUser, "could not be parsed")
	require.Len(t, plan.Calls, 1)
}

func TestRequestPlan_RepairFailsTwice(t *testing.T) {
	c := &scriptedClient{responses: []string{"not json", "still not json"}}
	_, err := RequestPlan(context.Background(), c, "sys", "user")
	require.Error(t, err)
	le, ok := AsLLMError(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformedPlan, le.Kind)
	assert.Equal(t, 2, c.calls)
}

func TestRequestPlan_StopSignal(t *testing.T) {
	c := &scriptedClient{responses: []string{`{"stop": "sufficient_information"}`}}
	plan, err := RequestPlan(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.True(t, plan.IsStop())
}

func TestRequestPlan_BackendErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	c := &scriptedClient{err: boom}
	_, err := RequestPlan(context.Background(), c, "sys", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	_, tagged := AsLLMError(err)
	assert.False(t, tagged, "backend failures keep their own identity")
}

func TestRequestPlan_TimeoutKind(t *testing.T) {
	c := &scriptedClient{err: fmt.Errorf("rpc: %w", context.DeadlineExceeded)}
	_, err := RequestPlan(context.Background(), c, "sys", "user")
	require.Error(t, err)
	le, ok := AsLLMError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, le.Kind)
}

func TestRequestVerdict_ValidationEnforced(t *testing.T) {
	// Parses as JSON but fails field validation, twice.
	c := &scriptedClient{responses: []string{
		`{"status": "maybe"}`,
		`{"status": "maybe"}`,
	}}
	_, err := RequestVerdict(context.Background(), c, "sys", "user")
	require.Error(t, err)
	le, ok := AsLLMError(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformedVerdict, le.Kind)
}

func TestRequestVerdict_Sufficient(t *testing.T) {
	c := &scriptedClient{responses: []string{
		`{"status": "sufficient", "confidence": 0.9, "reasoning": "direct claim found", "can_answer": true}`,
	}}
	v, err := RequestVerdict(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, datatypes.StatusSufficient, v.Status)
	assert.True(t, v.ShouldNarrate())
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"Sure! Here you go: {\"a\":1} Done.", `{"a":1}`},
		{"```json\n{\"a\":1}\n```\ntrailing", `{"a":1}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stripFences(tc.in), "input %q", tc.in)
	}
}
