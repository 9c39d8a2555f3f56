package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/GraphRx/services/engine/config"
)

// OpenAIClient talks to any OpenAI-compatible chat endpoint. Each role can
// point at a different base URL and model, so a local llama.cpp server can
// plan while a hosted model narrates.
type OpenAIClient struct {
	clients map[Role]*openai.Client
	roles   map[Role]config.RoleConfig
}

// NewOpenAIClient builds per-role clients from the LLM config.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api_key not set")
	}
	roles := map[Role]config.RoleConfig{
		RolePlanner:  cfg.Planner,
		RoleObserver: cfg.Observer,
		RoleNarrator: cfg.Narrator,
	}
	clients := make(map[Role]*openai.Client, len(roles))
	for role, rc := range roles {
		if rc.Model == "" {
			return nil, fmt.Errorf("no model configured for %s", role)
		}
		oc := openai.DefaultConfig(cfg.APIKey)
		if rc.BaseURL != "" {
			oc.BaseURL = rc.BaseURL
		}
		clients[role] = openai.NewClientWithConfig(oc)
		slog.Info("Initialized OpenAI-compatible client", "role", string(role),
			"model", rc.Model, "base_url", oc.BaseURL)
	}
	return &OpenAIClient{clients: clients, roles: roles}, nil
}

// Complete implements the Client interface.
func (o *OpenAIClient) Complete(ctx context.Context, role Role, system, user string) (string, error) {
	rc, ok := o.roles[role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", role)
	}
	slog.Debug("Generating completion via OpenAI", "role", string(role), "model", rc.Model)

	req := openai.ChatCompletionRequest{
		Model: rc.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: float32(rc.Temperature),
	}
	if rc.MaxTokens > 0 {
		req.MaxCompletionTokens = rc.MaxTokens
	}

	resp, err := o.clients[role].CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "role", string(role), "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received response from OpenAI", "role", string(role),
		"finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
