package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/GraphRx/services/engine/config"
)

var tracer = otel.Tracer("graphrx.llm.ollama")

// OllamaClient serves all three roles from an Ollama daemon, one model
// handle per role.
type OllamaClient struct {
	models map[Role]*ollama.LLM
	roles  map[Role]config.RoleConfig
}

// NewOllamaClient builds per-role model handles from the LLM config.
// Each role's BaseURL must point at an Ollama server.
func NewOllamaClient(cfg config.LLMConfig) (*OllamaClient, error) {
	roles := map[Role]config.RoleConfig{
		RolePlanner:  cfg.Planner,
		RoleObserver: cfg.Observer,
		RoleNarrator: cfg.Narrator,
	}
	models := make(map[Role]*ollama.LLM, len(roles))
	for role, rc := range roles {
		if rc.Model == "" {
			return nil, fmt.Errorf("no model configured for %s", role)
		}
		opts := []ollama.Option{ollama.WithModel(rc.Model)}
		if rc.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(strings.TrimSuffix(rc.BaseURL, "/")))
		}
		m, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama model for %s: %w", role, err)
		}
		models[role] = m
		slog.Info("Initialized Ollama client", "role", string(role), "model", rc.Model)
	}
	return &OllamaClient{models: models, roles: roles}, nil
}

// Complete implements the Client interface.
func (o *OllamaClient) Complete(ctx context.Context, role Role, system, user string) (string, error) {
	rc, ok := o.roles[role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", role)
	}

	ctx, span := tracer.Start(ctx, "OllamaClient.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.role", string(role)),
		attribute.String("llm.model", rc.Model),
	)
	slog.Debug("Generating completion via Ollama", "role", string(role), "model", rc.Model)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	callOpts := []llms.CallOption{llms.WithTemperature(rc.Temperature)}
	if rc.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(rc.MaxTokens))
	}

	resp, err := o.models[role].GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Ollama call failed", "role", string(role), "error", err)
		return "", fmt.Errorf("ollama call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// NewClient selects the backend named by the config. The returned client
// carries the configured per-call timeout.
func NewClient(cfg config.LLMConfig) (Client, error) {
	var (
		c   Client
		err error
	)
	switch cfg.Provider {
	case "ollama":
		c, err = NewOllamaClient(cfg)
	case "openai", "":
		c, err = NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(c, cfg.Timeout), nil
}
