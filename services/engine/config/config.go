// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads engine configuration from environment variables with
// an optional YAML overlay for the scoring source-weight table.
//
// Every knob has a working default so a bare `graphrx serve` against a local
// Postgres and a local model server starts without any configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Config
// =============================================================================

// GraphConfig holds the Postgres connection settings for the knowledge graph.
type GraphConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	Schema   string `yaml:"schema"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN renders the pgx connection string.
func (g GraphConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		g.Host, g.Port, g.Database, g.User, g.Password, g.SSLMode)
}

// RoleConfig holds per-role LLM settings. The planner, observer, and narrator
// can point at different models or different servers entirely.
type RoleConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LLMConfig holds the language-model backend settings.
type LLMConfig struct {
	// Provider selects the backend: "openai" for any OpenAI-compatible
	// server (llama.cpp, groq, vLLM), "ollama" for an Ollama daemon.
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`

	Planner  RoleConfig `yaml:"planner"`
	Observer RoleConfig `yaml:"observer"`
	Narrator RoleConfig `yaml:"narrator"`

	Timeout time.Duration `yaml:"timeout"`
}

// EngineConfig holds the query-loop settings.
type EngineConfig struct {
	MaxIterations   int           `yaml:"max_iterations"`
	ToolTimeout     time.Duration `yaml:"tool_timeout"`
	TruncationCap   int           `yaml:"truncation_cap"`
	UseSourceWeight bool          `yaml:"use_source_weight"`

	// SourceWeights overrides the built-in dataset reliability table.
	// Keys are dataset identifiers (e.g. "drugcentral"), values in [0,1].
	SourceWeights map[string]float64 `yaml:"source_weights"`
}

// Config is the root engine configuration.
type Config struct {
	ListenAddr string       `yaml:"listen_addr"`
	LogLevel   string       `yaml:"log_level"`
	LogDir     string       `yaml:"log_dir"`
	Graph      GraphConfig  `yaml:"graph"`
	LLM        LLMConfig    `yaml:"llm"`
	Engine     EngineConfig `yaml:"engine"`
}

// =============================================================================
// Loading
// =============================================================================

// Default returns the configuration with every knob at its built-in default.
func Default() Config {
	return Config{
		ListenAddr: ":8093",
		LogLevel:   "info",
		LogDir:     "~/.graphrx/logs",
		Graph: GraphConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "graphrx",
			User:            "graphrx",
			Password:        "",
			SSLMode:         "disable",
			Schema:          "kg",
			MaxOpenConns:    8,
			ConnMaxLifetime: 30 * time.Minute,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Planner:  RoleConfig{Model: "llama-3.3-70b", BaseURL: "http://localhost:8080/v1", Temperature: 0.1, MaxTokens: 1024},
			Observer: RoleConfig{Model: "llama-3.3-70b", BaseURL: "http://localhost:8080/v1", Temperature: 0.0, MaxTokens: 768},
			Narrator: RoleConfig{Model: "llama-3.3-70b", BaseURL: "http://localhost:8080/v1", Temperature: 0.3, MaxTokens: 2048},
			Timeout:  60 * time.Second,
		},
		Engine: EngineConfig{
			MaxIterations: 3,
			ToolTimeout:   30 * time.Second,
			TruncationCap: 30,
		},
	}
}

// Load builds the configuration from the environment on top of defaults.
// When GRAPHRX_CONFIG names a YAML file, the file is applied between the
// defaults and the environment, so env vars always win.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("GRAPHRX_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = getEnvString("GRAPHRX_LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getEnvString("GRAPHRX_LOG_LEVEL", cfg.LogLevel)
	cfg.LogDir = getEnvString("GRAPHRX_LOG_DIR", cfg.LogDir)

	cfg.Graph.Host = getEnvString("GRAPHRX_PG_HOST", cfg.Graph.Host)
	cfg.Graph.Port = getEnvInt("GRAPHRX_PG_PORT", cfg.Graph.Port)
	cfg.Graph.Database = getEnvString("GRAPHRX_PG_DATABASE", cfg.Graph.Database)
	cfg.Graph.User = getEnvString("GRAPHRX_PG_USER", cfg.Graph.User)
	cfg.Graph.Password = getEnvString("GRAPHRX_PG_PASSWORD", cfg.Graph.Password)
	cfg.Graph.SSLMode = getEnvString("GRAPHRX_PG_SSLMODE", cfg.Graph.SSLMode)
	cfg.Graph.Schema = getEnvString("GRAPHRX_PG_SCHEMA", cfg.Graph.Schema)

	cfg.LLM.Provider = getEnvString("GRAPHRX_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.APIKey = getEnvString("GRAPHRX_LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Timeout = getEnvDuration("GRAPHRX_LLM_TIMEOUT", cfg.LLM.Timeout)
	loadRole("GRAPHRX_PLANNER", &cfg.LLM.Planner)
	loadRole("GRAPHRX_OBSERVER", &cfg.LLM.Observer)
	loadRole("GRAPHRX_NARRATOR", &cfg.LLM.Narrator)

	cfg.Engine.MaxIterations = getEnvInt("GRAPHRX_MAX_ITERATIONS", cfg.Engine.MaxIterations)
	cfg.Engine.ToolTimeout = getEnvDuration("GRAPHRX_TOOL_TIMEOUT", cfg.Engine.ToolTimeout)
	cfg.Engine.TruncationCap = getEnvInt("GRAPHRX_TRUNCATION_CAP", cfg.Engine.TruncationCap)
	cfg.Engine.UseSourceWeight = getEnvBool("GRAPHRX_USE_SOURCE_WEIGHT", cfg.Engine.UseSourceWeight)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadRole(prefix string, rc *RoleConfig) {
	rc.Model = getEnvString(prefix+"_MODEL", rc.Model)
	rc.BaseURL = getEnvString(prefix+"_BASE_URL", rc.BaseURL)
	rc.Temperature = getEnvFloat(prefix+"_TEMPERATURE", rc.Temperature)
	rc.MaxTokens = getEnvInt(prefix+"_MAX_TOKENS", rc.MaxTokens)
}

func (c *Config) validate() error {
	if c.Engine.MaxIterations < 1 {
		c.Engine.MaxIterations = 1
	}
	if c.Engine.MaxIterations > 10 {
		c.Engine.MaxIterations = 10
	}
	if c.Engine.TruncationCap < 1 {
		return fmt.Errorf("truncation cap must be positive, got %d", c.Engine.TruncationCap)
	}
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	for name, w := range c.Engine.SourceWeights {
		if w < 0 || w > 1 {
			return fmt.Errorf("source weight for %q out of range: %f", name, w)
		}
	}
	return nil
}

// =============================================================================
// Env helpers
// =============================================================================

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
