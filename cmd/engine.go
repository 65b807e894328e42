/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"orbis/internal/llm"
	"orbis/internal/lyra"
	"orbis/internal/search"
	"orbis/internal/telemetry"
	"orbis/store"
)

// buildEngine wires the chat model, the web searcher and the store into
// a conversation engine. The searcher is optional and stays nil when no
// Brave key is configured.
func buildEngine(ctx context.Context, s store.Store, logger *slog.Logger) (*lyra.Engine, error) {
	cfg := GetConfig()

	provider, err := llm.ValidateProvider(cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	modelID := cfg.LLM.Model
	if modelID == "" {
		modelID = llm.DefaultModelForProvider(cfg.LLM.Provider)
	}

	chatModel, err := llm.NewChatModel(ctx, llm.Config{
		Provider: provider,
		Model:    modelID,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	var searcher lyra.Searcher
	if cfg.Search.BraveAPIKey != "" {
		searcher = search.NewClient(cfg.Search.BraveAPIKey)
	}

	return lyra.NewEngine(chatModel, s, searcher, logger), nil
}

// newTelemetryClient returns the configured telemetry client, falling
// back to a no-op client when telemetry is off or unconfigured.
func newTelemetryClient(logger *slog.Logger) telemetry.Client {
	cfg := GetConfig()
	if !cfg.Telemetry.Enabled || cfg.Telemetry.APIKey == "" {
		return telemetry.NoopClient{}
	}

	consent, err := telemetry.LoadConsent(cfg.Project.RootDir)
	if err != nil {
		logger.Debug("telemetry consent unavailable", "error", err)
		return telemetry.NoopClient{}
	}
	if consent == nil || !consent.Enabled {
		return telemetry.NoopClient{}
	}

	client, err := telemetry.NewPostHogClient(cfg.Telemetry.APIKey, version, consent)
	if err != nil {
		logger.Debug("telemetry client init failed", "error", err)
		return telemetry.NoopClient{}
	}
	return client
}
