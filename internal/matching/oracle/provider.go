package oracle

import (
	"context"
	"fmt"

	"jobmatch-workers/internal/common/config"
)

// New builds the configured oracle. Provider "none" returns a nil oracle, which
// leaves the orchestrator on deterministic scores only.
func New(ctx context.Context, cfg *config.Config) (ScoringOracle, error) {
	switch cfg.Matching.Oracle.Provider {
	case "", "none":
		return nil, nil
	case "gemini":
		gen, err := NewGeminiGenerator(ctx, cfg.APIs.Gemini.APIKey, cfg.APIs.Gemini.Model)
		if err != nil {
			return nil, err
		}
		return NewLLMOracle("gemini", gen), nil
	case "claude":
		gen, err := NewClaudeGenerator(cfg.APIs.Anthropic.APIKey, cfg.APIs.Anthropic.Model, cfg.APIs.Anthropic.MaxTokens)
		if err != nil {
			return nil, err
		}
		return NewLLMOracle("claude", gen), nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider %q", cfg.Matching.Oracle.Provider)
	}
}
