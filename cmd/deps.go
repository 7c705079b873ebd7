package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/ai"
	"github.com/spigell/ats-scorer/internal/ai/gemini"
	"github.com/spigell/ats-scorer/internal/analyzer"
	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/metrics"
	"github.com/spigell/ats-scorer/internal/secrets"
)

const geminiKeyPlaceholder = "your_gemini_api_key_here"

// newService assembles the analysis pipeline. AI suggestions are optional:
// any problem with the provider setup downgrades to rule-based suggestions.
func newService(ctx context.Context, cfg *Config, m *metrics.Metrics, log *zap.Logger) *analyzer.Service {
	var (
		suggester ai.Suggester
		err       error
	)

	if cfg.AI.Enabled {
		suggester, err = newSuggester(ctx, cfg.AI, log)
		switch {
		case errors.Is(err, secrets.ErrNotConfigured):
			log.Info("gemini api key is not configured, using rule-based suggestions",
				zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key"),
			)
		case err != nil:
			log.Warn("skipping AI suggestions", zap.Error(err))
		}
	}

	opts := []ai.AdvisorOption{ai.WithTimeout(cfg.AI.Timeout)}
	deps := analyzer.Deps{Logger: log.Named("analyzer")}
	if m != nil {
		opts = append(opts, ai.WithObserver(m))
		deps.Recorder = m
	}

	deps.Advisor = ai.NewAdvisor(suggester, log.Named("advisor"), opts...)
	log.Info("suggestion advisor ready",
		zap.Bool("ai_enabled", deps.Advisor.Enabled()),
		zap.Duration("ai_timeout", cfg.AI.Timeout),
	)

	return analyzer.New(deps)
}

func newSuggester(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Suggester, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:         "gemini api key",
		Value:        cfg.Gemini.APIKey,
		Env:          "GEMINI_API_KEY",
		File:         cfg.Gemini.APIKeyFile,
		Placeholders: []string{geminiKeyPlaceholder},
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	aiLogger := logger.WithCommonFields(log.Named("gemini"), "gemini", generator.Model())
	aiLogger.Info("AI suggestions enabled")

	return gemini.NewSuggester(generator, aiLogger, cfg.Gemini.MaxLogLength), nil
}
