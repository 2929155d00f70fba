package repository

import (
	"context"
	"io/fs"

	"tradein-estimator/config"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
)

type Repository struct {
	HistoricalRepo HistoricalRepository
	GeminiAIRepo   AIRepository
}

func NewRepository(ctx context.Context, cfg *config.Config, historicalFS fs.FS, log *logger.Logger, m *metrics.Manager) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(ctx, cfg.Gemini, log, m)
	if err != nil {
		return nil, err
	}

	return &Repository{
		HistoricalRepo: NewHistoricalRepository(historicalFS, cfg.Historical.Sources, log, m),
		GeminiAIRepo:   geminiAIRepo,
	}, nil
}
