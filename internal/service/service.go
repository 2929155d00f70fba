package service

import (
	"tradein-estimator/config"
	"tradein-estimator/internal/repository"
	"tradein-estimator/pkg/cache"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
	"tradein-estimator/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	EstimateService    EstimateService
	ChatService        ChatService
	EstimateLogService EstimateLogService
	AppraisalService   AppraisalService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier telegram.Notifier,
	m *metrics.Manager,
) *Service {
	estimateLogService := NewEstimateLogService(inmemoryCache, cfg.Cache.DefaultExpiration)
	return &Service{
		EstimateService:    NewEstimateService(cfg.Gemini, log, validator, repo.HistoricalRepo, repo.GeminiAIRepo, estimateLogService, m),
		ChatService:        NewChatService(log, repo.GeminiAIRepo, m),
		EstimateLogService: estimateLogService,
		AppraisalService:   NewAppraisalService(log, validator, notifier, m),
	}
}
