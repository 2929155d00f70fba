package cmd

import (
	"context"

	"tradein-estimator/config"
	"tradein-estimator/internal/dto"
	"tradein-estimator/pkg/cache"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
	"tradein-estimator/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zapcore"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	metrics   *metrics.Manager
	notifier  telegram.Notifier
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create telegram notifier", logger.ErrorField(err))
		return nil, err
	}

	if bot, ok := notifier.(*telegram.BotNotifier); ok {
		log = log.WithAlerts(bot, zapcore.ErrorLevel)
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: dto.NewValidator(),
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		metrics:   metrics.New(),
		notifier:  notifier,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	// stderr does not support fsync on most platforms
	_ = d.log.Sync()
	return nil
}
