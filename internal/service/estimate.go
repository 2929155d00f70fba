package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"tradein-estimator/config"
	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/internal/repository"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
)

type EstimateService interface {
	Estimate(ctx context.Context, sessionID string, audience model.Audience, req dto.EstimateRequest) (*model.Estimate, error)
}

type estimateService struct {
	cfg            config.Gemini
	log            *logger.Logger
	validator      *goValidator.Validate
	historicalRepo repository.HistoricalRepository
	aiRepo         repository.AIRepository
	estimateLog    EstimateLogService
	metrics        *metrics.Manager
}

func NewEstimateService(
	cfg config.Gemini,
	log *logger.Logger,
	validator *goValidator.Validate,
	historicalRepo repository.HistoricalRepository,
	aiRepo repository.AIRepository,
	estimateLog EstimateLogService,
	m *metrics.Manager,
) EstimateService {
	return &estimateService{
		cfg:            cfg,
		log:            log,
		validator:      validator,
		historicalRepo: historicalRepo,
		aiRepo:         aiRepo,
		estimateLog:    estimateLog,
		metrics:        m,
	}
}

// Estimate values one submitted boat. Successful estimates are appended to
// the session's log for the given audience.
func (s *estimateService) Estimate(ctx context.Context, sessionID string, audience model.Audience, req dto.EstimateRequest) (*model.Estimate, error) {
	form, photos, err := s.validate(req)
	if err != nil {
		s.metrics.RecordEstimate(metrics.OutcomeValidation)
		return nil, err
	}

	if err := s.historicalRepo.Load(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to load historical trade-in data", logger.ErrorField(err))
		return nil, err
	}
	similar := TopSimilar(form.Boat, s.historicalRepo.Records(), DefaultSimilarCount)

	est, err := s.aiRepo.EstimateTradeIn(ctx, form.Boat, similar, photos)
	if err != nil {
		s.metrics.RecordEstimate(outcomeOf(err))
		return nil, err
	}
	s.metrics.RecordEstimate(metrics.OutcomeSuccess)

	if est.Succeeded() && sessionID != "" {
		s.estimateLog.Append(sessionID, audience, form, *est)
	}
	return est, nil
}

func (s *estimateService) validate(req dto.EstimateRequest) (model.TradeInForm, []model.Photo, error) {
	if req.FormData == nil {
		return model.TradeInForm{}, nil, fmt.Errorf("%w: Missing formData in request body", model.ErrValidation)
	}

	fieldErrs, err := dto.ValidateForBoatProfile(s.validator, *req.FormData)
	if err != nil {
		return model.TradeInForm{}, nil, err
	}
	if len(fieldErrs) > 0 {
		return model.TradeInForm{}, nil, fmt.Errorf("%w: %s", model.ErrValidation, dto.FormatFieldErrors(fieldErrs))
	}

	form, err := req.FormData.ToForm()
	if err != nil {
		return model.TradeInForm{}, nil, err
	}

	photos, err := s.decodeImages(req.ImageParts)
	if err != nil {
		return model.TradeInForm{}, nil, err
	}
	return form, photos, nil
}

func (s *estimateService) decodeImages(parts []dto.ImagePart) ([]model.Photo, error) {
	if s.cfg.MaxImages > 0 && len(parts) > s.cfg.MaxImages {
		return nil, fmt.Errorf("%w: at most %d images are allowed", model.ErrValidation, s.cfg.MaxImages)
	}

	photos := make([]model.Photo, 0, len(parts))
	for i, part := range parts {
		if err := s.validator.Struct(part); err != nil {
			return nil, fmt.Errorf("%w: image %d: mimeType must be image/* and data base64", model.ErrValidation, i+1)
		}
		data, err := base64.StdEncoding.DecodeString(part.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", model.ErrValidation, i+1, err)
		}
		photos = append(photos, model.Photo{MIMEType: part.MimeType, Data: data})
	}
	return photos, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, model.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, model.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeUpstream
	}
}
