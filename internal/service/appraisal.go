package service

import (
	"context"
	"fmt"
	"time"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"
	"tradein-estimator/pkg/telegram"
	"tradein-estimator/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
)

const notifyTimeout = 30 * time.Second

type AppraisalService interface {
	RequestAppraisal(ctx context.Context, req dto.AppraisalRequest) error
}

type appraisalService struct {
	log       *logger.Logger
	validator *goValidator.Validate
	notifier  telegram.Notifier
	metrics   *metrics.Manager
	now       func() time.Time
	goAsync   func(fn func())
}

func NewAppraisalService(log *logger.Logger, validator *goValidator.Validate, notifier telegram.Notifier, m *metrics.Manager) AppraisalService {
	return &appraisalService{
		log:       log,
		validator: validator,
		notifier:  notifier,
		metrics:   m,
		now:       time.Now,
		goAsync:   func(fn func()) { utils.GoSafe(log, fn) },
	}
}

// RequestAppraisal validates the full form and notifies staff in the
// background. A failed notification is logged, not returned.
func (s *appraisalService) RequestAppraisal(ctx context.Context, req dto.AppraisalRequest) error {
	if req.FormData == nil {
		return fmt.Errorf("%w: Missing formData in request body", model.ErrValidation)
	}
	fieldErrs := map[string]string{}
	for _, step := range []int{dto.StepBoatInfo, dto.StepCondition, dto.StepContact} {
		stepErrs, err := dto.ValidateStep(s.validator, step, *req.FormData)
		if err != nil {
			return err
		}
		for k, v := range stepErrs {
			fieldErrs[k] = v
		}
	}
	if len(fieldErrs) > 0 {
		return fmt.Errorf("%w: %s", model.ErrValidation, dto.FormatFieldErrors(fieldErrs))
	}

	form, err := req.FormData.ToForm()
	if err != nil {
		return err
	}

	message := telegram.FormatAppraisalAlert(newAppraisalAlert(form, req.Estimate, s.now()))
	s.metrics.RecordAppraisal()

	notifyCtx := context.WithoutCancel(ctx)
	s.goAsync(func() {
		ctx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, message); err != nil {
			s.log.ErrorContext(ctx, "Failed to notify staff of appraisal request", logger.ErrorField(err))
		}
	})

	s.log.InfoContext(ctx, "Appraisal requested", logger.StringField("email", form.Contact.Email))
	return nil
}

func newAppraisalAlert(form model.TradeInForm, est model.Estimate, now time.Time) telegram.AppraisalAlert {
	boat := form.Boat
	leadQuality := est.LeadQuality
	if leadQuality == "" {
		leadQuality = model.LeadQualityLow
	}
	return telegram.AppraisalAlert{
		RequestedAt: now,
		FullName:    utils.CleanToValidUTF8(form.Contact.FullName),
		Email:       form.Contact.Email,
		Phone:       form.Contact.Phone,
		PostalCode:  form.Contact.PostalCode,
		Boat:        utils.CleanToValidUTF8(fmt.Sprintf("%d %s %s (%s)", boat.Year, boat.Make, boat.Model, boat.BoatType)),
		Horsepower:  boat.Horsepower,
		EngineHours: boat.EngineHours,
		Trailer:     boat.Trailer,
		Condition:   fmt.Sprintf("%s / %s", boat.CosmeticCondition, boat.MechanicalCondition),
		Low:         est.Low,
		High:        est.High,
		LeadQuality: string(leadQuality),
	}
}
