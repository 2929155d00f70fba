package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"tradein-estimator/config"
	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/cache"
	"tradein-estimator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lundRequest() dto.EstimateRequest {
	form := dto.NewTradeInFormRequest(lundForm())
	return dto.EstimateRequest{FormData: &form}
}

func newTestEstimateService(ai *fakeAIRepo, hist *fakeHistoricalRepo) (EstimateService, EstimateLogService) {
	logs := NewEstimateLogService(cache.NewCache(time.Hour, time.Hour), time.Hour)
	svc := NewEstimateService(config.Gemini{MaxImages: 3}, logger.NewNop(), dto.NewValidator(), hist, ai, logs, nil)
	return svc, logs
}

func TestEstimateService_Estimate(t *testing.T) {
	hist := &fakeHistoricalRepo{records: []model.HistoricalRecord{
		{Year: 2005, Make: "Sea Ray", Model: "180", BoatType: "Bowrider", EngineHP: 190, TradeInValueCAD: 5000},
		{Year: 2019, Make: "Lund", Model: "1650", BoatType: "Fishing", EngineHP: 90, TradeInValueCAD: 14500},
	}}
	est := lundEstimate()
	ai := &fakeAIRepo{estimate: &est}
	svc, logs := newTestEstimateService(ai, hist)

	req := lundRequest()
	req.ImageParts = []dto.ImagePart{{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString([]byte("png-bytes"))}}

	got, err := svc.Estimate(context.Background(), "session-1", model.AudienceCustomer, req)
	require.NoError(t, err)

	assert.Equal(t, 12000, got.Low)
	assert.Equal(t, 1, hist.loads)
	require.Len(t, ai.gotSimilar, 2)
	assert.Equal(t, "Lund", ai.gotSimilar[0].Make)
	assert.Equal(t, 2019, ai.gotProfile.Year)
	require.Len(t, ai.gotPhotos, 1)
	assert.Equal(t, []byte("png-bytes"), ai.gotPhotos[0].Data)

	log := logs.Get("session-1", model.AudienceCustomer)
	assert.Len(t, strings.Split(log, "\n"), 2)
	assert.Contains(t, log, "Jamie Doe")
	assert.Empty(t, logs.Get("session-1", model.AudienceInternal))
}

func TestEstimateService_UnsuccessfulEstimateNotLogged(t *testing.T) {
	zero := model.Estimate{LeadQuality: model.LeadQualityLow}
	svc, logs := newTestEstimateService(&fakeAIRepo{estimate: &zero}, &fakeHistoricalRepo{})

	_, err := svc.Estimate(context.Background(), "session-1", model.AudienceCustomer, lundRequest())
	require.NoError(t, err)
	assert.Empty(t, logs.Get("session-1", model.AudienceCustomer))
}

func TestEstimateService_Validation(t *testing.T) {
	est := lundEstimate()

	tooMany := lundRequest()
	for i := 0; i < 4; i++ {
		tooMany.ImageParts = append(tooMany.ImageParts, dto.ImagePart{MimeType: "image/jpeg", Data: "aGVsbG8="})
	}
	notImage := lundRequest()
	notImage.ImageParts = []dto.ImagePart{{MimeType: "application/pdf", Data: "aGVsbG8="}}
	badData := lundRequest()
	badData.ImageParts = []dto.ImagePart{{MimeType: "image/jpeg", Data: "not base64!"}}
	missingYear := lundRequest()
	missingYear.FormData.Year = ""

	tests := []struct {
		name string
		req  dto.EstimateRequest
	}{
		{name: "missing form", req: dto.EstimateRequest{}},
		{name: "missing year", req: missingYear},
		{name: "too many images", req: tooMany},
		{name: "not an image", req: notImage},
		{name: "bad base64", req: badData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeAIRepo{estimate: &est}
			svc, _ := newTestEstimateService(ai, &fakeHistoricalRepo{})
			_, err := svc.Estimate(context.Background(), "s", model.AudienceCustomer, tt.req)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Nil(t, ai.gotPhotos)
		})
	}
}

func TestEstimateService_UpstreamError(t *testing.T) {
	ai := &fakeAIRepo{err: fmt.Errorf("%w: %w", model.ErrUpstreamCall, errors.New("timeout"))}
	svc, logs := newTestEstimateService(ai, &fakeHistoricalRepo{})

	_, err := svc.Estimate(context.Background(), "s", model.AudienceInternal, lundRequest())
	assert.ErrorIs(t, err, model.ErrUpstreamCall)
	assert.Empty(t, logs.Get("s", model.AudienceInternal))
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, "success", outcomeOf(nil))
	assert.Equal(t, "validation_error", outcomeOf(model.ErrValidation))
	assert.Equal(t, "malformed_response", outcomeOf(fmt.Errorf("x: %w", model.ErrMalformedResponse)))
	assert.Equal(t, "upstream_error", outcomeOf(errors.New("other")))
}
