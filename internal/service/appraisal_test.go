package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppraisalService(n *fakeNotifier) *appraisalService {
	svc := NewAppraisalService(logger.NewNop(), dto.NewValidator(), n, nil).(*appraisalService)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 17, 0, 0, 0, time.UTC) }
	svc.goAsync = func(fn func()) { fn() }
	return svc
}

func TestAppraisalService_RequestAppraisal(t *testing.T) {
	n := &fakeNotifier{}
	svc := newTestAppraisalService(n)

	form := dto.NewTradeInFormRequest(lundForm())
	err := svc.RequestAppraisal(context.Background(), dto.AppraisalRequest{FormData: &form, Estimate: lundEstimate()})
	require.NoError(t, err)

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "2019 Lund 1650 (Fishing)")
	assert.Contains(t, n.messages[0], "jamie@example.com")
	assert.Contains(t, n.messages[0], "$12000 - $14000 CAD")
}

func TestAppraisalService_NotifyFailureIsNotReturned(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	svc := newTestAppraisalService(n)

	form := dto.NewTradeInFormRequest(lundForm())
	assert.NoError(t, svc.RequestAppraisal(context.Background(), dto.AppraisalRequest{FormData: &form}))
	assert.Len(t, n.messages, 1)
}

func TestAppraisalService_RequiresContact(t *testing.T) {
	n := &fakeNotifier{}
	svc := newTestAppraisalService(n)

	form := dto.NewTradeInFormRequest(lundForm())
	form.Email = "no-at-sign"
	err := svc.RequestAppraisal(context.Background(), dto.AppraisalRequest{FormData: &form})
	assert.ErrorIs(t, err, model.ErrValidation)

	err = svc.RequestAppraisal(context.Background(), dto.AppraisalRequest{})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, n.messages)
}
