package service

import (
	"context"
	"sync"

	"tradein-estimator/internal/model"
)

type fakeHistoricalRepo struct {
	records []model.HistoricalRecord
	loadErr error
	loads   int
}

func (f *fakeHistoricalRepo) Load(context.Context) error {
	f.loads++
	return f.loadErr
}

func (f *fakeHistoricalRepo) Records() []model.HistoricalRecord {
	return f.records
}

type fakeAIRepo struct {
	estimate *model.Estimate
	reply    string
	err      error

	gotProfile model.BoatProfile
	gotSimilar []model.ScoredRecord
	gotPhotos  []model.Photo
	gotHistory []model.ChatMessage
}

func (f *fakeAIRepo) EstimateTradeIn(_ context.Context, profile model.BoatProfile, similar []model.ScoredRecord, photos []model.Photo) (*model.Estimate, error) {
	f.gotProfile, f.gotSimilar, f.gotPhotos = profile, similar, photos
	if f.err != nil {
		return nil, f.err
	}
	est := *f.estimate
	return &est, nil
}

func (f *fakeAIRepo) Chat(_ context.Context, _ string, history []model.ChatMessage) (string, error) {
	f.gotHistory = history
	return f.reply, f.err
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}
