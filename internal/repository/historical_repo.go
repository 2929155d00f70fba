package repository

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"tradein-estimator/config"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HistoricalRepository serves the dealership's past trade-ins. Load reads the
// configured sources once; Records is read-only afterwards.
type HistoricalRepository interface {
	Load(ctx context.Context) error
	Records() []model.HistoricalRecord
}

type historicalRepository struct {
	fsys    fs.FS
	sources []config.HistoricalSource
	log     *logger.Logger
	metrics *metrics.Manager

	group   singleflight.Group
	mu      sync.RWMutex
	loaded  bool
	records []model.HistoricalRecord
}

func NewHistoricalRepository(fsys fs.FS, sources []config.HistoricalSource, log *logger.Logger, m *metrics.Manager) HistoricalRepository {
	return &historicalRepository{
		fsys:    fsys,
		sources: sources,
		log:     log,
		metrics: m,
	}
}

// Load is idempotent. Concurrent first callers share one load; a source that
// fails contributes nothing and is only logged.
func (r *historicalRepository) Load(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err, _ := r.group.Do("historical", func() (interface{}, error) {
		r.mu.RLock()
		loaded := r.loaded
		r.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		records, err := r.loadAll(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.records = records
		r.loaded = true
		r.mu.Unlock()

		r.metrics.SetHistoricalRecords(len(records))
		r.log.InfoContext(ctx, "Historical trade-in data loaded",
			logger.IntField("sources", len(r.sources)),
			logger.IntField("records", len(records)),
		)
		return nil, nil
	})
	return err
}

func (r *historicalRepository) loadAll(ctx context.Context) ([]model.HistoricalRecord, error) {
	perSource := make([][]model.HistoricalRecord, len(r.sources))

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range r.sources {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			records, err := r.loadSource(src)
			if err != nil {
				r.log.ErrorContext(ctx, "Could not load or parse historical source",
					logger.StringField("file", src.File),
					logger.ErrorField(err),
					logger.AlertField(),
				)
				return nil
			}
			perSource[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []model.HistoricalRecord
	for _, records := range perSource {
		combined = append(combined, records...)
	}
	if combined == nil {
		combined = []model.HistoricalRecord{}
	}
	return combined, nil
}

func (r *historicalRepository) loadSource(src config.HistoricalSource) ([]model.HistoricalRecord, error) {
	f, err := r.fsys.Open(src.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataSourceUnavailable, err)
	}
	defer f.Close()

	records, err := ParseHistoricalCSV(f, NewColumnMapping(src), src.DefaultBoatType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataSourceUnavailable, src.File, err)
	}
	return records, nil
}

// Records returns the loaded set, empty before Load. Callers must not modify it.
func (r *historicalRepository) Records() []model.HistoricalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records
}
