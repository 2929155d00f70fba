package repository

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"tradein-estimator/config"
	"tradein-estimator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historicalFS() fstest.MapFS {
	return fstest.MapFS{
		"trade-in-data.csv": &fstest.MapFile{Data: []byte(
			"Year,Make,Model,BoatType,EngineHP,TradeInValueCAD\n" +
				"2019,Lund,1650,Fishing,90,14500\n" +
				"2016,Bennington,22 SSBX,Pontoon,115,21000\n")},
		"more-trade-in-data.csv": &fstest.MapFile{Data: []byte(
			"Boat Year,Make,Model,Engine HP,Trade in Value\n" +
				"2012,Princecraft,Vectra 21,90,\"$12,345\"\n")},
	}
}

func TestHistoricalRepository_Load(t *testing.T) {
	repo := NewHistoricalRepository(historicalFS(), config.DefaultHistoricalSources(), logger.NewNop(), nil)

	assert.Empty(t, repo.Records())
	require.NoError(t, repo.Load(context.Background()))

	records := repo.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Lund", records[0].Make)
	assert.Equal(t, "Bennington", records[1].Make)
	assert.Equal(t, "Princecraft", records[2].Make)
	assert.Equal(t, "Unknown", records[2].BoatType)
	assert.Equal(t, 12345.0, records[2].TradeInValueCAD)
}

func TestHistoricalRepository_MissingSource(t *testing.T) {
	fsys := historicalFS()
	delete(fsys, "trade-in-data.csv")

	repo := NewHistoricalRepository(fsys, config.DefaultHistoricalSources(), logger.NewNop(), nil)
	require.NoError(t, repo.Load(context.Background()))

	records := repo.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Princecraft", records[0].Make)
}

func TestHistoricalRepository_AllSourcesMissing(t *testing.T) {
	repo := NewHistoricalRepository(fstest.MapFS{}, config.DefaultHistoricalSources(), logger.NewNop(), nil)
	require.NoError(t, repo.Load(context.Background()))

	assert.NotNil(t, repo.Records())
	assert.Empty(t, repo.Records())
}

func TestHistoricalRepository_LoadOnce(t *testing.T) {
	fsys := historicalFS()
	repo := NewHistoricalRepository(fsys, config.DefaultHistoricalSources(), logger.NewNop(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Load(context.Background()))
		}()
	}
	wg.Wait()
	require.Len(t, repo.Records(), 3)

	// later edits to the sources are not picked up
	fsys["trade-in-data.csv"] = &fstest.MapFile{Data: []byte("Year,Make,Model,BoatType,EngineHP,TradeInValueCAD\n")}
	require.NoError(t, repo.Load(context.Background()))
	assert.Len(t, repo.Records(), 3)
}
