package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.EstimateModel)
	assert.InDelta(t, 0.1, cfg.Gemini.Temperature, 0.0001)
	assert.Equal(t, 3, cfg.Gemini.MaxImages)
	assert.Equal(t, "public", cfg.Historical.Dir)
	require.Len(t, cfg.Historical.Sources, 2)
	assert.Equal(t, "trade-in-data.csv", cfg.Historical.Sources[0].File)
	assert.Equal(t, "Fishing", cfg.Historical.Sources[0].DefaultBoatType)
	assert.Equal(t, "Boat Year", cfg.Historical.Sources[1].Columns["year"])
	assert.Equal(t, 24*time.Hour, cfg.Cache.DefaultExpiration)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `
api:
  port: 9090
gemini:
  chat_model: gemini-custom
historical:
  dir: data
  sources:
    - file: only.csv
      default_boat_type: Pontoon
      columns:
        year: Yr
        make: Make
        model: Model
        trade_in_value: Value
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "gemini-custom", cfg.Gemini.ChatModel)
	assert.Equal(t, "data", cfg.Historical.Dir)
	require.Len(t, cfg.Historical.Sources, 1)
	assert.Equal(t, "Pontoon", cfg.Historical.Sources[0].DefaultBoatType)
	assert.Equal(t, "Yr", cfg.Historical.Sources[0].Columns["year"])
}
