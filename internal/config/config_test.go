package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.alphavantage.co", cfg.Provider.BaseURL)
	assert.Equal(t, 30, cfg.Provider.HistoryDays)
	assert.Equal(t, 5, cfg.Provider.MaxAttempts)
	assert.Equal(t, 15000, cfg.Provider.InterDelayMs)
	assert.Equal(t, 15*time.Second, cfg.InterRequestDelay())
	assert.Equal(t, "data", cfg.Storage.DataDir)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"provider:\n  api_key: from-yaml\n  history_days: 7\nsymbol_list: \"AAPL\"\n"), 0644))

	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("HISTORY_DAYS", "14")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.APIKey, "env wins over yaml")
	assert.Equal(t, 14, cfg.Provider.HistoryDays)
	assert.Equal(t, "AAPL", cfg.SymbolList)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Error(t, cfg.Validate())
	cfg.Provider.APIKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestSymbolsDefaultUniverse(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, model.DefaultSymbols, cfg.Symbols())
}

func TestSymbolsOverride(t *testing.T) {
	cfg := &Config{SymbolList: " aapl, RELIANCE.NS ,UNKNOWN1,, "}
	specs := cfg.Symbols()

	require.Len(t, specs, 3)
	assert.Equal(t, "AAPL", specs[0].Symbol)
	assert.Equal(t, "Apple Inc.", specs[0].DisplayName, "known symbols keep their metadata")
	assert.Equal(t, "RELIANCE.NS", specs[1].Symbol)
	assert.Equal(t, "Energy", specs[1].Sector)
	assert.Equal(t, "UNKNOWN1", specs[2].Symbol)
	assert.Equal(t, "UNKNOWN1", specs[2].DisplayName)
	assert.Equal(t, "Unknown", specs[2].Sector)
}
