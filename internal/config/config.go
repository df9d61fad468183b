package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockPulse/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		APIKey       string `yaml:"api_key"`
		BaseURL      string `yaml:"base_url"`
		HistoryDays  int    `yaml:"history_days"`
		MaxAttempts  int    `yaml:"max_attempts"`
		InterDelayMs int    `yaml:"inter_request_delay_ms"`
	} `yaml:"provider"`
	SymbolList string `yaml:"symbol_list"` // comma-separated, empty = built-in universe
	Storage    struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		IngestCron string `yaml:"ingest_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SYMBOL_LIST"); v != "" {
		cfg.SymbolList = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Provider.HistoryDays = n
		}
	}
	if v := os.Getenv("MAX_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Provider.MaxAttempts = n
		}
	}
	if v := os.Getenv("INTER_REQUEST_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Provider.InterDelayMs = n
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_INGEST"); v != "" {
		cfg.Schedule.IngestCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://www.alphavantage.co"
	}
	if cfg.Provider.HistoryDays == 0 {
		cfg.Provider.HistoryDays = 30
	}
	if cfg.Provider.MaxAttempts == 0 {
		cfg.Provider.MaxAttempts = 5
	}
	if cfg.Provider.InterDelayMs == 0 {
		cfg.Provider.InterDelayMs = 15000
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Schedule.IngestCron == "" {
		// every day at 06:30
		cfg.Schedule.IngestCron = "0 30 6 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required (ALPHAVANTAGE_API_KEY)")
	}
	if c.Provider.HistoryDays <= 0 {
		return fmt.Errorf("provider.history_days must be positive")
	}
	if c.Provider.MaxAttempts <= 0 {
		return fmt.Errorf("provider.max_attempts must be positive")
	}
	return nil
}

// InterRequestDelay returns the throttle applied between symbols during a bulk run.
func (c *Config) InterRequestDelay() time.Duration {
	return time.Duration(c.Provider.InterDelayMs) * time.Millisecond
}

// Symbols resolves the configured universe. A comma-separated SymbolList
// overrides the built-in defaults; symbols found in the default universe keep
// their display name and sector, unknown ones get the symbol itself as name.
func (c *Config) Symbols() []model.SymbolSpec {
	if strings.TrimSpace(c.SymbolList) == "" {
		return model.DefaultSymbols
	}

	known := make(map[string]model.SymbolSpec, len(model.DefaultSymbols))
	for _, s := range model.DefaultSymbols {
		known[s.Symbol] = s
	}

	var specs []model.SymbolSpec
	for _, raw := range strings.Split(c.SymbolList, ",") {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" {
			continue
		}
		if spec, ok := known[sym]; ok {
			specs = append(specs, spec)
			continue
		}
		specs = append(specs, model.SymbolSpec{Symbol: sym, DisplayName: sym, Sector: "Unknown"})
	}
	return specs
}
