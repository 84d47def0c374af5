package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
	} `yaml:"data_source"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
		TTLRaw     string `yaml:"ttl"`
		// TTL is the parsed form of TTLRaw, resolved by Load.
		TTL time.Duration `yaml:"-"`
	} `yaml:"cache"`
	Watchlist struct {
		Symbols     []string `yaml:"symbols"`
		RefreshCron string   `yaml:"refresh_cron"`
	} `yaml:"watchlist"`
	Indicators struct {
		FastSMA        int     `yaml:"fast_sma"`
		SlowSMA        int     `yaml:"slow_sma"`
		BollingerSpan  int     `yaml:"bollinger_span"`
		BollingerWidth float64 `yaml:"bollinger_width"`
		RSIPeriod      int     `yaml:"rsi_period"`
		PeriodsPerYear int     `yaml:"periods_per_year"`
	} `yaml:"indicators"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("TRADEVIEW_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TRADEVIEW_DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TRADEVIEW_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("TRADEVIEW_CACHE_TTL"); v != "" {
		cfg.Cache.TTLRaw = v
	}
	if cfg.Cache.TTLRaw != "" {
		ttl, err := time.ParseDuration(cfg.Cache.TTLRaw)
		if err != nil {
			return nil, fmt.Errorf("parse cache.ttl: %w", err)
		}
		cfg.Cache.TTL = ttl
	}
	if v := os.Getenv("TRADEVIEW_WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitList(v)
	}
	if v := os.Getenv("TRADEVIEW_REFRESH_CRON"); v != "" {
		cfg.Watchlist.RefreshCron = v
	}
	if v := os.Getenv("TRADEVIEW_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TRADEVIEW_PERIODS_PER_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicators.PeriodsPerYear = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 5
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Watchlist.RefreshCron == "" {
		cfg.Watchlist.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Indicators.FastSMA == 0 {
		cfg.Indicators.FastSMA = 50
	}
	if cfg.Indicators.SlowSMA == 0 {
		cfg.Indicators.SlowSMA = 200
	}
	if cfg.Indicators.BollingerSpan == 0 {
		cfg.Indicators.BollingerSpan = 20
	}
	if cfg.Indicators.BollingerWidth == 0 {
		cfg.Indicators.BollingerWidth = 2.0
	}
	if cfg.Indicators.RSIPeriod == 0 {
		cfg.Indicators.RSIPeriod = 14
	}
	if cfg.Indicators.PeriodsPerYear == 0 {
		cfg.Indicators.PeriodsPerYear = 252
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}

	return cfg, nil
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Indicators.FastSMA <= 0 || c.Indicators.SlowSMA <= 0 {
		return fmt.Errorf("indicator SMA windows must be positive")
	}
	if c.Indicators.FastSMA >= c.Indicators.SlowSMA {
		return fmt.Errorf("indicators.fast_sma must be shorter than indicators.slow_sma")
	}
	if c.Indicators.PeriodsPerYear <= 0 {
		return fmt.Errorf("indicators.periods_per_year must be positive")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	for _, sym := range c.Watchlist.Symbols {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
