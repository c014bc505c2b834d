package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source names the backend records are read from
const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"
)

// Config holds all application-level configuration
type Config struct {
	// Listing service
	Source           string `yaml:"source"` // api | postgres
	APIBaseURL       string `yaml:"api_base_url"`
	APIKey           string `yaml:"api_key"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms"`
	MaxRetries       int    `yaml:"max_retries"` // listing and search loads only

	// Response cache (empty RedisAddr disables it)
	RedisAddr       string `yaml:"redis_addr"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`

	// Postgres mirror
	DatabaseURL string `yaml:"database_url"`

	// Listing view
	PageSize        int `yaml:"page_size"`
	RevealLatencyMs int `yaml:"reveal_latency_ms"` // simulated delay before a reveal applies

	// Neighbor navigation
	ProbeBound   int `yaml:"probe_bound"`
	ProbeDelayMs int `yaml:"probe_delay_ms"`

	// Spin viewer
	Spin SpinConfig `yaml:"spin"`

	// Snapshot rendering
	SnapshotTimeoutMs int `yaml:"snapshot_timeout_ms"`

	// Output
	CSVFilePath string `yaml:"csv_file_path"`
	LogLevel    string `yaml:"log_level"`
}

// SpinConfig tunes the 360 viewer
type SpinConfig struct {
	ThresholdPx      float64 `yaml:"threshold_px"`
	Sensitivity      float64 `yaml:"sensitivity"`
	Damping          float64 `yaml:"damping"`
	VelocityFloor    float64 `yaml:"velocity_floor"`
	MomentumTickMs   int     `yaml:"momentum_tick_ms"`
	AutoRotateTickMs int     `yaml:"autorotate_tick_ms"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Source:           SourceAPI,
		APIBaseURL:       "http://localhost:8080",
		RequestTimeoutMs: 20000,
		MaxRetries:       3,
		CacheTTLSeconds:  3600,
		PageSize:         15,
		RevealLatencyMs:  500,
		ProbeBound:       100,
		ProbeDelayMs:     0,
		Spin: SpinConfig{
			ThresholdPx:      50,
			Sensitivity:      1.0,
			Damping:          0.85,
			VelocityFloor:    0.2,
			MomentumTickMs:   60,
			AutoRotateTickMs: 120,
		},
		SnapshotTimeoutMs: 30000,
		CSVFilePath:       "output/listing.csv",
		LogLevel:          "info",
	}
}

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// LoadFile applies a YAML file over the defaults, then environment overrides.
// An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Source {
	case SourceAPI:
		if strings.TrimSpace(c.APIBaseURL) == "" {
			return fmt.Errorf("api_base_url is required when source is %q", SourceAPI)
		}
	case SourcePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("database_url is required when source is %q", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceAPI, SourcePostgres)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.ProbeBound <= 0 {
		return fmt.Errorf("probe_bound must be positive, got %d", c.ProbeBound)
	}
	if c.Spin.Damping <= 0 || c.Spin.Damping >= 1 {
		return fmt.Errorf("spin.damping must be in (0, 1), got %v", c.Spin.Damping)
	}
	return nil
}

func applyEnv(c *Config) {
	c.Source = getEnv("SOURCE", c.Source)
	c.APIBaseURL = getEnv("API_BASE_URL", c.APIBaseURL)
	c.APIKey = getEnv("API_KEY", c.APIKey)
	c.RequestTimeoutMs = getEnvInt("REQUEST_TIMEOUT_MS", c.RequestTimeoutMs)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", c.CacheTTLSeconds)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.PageSize = getEnvInt("PAGE_SIZE", c.PageSize)
	c.RevealLatencyMs = getEnvInt("REVEAL_LATENCY_MS", c.RevealLatencyMs)
	c.ProbeBound = getEnvInt("PROBE_BOUND", c.ProbeBound)
	c.ProbeDelayMs = getEnvInt("PROBE_DELAY_MS", c.ProbeDelayMs)
	c.Spin.ThresholdPx = getEnvFloat("SPIN_THRESHOLD_PX", c.Spin.ThresholdPx)
	c.Spin.Sensitivity = getEnvFloat("SPIN_SENSITIVITY", c.Spin.Sensitivity)
	c.Spin.Damping = getEnvFloat("SPIN_DAMPING", c.Spin.Damping)
	c.Spin.VelocityFloor = getEnvFloat("SPIN_VELOCITY_FLOOR", c.Spin.VelocityFloor)
	c.Spin.MomentumTickMs = getEnvInt("SPIN_MOMENTUM_MS", c.Spin.MomentumTickMs)
	c.Spin.AutoRotateTickMs = getEnvInt("SPIN_AUTOROTATE_MS", c.Spin.AutoRotateTickMs)
	c.SnapshotTimeoutMs = getEnvInt("SNAPSHOT_TIMEOUT_MS", c.SnapshotTimeoutMs)
	c.CSVFilePath = getEnv("CSV_FILE_PATH", c.CSVFilePath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
