package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"FundLens/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	MFAPI struct {
		BaseURL string        `yaml:"base_url" default:"https://api.mfapi.in"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"mfapi"`
	Cache struct {
		Backend       string        `yaml:"backend" default:"memory"` // memory or layered
		MaxEntries    int           `yaml:"max_entries" default:"2000"`
		CatalogTTL    time.Duration `yaml:"catalog_ttl" default:"12h"`
		DetailsTTL    time.Duration `yaml:"details_ttl" default:"1h"`
		CleanupPeriod time.Duration `yaml:"cleanup_period" default:"5m"`
		L1TTL         time.Duration `yaml:"l1_ttl" default:"1m"` // in-process copy lifetime
	} `yaml:"cache"`
	Redis struct {
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size" default:"10"`
		Prefix   string `yaml:"prefix" default:"fundlens"`
	} `yaml:"redis"`
	Analysis struct {
		Timezone      string `yaml:"timezone" default:"Asia/Kolkata"`
		DefaultWindow string `yaml:"default_window" default:"1Y"`
	} `yaml:"analysis"`
	Archive struct {
		Backend string        `yaml:"backend" default:"none"` // none, clickhouse or kafka
		Timeout time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"archive"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"fundlens"`
		Table            string        `yaml:"table" default:"nav_history"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"fundlens.nav"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"500ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Catalog struct {
		Enabled    bool          `yaml:"enabled" default:"true"`
		Cron       string        `yaml:"cron" default:"0 0 */6 * * *"`
		RunOnStart bool          `yaml:"run_on_start"`
		LockTTL    time.Duration `yaml:"lock_ttl" default:"5m"`
	} `yaml:"catalog"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled" default:"true"`
		Burst        float64 `yaml:"burst" default:"30"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"10"`
	} `yaml:"ratelimit"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. Keys absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file falls back to defaults so the service can run from env alone.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if _, err := os.Stat(path); err == nil {
		if c, err = Load(path); err != nil {
			return nil, err
		}
	} else {
		c = Default()
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("MFAPI_BASE_URL"); v != "" {
		c.MFAPI.BaseURL = v
	}
	if v := getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := getenv("REDIS_PORT"); v != "" {
		c.Redis.Port = util.ParseIntDefault(v, c.Redis.Port)
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("ARCHIVE_BACKEND"); v != "" {
		c.Archive.Backend = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("TZ_NAME"); v != "" {
		c.Analysis.Timezone = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.MFAPI.BaseURL == "" {
		return fmt.Errorf("mfapi.base_url is required")
	}
	switch c.Cache.Backend {
	case "memory", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}
	if c.Cache.CleanupPeriod <= 0 {
		return fmt.Errorf("cache.cleanup_period must be positive")
	}
	if c.Cache.L1TTL <= 0 {
		return fmt.Errorf("cache.l1_ttl must be positive")
	}
	if _, err := time.LoadLocation(c.Analysis.Timezone); err != nil {
		return fmt.Errorf("analysis.timezone: %w", err)
	}
	switch c.Archive.Backend {
	case "none", "clickhouse":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when archive.backend is 'kafka'")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when archive.backend is 'kafka'")
		}
	default:
		return fmt.Errorf("archive.backend must be 'none', 'clickhouse' or 'kafka', got '%s'", c.Archive.Backend)
	}
	if c.Catalog.Enabled && c.Catalog.Cron == "" {
		return fmt.Errorf("catalog.cron is required when the catalog job is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Burst < 1 || c.RateLimit.RefillPerSec <= 0) {
		return fmt.Errorf("ratelimit.burst must be >= 1 and ratelimit.refill_per_sec > 0")
	}
	return nil
}
