package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockSentry/pkg/util"
)

// Trigger is the raw, untyped trigger definition as written in YAML. It is
// converted to a typed definition at startup; unknown kinds fail loudly there
// rather than being skipped silently at evaluation time.
type Trigger struct {
	Kind         string  `yaml:"kind" validate:"required"`
	Action       string  `yaml:"action" default:"ALERT" validate:"oneof=BUY SELL ALERT"`
	CooldownDays int     `yaml:"cooldown_days" default:"3" validate:"gte=0"`
	Description  string  `yaml:"description"`
	Threshold    float64 `yaml:"threshold"`
	Variant      string  `yaml:"variant"`
	Period       int     `yaml:"period"`
	Ratio        float64 `yaml:"ratio"`
	MinStrength  float64 `yaml:"min_strength"`
}

// Watch binds a named symbol list to its trigger definitions.
type Watch struct {
	Name     string    `yaml:"name" validate:"required"`
	Symbols  []string  `yaml:"symbols" validate:"min=1"`
	Triggers []Trigger `yaml:"triggers" validate:"min=1,dive"`
}

type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"required"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Scan struct {
		Lookback       int           `yaml:"lookback" default:"260" validate:"gt=0"`
		MinBars        int           `yaml:"min_bars" default:"50" validate:"gt=0"`
		SeriesCacheTTL time.Duration `yaml:"series_cache_ttl" default:"1h"`
		Interval       time.Duration `yaml:"interval"` // 0 = run once and exit
		UseRunLock     bool          `yaml:"use_run_lock"`
	} `yaml:"scan"`

	State struct {
		Path            string `yaml:"path" default:"data/state.json" validate:"required"`
		SuppressionPath string `yaml:"suppression_path"`
	} `yaml:"state"`

	Scoring struct {
		Oversold map[string]float64 `yaml:"oversold"`
		Bullish  map[string]float64 `yaml:"bullish_trend"`
		Reversal map[string]float64 `yaml:"reversal"`
	} `yaml:"scoring"`

	Watches []Watch `yaml:"watches" validate:"min=1,dive"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port" default:"9090"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"stocksentry"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		BarsTable        string        `yaml:"bars_table" default:"stocksentry.daily_bars"`
		RowsTable        string        `yaml:"rows_table" default:"stocksentry.signal_rows"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"stocksentry.trigger-events"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"stocksentry"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file, applies defaults, and
// validates required fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	c.Redis.Port = util.ParseIntDefault(os.Getenv("REDIS_PORT"), c.Redis.Port)
	c.Redis.DB = util.ParseIntDefault(os.Getenv("REDIS_DB"), c.Redis.DB)
	if v := os.Getenv("STATE_PATH"); v != "" {
		c.State.Path = v
	}

	return c, nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if !c.ClickHouse.Enabled {
		return fmt.Errorf("clickhouse must be enabled: it is the only bar source")
	}
	return nil
}
