package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every semantic validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Log         logger.Config `yaml:"log"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"30s"`
		RateLimit       struct {
			Burst        float64 `yaml:"burst" default:"20" validate:"gt=0"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"5" validate:"gte=0"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Pipeline Pipeline `yaml:"pipeline"`
	Universe struct {
		Symbols      []string `yaml:"symbols"`
		LookbackDays int      `yaml:"lookback_days" default:"120" validate:"gte=1"`
		NewsHours    int      `yaml:"news_hours" default:"72" validate:"gte=1"`
		NewsLimit    int      `yaml:"news_limit" default:"500" validate:"gte=1"`
		// Interval schedules store-backed runs; 0 disables the scheduler.
		Interval time.Duration `yaml:"interval" default:"15m"`
	} `yaml:"universe"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers" validate:"required_if=Enabled true"`
		PricesTopic  string   `yaml:"prices_topic" default:"finsignal.prices"`
		NewsTopic    string   `yaml:"news_topic" default:"finsignal.news"`
		AlertsTopic  string   `yaml:"alerts_topic" default:"finsignal.alerts"`
		LogsTopic    string   `yaml:"logs_topic" default:"finsignal.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"finsignal"`
			Workers    int           `yaml:"workers" default:"1" validate:"gte=1"`
			BufferSize int           `yaml:"buffer_size" default:"64"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
		// LogShipping batches warn-and-above log events onto LogsTopic.
		LogShipping struct {
			Enabled    bool          `yaml:"enabled" default:"true"`
			Interval   time.Duration `yaml:"interval" default:"30s"`
			MaxEntries int           `yaml:"max_entries" default:"100" validate:"gte=1"`
			MinLevel   string        `yaml:"min_level" default:"warn" validate:"oneof=debug info warn error"`
		} `yaml:"log_shipping"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" validate:"required_if=Enabled true"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"finsignal"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"finsignal:"`
		// LocalTTL bounds the in-process layer in front of Redis.
		LocalTTL time.Duration `yaml:"local_ttl" default:"5s"`
	} `yaml:"redis"`
}

// Pipeline holds the recognized core options.
type Pipeline struct {
	FastPeriod       int                `yaml:"fast_period" default:"5" validate:"gte=1"`
	SlowPeriod       int                `yaml:"slow_period" default:"20" validate:"gte=1"`
	RSIPeriod        int                `yaml:"rsi_period" default:"14" validate:"gte=1"`
	MACDSpans        []int              `yaml:"macd_spans" default:"[12,26]" validate:"len=2,dive,gte=1"`
	RSIOversold      float64            `yaml:"rsi_oversold" default:"30" validate:"gte=0,lte=100"`
	RSIOverbought    float64            `yaml:"rsi_overbought" default:"70" validate:"gte=0,lte=100"`
	MinNewsScore     float64            `yaml:"min_news_score" default:"3.0" validate:"gte=0"`
	AllowedDecisions []string           `yaml:"allowed_decisions" default:"[\"SELL\",\"SELL+\"]" validate:"min=1"`
	Workers          int                `yaml:"workers" default:"1" validate:"gte=1"`
	TrustTable       map[string]float64 `yaml:"trust_table"`
	AliasesFile      string             `yaml:"aliases_file" default:"config/aliases.yaml"`
}

// Decisions parses AllowedDecisions.
func (p Pipeline) Decisions() ([]models.Decision, error) {
	out := make([]models.Decision, 0, len(p.AllowedDecisions))
	for _, raw := range p.AllowedDecisions {
		d, ok := models.ParseDecision(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidConfig, raw)
		}
		out = append(out, d)
	}
	return out, nil
}

var validate = validator.New()

// Default returns a config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("SYMBOLS"); v != "" {
		c.Universe.Symbols = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("ALIASES_FILE"); v != "" {
		c.Pipeline.AliasesFile = v
	}
	if v := getenv("MIN_NEWS_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MIN_NEWS_SCORE: %w", err)
		}
		c.Pipeline.MinNewsScore = f
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	p := c.Pipeline
	if p.SlowPeriod <= p.FastPeriod {
		return fmt.Errorf("%w: slow_period (%d) must exceed fast_period (%d)", ErrInvalidConfig, p.SlowPeriod, p.FastPeriod)
	}
	if p.MACDSpans[1] <= p.MACDSpans[0] {
		return fmt.Errorf("%w: macd_spans must be [fast, slow] with slow > fast", ErrInvalidConfig)
	}
	if p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("%w: rsi_oversold must be below rsi_overbought", ErrInvalidConfig)
	}
	if _, err := p.Decisions(); err != nil {
		return err
	}
	return nil
}
