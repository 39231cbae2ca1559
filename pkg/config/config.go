package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Data struct {
		RawNewsFile   string `yaml:"raw_news_file" default:"data/raw/news.csv"`
		CleanNewsFile string `yaml:"clean_news_file" default:"data/processed/news_clean.csv"`
		PricesFile    string `yaml:"prices_file" default:"data/prices/bars.csv"`
		FeaturesFile  string `yaml:"features_file" default:"data/features/combined.csv"`
		TrainFile     string `yaml:"train_file" default:"data/features/combined_train.csv"`
		TestFile      string `yaml:"test_file" default:"data/features/combined_test.csv"`
		ScalerFile    string `yaml:"scaler_file" default:"models/price_scaler.json"`
		ChartsDir     string `yaml:"charts_dir" default:"charts"`
	} `yaml:"data"`

	News struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url" default:"https://gnews.io/api/v4/search"`
		WindowDays   int           `yaml:"window_days" default:"10" validate:"gt=0"`
		RequestDelay time.Duration `yaml:"request_delay" default:"1s"`
		MaxRequests  int           `yaml:"max_requests" default:"0" validate:"gte=0"`
		GeneralQuery string        `yaml:"general_query" default:"stock market OR economy OR inflation OR interest rates"`
	} `yaml:"news"`

	Prices struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url" default:"https://www.alphavantage.co/query"`
		RequestDelay time.Duration `yaml:"request_delay" default:"1s"`
	} `yaml:"prices"`

	Process struct {
		TargetLang       string        `yaml:"target_lang" default:"en" validate:"required"`
		LangBlacklist    []string      `yaml:"lang_blacklist"`
		NonLatinRatio    float64       `yaml:"non_latin_ratio" default:"0.3" validate:"gt=0,lte=1"`
		KeepCJK          *bool         `yaml:"keep_cjk"`
		ChunkSize        int           `yaml:"chunk_size" default:"4500" validate:"gt=0"`
		MaxRetries       int           `yaml:"max_retries" default:"3" validate:"gte=0"`
		BackoffBase      time.Duration `yaml:"backoff_base" default:"500ms"`
		BackoffMax       time.Duration `yaml:"backoff_max" default:"8s"`
		TranslateTimeout time.Duration `yaml:"translate_timeout" default:"15s"`
	} `yaml:"process"`

	Cache struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		TTL           time.Duration `yaml:"ttl" default:"168h"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"5000"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Features struct {
		SplitRatio    float64  `yaml:"split_ratio" default:"0.8" validate:"gt=0,lt=1"`
		GeneralTicker string   `yaml:"general_ticker" default:"GENERAL"`
		Columns       []string `yaml:"columns"`
	} `yaml:"features"`

	Sink struct {
		Type       string `yaml:"type" default:"none" validate:"oneof=none clickhouse kafka"`
		ClickHouse struct {
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"9000"`
			Database     string        `yaml:"database" default:"newspulse"`
			User         string        `yaml:"user" default:"default"`
			Password     string        `yaml:"password"`
			UseHTTP      bool          `yaml:"use_http"`
			AsyncInsert  bool          `yaml:"async_insert"`
			WaitForAsync bool          `yaml:"wait_for_async_insert"`
			DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"clickhouse"`
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic" default:"feature-rows"`
			RequiredAcks int           `yaml:"required_acks" default:"-1"`
			Compression  string        `yaml:"compression" default:"gzip"`
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"kafka"`
	} `yaml:"sink"`

	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
}

// Load reads and parses a YAML configuration file, fills defaults, and validates.
// An empty path yields a default configuration.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.applyFallbacks()

	if err := validate.Struct(&c); err != nil {
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

	if v := os.Getenv("GNEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Prices.APIKey = v
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sink.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

// applyFallbacks fills slice and pointer fields the defaults tags cannot express.
func (c *Config) applyFallbacks() {
	if c.Process.LangBlacklist == nil {
		c.Process.LangBlacklist = []string{"ar", "ru"}
	}
	if c.Process.KeepCJK == nil {
		t := true
		c.Process.KeepCJK = &t
	}
	if len(c.Features.Columns) == 0 {
		c.Features.Columns = []string{
			"sentiment", "news_count", "general_sentiment",
			"ma25", "ma50", "macd", "macd_signal",
			"bb_upper", "bb_lower", "rsi",
		}
	}
}

// RequireNewsKey ensures the news API key is present. Fetch modes only;
// processing and scaling stages run on persisted data without credentials.
func (c *Config) RequireNewsKey() error {
	if c.News.APIKey == "" {
		return fmt.Errorf("GNEWS_API_KEY is required for news fetching")
	}
	return nil
}

// RequirePricesKey ensures the price API key is present.
func (c *Config) RequirePricesKey() error {
	if c.Prices.APIKey == "" {
		return fmt.Errorf("ALPHAVANTAGE_API_KEY is required for price fetching")
	}
	return nil
}
