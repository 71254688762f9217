package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Scoring    strategy.ScoringConfig `yaml:"scoring"`
	Indicators struct {
		Profile string `yaml:"profile"`
		// Days is how much history is requested from providers.
		Days              int `yaml:"days"`
		calculator.Params `yaml:",inline"`
	} `yaml:"indicators"`
	Providers struct {
		Timeout  time.Duration `yaml:"timeout"`
		Retries  int           `yaml:"retries"`
		Yahoo    Toggle        `yaml:"yahoo"`
		Finnhub  struct {
			Toggle  `yaml:",inline"`
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"finnhub"`
		Naver struct {
			Toggle  `yaml:",inline"`
			BaseURL string `yaml:"base_url"`
			Pages   int    `yaml:"pages"`
		} `yaml:"naver"`
		Longport struct {
			Toggle      `yaml:",inline"`
			AppKey      string `yaml:"app_key"`
			AppSecret   string `yaml:"app_secret"`
			AccessToken string `yaml:"access_token"`
		} `yaml:"longport"`
		Offline struct {
			Toggle     `yaml:",inline"`
			SQLitePath string        `yaml:"sqlite_path"`
			Retention  time.Duration `yaml:"retention"`
		} `yaml:"offline"`
	} `yaml:"providers"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
	Schedule struct {
		ReloadCron string `yaml:"reload_cron"`
		PruneCron  string `yaml:"prune_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Toggle switches a provider on or off. A nil Enabled means on.
type Toggle struct {
	Enabled *bool `yaml:"enabled"`
}

// On reports whether the provider is enabled.
func (t Toggle) On() bool { return t.Enabled == nil || *t.Enabled }

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Thresholds are seeded before decoding so an explicit 0 in the file
	// survives; yaml leaves absent keys untouched.
	def := strategy.DefaultScoring()
	cfg.Scoring.BuyThreshold = def.BuyThreshold
	cfg.Scoring.SellThreshold = def.SellThreshold
	cfg.Scoring.MaxThreshold = def.MaxThreshold

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	applyEnv(cfg)
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("INDICATOR_PROFILE"); v != "" {
		cfg.Indicators.Profile = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv("LONGPORT_APP_KEY"); v != "" {
		cfg.Providers.Longport.AppKey = v
	}
	if v := os.Getenv("LONGPORT_APP_SECRET"); v != "" {
		cfg.Providers.Longport.AppSecret = v
	}
	if v := os.Getenv("LONGPORT_ACCESS_TOKEN"); v != "" {
		cfg.Providers.Longport.AccessToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Providers.Offline.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("BUY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.BuyThreshold = f
		}
	}
	if v := os.Getenv("SELL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.SellThreshold = f
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	def := strategy.DefaultScoring()
	if cfg.Scoring.Weights.Sum() == 0 {
		cfg.Scoring.Weights = def.Weights
	}

	// A named profile seeds the windows; explicit windows override it.
	if cfg.Indicators.Profile == "" {
		cfg.Indicators.Profile = "standard"
	}
	base, err := calculator.Profile(cfg.Indicators.Profile)
	if err != nil {
		return err
	}
	p := cfg.Indicators.Params
	if p.CCIWindow <= 0 {
		p.CCIWindow = base.CCIWindow
	}
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = base.RSIPeriod
	}
	if p.OBVLag <= 0 {
		p.OBVLag = base.OBVLag
	}
	if p.OBVStdWindow <= 0 {
		p.OBVStdWindow = base.OBVStdWindow
	}
	cfg.Indicators.Params = p
	if cfg.Indicators.Days == 0 {
		cfg.Indicators.Days = 120
	}

	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = 15 * time.Second
	}
	if cfg.Providers.Retries == 0 {
		cfg.Providers.Retries = 2
	}
	if cfg.Providers.Finnhub.BaseURL == "" {
		cfg.Providers.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if cfg.Providers.Naver.BaseURL == "" {
		cfg.Providers.Naver.BaseURL = "https://finance.naver.com"
	}
	if cfg.Providers.Naver.Pages == 0 {
		cfg.Providers.Naver.Pages = 5
	}
	if cfg.Providers.Offline.SQLitePath == "" {
		cfg.Providers.Offline.SQLitePath = "data/signaldesk.db"
	}
	if cfg.Providers.Offline.Retention == 0 {
		cfg.Providers.Offline.Retention = 2 * 365 * 24 * time.Hour
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "trading.decisions"
	}
	if cfg.Schedule.ReloadCron == "" {
		cfg.Schedule.ReloadCron = "0 * * * * *"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 30 3 * * *"
	}
	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	if c.Scoring.BuyThreshold > c.Scoring.SellThreshold {
		errs = append(errs, fmt.Errorf("scoring.buy_threshold (%g) must not exceed sell_threshold (%g)",
			c.Scoring.BuyThreshold, c.Scoring.SellThreshold))
	}
	if c.Indicators.Days < c.IndicatorParams().MinBars() {
		errs = append(errs, fmt.Errorf("indicators.days must be at least %d", c.IndicatorParams().MinBars()))
	}
	if c.Indicators.OBVStdWindow < 2 {
		errs = append(errs, errors.New("indicators.obv_std_window must be at least 2"))
	}
	if c.Providers.Retries < 0 {
		errs = append(errs, errors.New("providers.retries must not be negative"))
	}
	if f := c.Providers.Finnhub; f.Enabled != nil && *f.Enabled && f.APIKey == "" {
		errs = append(errs, errors.New("providers.finnhub.api_key is required when finnhub is enabled"))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram.chat_id is required with a bot token"))
	}
	return errors.Join(errs...)
}

// IndicatorParams returns the resolved indicator windows.
func (c *Config) IndicatorParams() calculator.Params {
	return c.Indicators.Params.WithDefaults()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
