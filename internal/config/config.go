package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

var (
	ErrMissingGoogle     = errors.New("GOOGLE_API_KEY and GOOGLE_CX are required")
	ErrMissingTavily     = errors.New("TAVILY_API_KEY is required")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrMissingLLMKey     = errors.New("LLM API key is required for the selected provider")
	ErrMissingMail       = errors.New("mail provider settings are incomplete")
	ErrInvalidCacheType  = errors.New("invalid cache type")
	ErrInvalidMode       = errors.New("invalid default mode")
	ErrNoSurface         = errors.New("neither TELEGRAM_BOT_TOKEN nor HTTP_ADDR is set")
	ErrInvalidRateLimit  = errors.New("rate limit must be positive")
	ErrInvalidPageLimits = errors.New("search page size must be between 1 and 10")
)

type Config struct {
	Search      SearchConfig
	Google      GoogleConfig
	Tavily      TavilyConfig
	LLM         LLMConfig
	Mail        MailConfig
	Telegram    TelegramConfig
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Pacing      PacingConfig
	Scrape      ScrapeConfig
	Dork        DorkConfig
	Export      ExportConfig
	Log         LogConfig
	RunTimeout  time.Duration
	DefaultMode string
}

type SearchConfig struct {
	// google | tavily
	Provider string
	PageSize int
}

type GoogleConfig struct {
	APIKey  string
	CX      string
	BaseURL string
	Timeout time.Duration
}

type TavilyConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type LLMConfig struct {
	// none | mock | gemini | openai
	Provider string
	Gemini   ModelConfig
	OpenAI   ModelConfig
	Timeout  time.Duration
}

type ModelConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type MailConfig struct {
	// none | brevo | smtp
	Provider  string
	Brevo     BrevoConfig
	SMTP      SMTPConfig
	FromName  string
	FromEmail string
	Timeout   time.Duration
}

type BrevoConfig struct {
	APIKey  string
	BaseURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type HTTPConfig struct {
	Addr        string
	MetricsPath string
}

type DatabaseConfig struct {
	URL string
}

type CacheConfig struct {
	Type          string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type PacingConfig struct {
	Search time.Duration
	Enrich time.Duration
	Mail   time.Duration
}

type ScrapeConfig struct {
	Enabled           bool
	Timeout           time.Duration
	MaxBodyBytes      int64
	RequestsPerSecond float64
}

type DorkConfig struct {
	// пусто - встроенный каталог
	PatternsFile string
}

type ExportConfig struct {
	UniofficeKey string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func Load() (*Config, error) {
	cfg := &Config{
		Search: SearchConfig{
			Provider: strings.ToLower(getEnvOrDefault("SEARCH_PROVIDER", "google")),
			PageSize: getEnvIntOrDefault("SEARCH_PAGE_SIZE", 10),
		},
		Google: GoogleConfig{
			APIKey:  os.Getenv("GOOGLE_API_KEY"),
			CX:      os.Getenv("GOOGLE_CX"),
			BaseURL: getEnvOrDefault("GOOGLE_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
			Timeout: time.Duration(getEnvIntOrDefault("GOOGLE_TIMEOUT_SEC", 15)) * time.Second,
		},
		Tavily: TavilyConfig{
			APIKey:  os.Getenv("TAVILY_API_KEY"),
			BaseURL: getEnvOrDefault("TAVILY_BASE_URL", "https://api.tavily.com"),
			Timeout: time.Duration(getEnvIntOrDefault("TAVILY_TIMEOUT_SEC", 30)) * time.Second,
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "none")),
			Gemini: ModelConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
				BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			},
			OpenAI: ModelConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				Model:   getEnvOrDefault("OPENAI_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
			},
			Timeout: time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 30)) * time.Second,
		},
		Mail: MailConfig{
			Provider: strings.ToLower(getEnvOrDefault("MAIL_PROVIDER", "none")),
			Brevo: BrevoConfig{
				APIKey:  os.Getenv("BREVO_API_KEY"),
				BaseURL: getEnvOrDefault("BREVO_BASE_URL", "https://api.brevo.com"),
			},
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     getEnvIntOrDefault("SMTP_PORT", 587),
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
			},
			FromName:  os.Getenv("MAIL_FROM_NAME"),
			FromEmail: os.Getenv("MAIL_FROM_EMAIL"),
			Timeout:   time.Duration(getEnvIntOrDefault("MAIL_TIMEOUT_SEC", 30)) * time.Second,
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: getEnvBoolOrDefault("TELEGRAM_DEBUG", false),
		},
		HTTP: HTTPConfig{
			Addr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
			MetricsPath: getEnvOrDefault("METRICS_PATH", "/metrics"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Cache: CacheConfig{
			Type:          strings.ToLower(getEnvOrDefault("CACHE_TYPE", "memory")),
			TTL:           time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
			RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Pacing: PacingConfig{
			Search: time.Duration(getEnvIntOrDefault("SEARCH_DELAY_MS", 1000)) * time.Millisecond,
			Enrich: time.Duration(getEnvIntOrDefault("ENRICH_DELAY_MS", 500)) * time.Millisecond,
			Mail:   time.Duration(getEnvIntOrDefault("MAIL_DELAY_MS", 1000)) * time.Millisecond,
		},
		Scrape: ScrapeConfig{
			Enabled:           getEnvBoolOrDefault("SCRAPE_ENABLED", true),
			Timeout:           time.Duration(getEnvIntOrDefault("SCRAPE_TIMEOUT_SEC", 10)) * time.Second,
			MaxBodyBytes:      int64(getEnvIntOrDefault("SCRAPE_MAX_BODY_KB", 1024)) * 1024,
			RequestsPerSecond: getEnvFloatOrDefault("SCRAPE_RPS_PER_HOST", 1),
		},
		Dork: DorkConfig{
			PatternsFile: os.Getenv("DORK_PATTERNS_FILE"),
		},
		Export: ExportConfig{
			UniofficeKey: os.Getenv("UNIOFFICE_LICENSE_KEY"),
		},
		Log: LogConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvIntOrDefault("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvIntOrDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvIntOrDefault("LOG_MAX_AGE_DAYS", 28),
		},
		RunTimeout:  time.Duration(getEnvIntOrDefault("RUN_TIMEOUT_SEC", 300)) * time.Second,
		DefaultMode: strings.ToLower(getEnvOrDefault("DEFAULT_MODE", "standard")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "google":
		if c.Google.APIKey == "" || c.Google.CX == "" {
			return ErrMissingGoogle
		}
	case "tavily":
		if c.Tavily.APIKey == "" {
			return ErrMissingTavily
		}
	default:
		return fmt.Errorf("%w: search %q", ErrInvalidProvider, c.Search.Provider)
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 10 {
		return ErrInvalidPageLimits
	}

	switch c.LLM.Provider {
	case "none", "mock":
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			return ErrMissingLLMKey
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return ErrMissingLLMKey
		}
	default:
		return fmt.Errorf("%w: llm %q", ErrInvalidProvider, c.LLM.Provider)
	}

	switch c.Mail.Provider {
	case "none":
	case "brevo":
		if c.Mail.Brevo.APIKey == "" || c.Mail.FromEmail == "" {
			return ErrMissingMail
		}
	case "smtp":
		if c.Mail.SMTP.Host == "" || c.Mail.FromEmail == "" {
			return ErrMissingMail
		}
	default:
		return fmt.Errorf("%w: mail %q", ErrInvalidProvider, c.Mail.Provider)
	}

	if c.Cache.Type != "memory" && c.Cache.Type != "redis" {
		return ErrInvalidCacheType
	}
	if !domain.ModeType(c.DefaultMode).IsValid() {
		return ErrInvalidMode
	}
	if c.Telegram.Token == "" && c.HTTP.Addr == "" {
		return ErrNoSurface
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
