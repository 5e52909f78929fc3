package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`

		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN         string `yaml:"url"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		Secret        string `yaml:"secret"`
		TTL           int    `yaml:"ttl"`             // access token minutes
		RefreshTTLHrs int    `yaml:"refresh_ttl_hrs"` // refresh token hours
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`      // local, cloudflare_r2
		BasePath   string `yaml:"base_path"` // local only
		BaseURL    string `yaml:"base_url"`
		Bucket     string `yaml:"bucket"`
		Region     string `yaml:"region"`
		AccessKey  string `yaml:"access_key"`
		SecretKey  string `yaml:"secret_key"`
		Endpoint   string `yaml:"endpoint"`
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`

	AI struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		Model           string  `yaml:"model"`
		ClassifierModel string  `yaml:"classifier_model"`
		ChatModel       bool    `yaml:"chat_model"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
		Temperature     float64 `yaml:"temperature"`
		MaxTokens       int     `yaml:"max_tokens"`
		TopP            float64 `yaml:"top_p"`
		UseSkillOracle  bool    `yaml:"use_skill_oracle"`
	} `yaml:"ai"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	RateLimit struct {
		Enabled       bool    `yaml:"enabled"`
		Backend       string  `yaml:"backend"` // memory, redis
		RequestsPerS  float64 `yaml:"requests_per_second"`
		Burst         int     `yaml:"burst"`
		AuthPerMinute int     `yaml:"auth_per_minute"`
	} `yaml:"rate_limit"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Portfolio struct {
		ViewHistoryLimit int    `yaml:"view_history_limit"`
		PublicURL        string `yaml:"public_url"` // share links are PublicURL/<token>
	} `yaml:"portfolio"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

var AppConfig *Config

// LoadConfig reads config/config.yaml (or CONFIG_PATH). When DATABASE_URL is
// present the whole configuration comes from the environment instead.
func LoadConfig() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		loadFromEnv(&cfg)
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func loadFromEnv(cfg *Config) {
	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.AutoMigrate = envBool("DATABASE_AUTO_MIGRATE", true)
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port = envInt("SERVER_PORT", 8080)
	if origins := envString("CORS_ORIGINS", ""); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = envInt("JWT_TTL", 60)

	cfg.Storage.Type = envString("STORAGE_TYPE", "local")
	cfg.Storage.BasePath = envString("STORAGE_BASE_PATH", "./uploads")
	cfg.Storage.BaseURL = envString("STORAGE_BASE_URL", "/api/v1/files")
	cfg.Storage.Bucket = os.Getenv("R2_BUCKET")
	cfg.Storage.AccessKey = os.Getenv("R2_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("R2_SECRET_KEY")
	cfg.Storage.Endpoint = os.Getenv("R2_ENDPOINT")

	cfg.AI.BaseURL = os.Getenv("AI_BASE_URL")
	cfg.AI.APIKey = os.Getenv("AI_API_KEY")
	cfg.AI.Model = os.Getenv("AI_MODEL")
	cfg.AI.ClassifierModel = os.Getenv("AI_CLASSIFIER_MODEL")
	cfg.AI.ChatModel = envBool("AI_CHAT_MODEL", false)
	cfg.AI.UseSkillOracle = envBool("AI_USE_SKILL_ORACLE", false)

	cfg.Email.Enabled = envBool("EMAIL_ENABLED", false)
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort = envInt("SMTP_PORT", 587)
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.RateLimit.Enabled = envBool("RATE_LIMIT_ENABLED", false)
	cfg.RateLimit.Backend = envString("RATE_LIMIT_BACKEND", "memory")
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")

	cfg.Portfolio.ViewHistoryLimit = envInt("PORTFOLIO_VIEW_HISTORY_LIMIT", 500)
	cfg.Portfolio.PublicURL = os.Getenv("PORTFOLIO_PUBLIC_URL")

	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.JWT.RefreshTTLHrs == 0 {
		cfg.JWT.RefreshTTLHrs = 24 * 7
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"application/pdf", "image/jpeg", "image/png", "image/webp",
		}
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 10
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.2
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 256
	}
	if cfg.AI.TopP == 0 {
		cfg.AI.TopP = 0.9
	}
	if cfg.RateLimit.RequestsPerS == 0 {
		cfg.RateLimit.RequestsPerS = 10
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
	}
	if cfg.RateLimit.AuthPerMinute == 0 {
		cfg.RateLimit.AuthPerMinute = 10
	}
	if cfg.Portfolio.ViewHistoryLimit == 0 {
		cfg.Portfolio.ViewHistoryLimit = 500
	}
	if cfg.Portfolio.PublicURL == "" {
		cfg.Portfolio.PublicURL = "http://localhost:3000/portfolio"
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLHrs) * time.Hour
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
