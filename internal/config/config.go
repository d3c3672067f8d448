package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Translation TranslationConfig
	JWT         JWTConfig
	OIDC        OIDCConfig
	OTP         OTPConfig
	SMTP        SMTPConfig
	MinIO       MinIOConfig
	RateLimit   RateLimitConfig
	FAQ         FAQConfig
	LogLevel    string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MongoDBConfig. An empty URI selects the in-memory repositories.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig. An empty Host selects the in-process cache and disables
// token revocation.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type CacheConfig struct {
	TTL         time.Duration
	Namespace   string
	MemoryItems int
}

type TranslationConfig struct {
	Provider    string // openai | mock | none
	APIKey      string
	Model       string
	BaseURL     string
	CallTimeout time.Duration
	MaxRetries  int
	Parallel    bool
}

type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// OIDCConfig enables an external identity provider for admin routes when
// Issuer is set.
type OIDCConfig struct {
	Issuer   string
	ClientID string
}

type OTPConfig struct {
	TTL time.Duration
}

// SMTPConfig. An empty Host logs passcodes instead of mailing them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MinIOConfig. An empty Endpoint disables snapshot export.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	URLExpiry time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Rate    float64 // requests per second
	Burst   int
}

type FAQConfig struct {
	RequireAuth bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "faqhub")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 600)
	viper.SetDefault("CACHE_NAMESPACE", "faqs")
	viper.SetDefault("CACHE_MEMORY_ITEMS", 1024)
	viper.SetDefault("TRANSLATION_PROVIDER", "openai")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("CALL_TIMEOUT_SECONDS", 10)
	viper.SetDefault("TRANSLATION_MAX_RETRIES", 2)
	viper.SetDefault("TRANSLATION_PARALLEL", false)
	viper.SetDefault("JWT_ISSUER", "faqhub")
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 60)
	viper.SetDefault("OTP_TTL_MINUTES", 10)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", "no-reply@faqhub.local")
	viper.SetDefault("MINIO_BUCKET", "faqhub")
	viper.SetDefault("MINIO_REGION", "us-east-1")
	viper.SetDefault("MINIO_URL_EXPIRY_MINUTES", 15)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("FAQ_REQUIRE_AUTH", false)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			TTL:         time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
			Namespace:   viper.GetString("CACHE_NAMESPACE"),
			MemoryItems: viper.GetInt("CACHE_MEMORY_ITEMS"),
		},
		Translation: TranslationConfig{
			Provider:    viper.GetString("TRANSLATION_PROVIDER"),
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       viper.GetString("OPENAI_MODEL"),
			BaseURL:     viper.GetString("OPENAI_BASE_URL"),
			CallTimeout: time.Duration(viper.GetInt("CALL_TIMEOUT_SECONDS")) * time.Second,
			MaxRetries:  viper.GetInt("TRANSLATION_MAX_RETRIES"),
			Parallel:    viper.GetBool("TRANSLATION_PARALLEL"),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			Issuer:         viper.GetString("JWT_ISSUER"),
			AccessTokenTTL: time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		OIDC: OIDCConfig{
			Issuer:   viper.GetString("OIDC_ISSUER"),
			ClientID: viper.GetString("OIDC_CLIENT_ID"),
		},
		OTP: OTPConfig{
			TTL: time.Duration(viper.GetInt("OTP_TTL_MINUTES")) * time.Minute,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			Region:    viper.GetString("MINIO_REGION"),
			URLExpiry: time.Duration(viper.GetInt("MINIO_URL_EXPIRY_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled: viper.GetBool("RATE_LIMIT_ENABLED"),
			Rate:    viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   viper.GetInt("RATE_LIMIT_BURST"),
		},
		FAQ: FAQConfig{
			RequireAuth: viper.GetBool("FAQ_REQUIRE_AUTH"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Basic validation
	if cfg.JWT.Secret == "" {
		log.Println("WARNING: JWT_SECRET is not set; set a secure value in production")
	}
	if cfg.MongoDB.URI == "" {
		log.Println("WARNING: MONGODB_URI is not set; records are kept in memory only")
	}
	if cfg.Translation.Provider == "openai" && cfg.Translation.APIKey == "" {
		log.Println("WARNING: OPENAI_API_KEY is not set; translations are disabled")
		cfg.Translation.Provider = "none"
	}

	return cfg, nil
}
