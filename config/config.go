package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Upcoming  UpcomingConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Port       string
	Env        string
	LogLevel   string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// UpcomingConfig controls the dashboard "upcoming" window.
type UpcomingConfig struct {
	Horizon time.Duration
}

// RateLimitConfig tunes the login limiter. TrustProxy keys clients on
// X-Forwarded-For and must only be set behind a proxy that overwrites it.
type RateLimitConfig struct {
	LoginRPS   float64
	LoginBurst int
	TrustProxy bool
}

type CacheConfig struct {
	ReferenceTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOGIN_RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("LOGIN_RATE_LIMIT_BURST", 5)
	viper.SetDefault("TRUSTED_PROXY", false)

	// .env is optional when everything comes from the environment
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Port:       viper.GetString("APP_PORT"),
			Env:        viper.GetString("APP_ENV"),
			LogLevel:   viper.GetString("LOG_LEVEL"),
			CORSOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			TimeZone:    viper.GetString("DB_TIMEZONE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration(viper.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: parseDuration(viper.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		Upcoming: UpcomingConfig{
			Horizon: parseDuration(viper.GetString("UPCOMING_HORIZON"), 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			LoginRPS:   viper.GetFloat64("LOGIN_RATE_LIMIT_RPS"),
			LoginBurst: viper.GetInt("LOGIN_RATE_LIMIT_BURST"),
			TrustProxy: viper.GetBool("TRUSTED_PROXY"),
		},
		Cache: CacheConfig{
			ReferenceTTL: parseDuration(viper.GetString("REFERENCE_CACHE_TTL"), time.Hour),
		},
	}, nil
}

// parseDuration falls back to def when raw is empty, malformed or not positive.
func parseDuration(raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
