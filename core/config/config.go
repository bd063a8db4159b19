package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type GoogleOAuthConfig struct {
	ClientID              string
	ClientSecret          string
	RedirectURI           string
	DisconnectRedirectURI string
	Scopes                []string
}

type SchedulerConfig struct {
	PreferredStartHour int
	PreferredEndHour   int
	SearchWindowDays   int
}

type Config struct {
	Env         string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	Scheduler   SchedulerConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the process
// config. Must be called once at startup before Get/GetSafe.
func Load() (*Config, error) {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "app")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "planner_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("GOOGLE_OAUTH_CLIENT_ID", "")
	v.SetDefault("GOOGLE_OAUTH_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_OAUTH_REDIRECT_URI", "http://localhost:7070/api/v1/sync/providers/google/callback")
	v.SetDefault("GOOGLE_OAUTH_DISCONNECT_REDIRECT_URI", "http://localhost:7070/settings/integrations")
	v.SetDefault("SCHEDULER_PREFERRED_START_HOUR", 9)
	v.SetDefault("SCHEDULER_PREFERRED_END_HOUR", 17)
	v.SetDefault("SCHEDULER_SEARCH_WINDOW_DAYS", 7)

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:              v.GetString("GOOGLE_OAUTH_CLIENT_ID"),
			ClientSecret:          v.GetString("GOOGLE_OAUTH_CLIENT_SECRET"),
			RedirectURI:           v.GetString("GOOGLE_OAUTH_REDIRECT_URI"),
			DisconnectRedirectURI: v.GetString("GOOGLE_OAUTH_DISCONNECT_REDIRECT_URI"),
			Scopes: []string{
				"openid",
				"email",
				"https://www.googleapis.com/auth/calendar",
			},
		},
		Scheduler: SchedulerConfig{
			PreferredStartHour: v.GetInt("SCHEDULER_PREFERRED_START_HOUR"),
			PreferredEndHour:   v.GetInt("SCHEDULER_PREFERRED_END_HOUR"),
			SearchWindowDays:   v.GetInt("SCHEDULER_SEARCH_WINDOW_DAYS"),
		},
	}

	if cfg.Scheduler.PreferredEndHour <= cfg.Scheduler.PreferredStartHour {
		return nil, fmt.Errorf("config: SCHEDULER_PREFERRED_END_HOUR (%d) must be greater than SCHEDULER_PREFERRED_START_HOUR (%d)",
			cfg.Scheduler.PreferredEndHour, cfg.Scheduler.PreferredStartHour)
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the loaded config. Panics if Load was never called; use
// GetSafe in paths that may run before startup completes.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Load must be called before Get")
	}
	return instance
}

// GetSafe returns the loaded config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// SetForTesting replaces the config instance in tests.
func SetForTesting(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
