package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every process-level setting. It is read once at the edge
// (server, CLI) and handed down explicitly.
type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	Database    DatabaseConfig
	Showgrounds ShowgroundsConfig
	Redis       RedisConfig
	API         APIConfig
	Jobs        JobsConfig

	VenueTimezone   string
	DisplayTimezone string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Name     string
	Password string
}

// ShowgroundsConfig configures the upstream show data provider and the
// tenant this deployment syncs for.
type ShowgroundsConfig struct {
	BaseURL    string
	Origin     string
	CustomerID string
	FarmName   string
	Username   string
	Password   string
	Timeout    time.Duration
	RPS        float64
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	AlertStream string
}

type APIConfig struct {
	SecretKey      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type JobsConfig struct {
	Enabled              bool
	MorningSyncCron      string
	ClassMonitorInterval time.Duration
}

// DSN returns DATABASE_URL when set, otherwise builds one from the PG_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisEnabled reports whether a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// VenueLocation loads VENUE_TIMEZONE, falling back to UTC.
func (c *Config) VenueLocation() *time.Location {
	return loadLocation(c.VenueTimezone)
}

// DisplayLocation loads DISPLAY_TIMEZONE, falling back to UTC.
func (c *Config) DisplayLocation() *time.Location {
	return loadLocation(c.DisplayTimezone)
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", 8080)

	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("PG_USER", "postgres")
	v.SetDefault("PG_DB", "paddock")

	v.SetDefault("SHOWGROUNDS_API_BASE_URL", "https://sglapi.wellingtoninternational.com")
	v.SetDefault("SHOWGROUNDS_ORIGIN", "https://www.wellingtoninternational.com")
	v.SetDefault("SHOWGROUNDS_CUSTOMER_ID", "15")
	v.SetDefault("SHOWGROUNDS_TIMEOUT", "30s")
	v.SetDefault("SHOWGROUNDS_RPS", 10)

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("ALERT_STREAM", "paddock:alerts")

	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("MORNING_SYNC_CRON", "0 7 * * *")
	v.SetDefault("CLASS_MONITOR_INTERVAL", "10m")

	v.SetDefault("VENUE_TIMEZONE", "America/New_York")
	v.SetDefault("DISPLAY_TIMEZONE", "America/New_York")
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:   v.GetString("APP_ENV"),
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		HTTPPort: v.GetInt("HTTP_PORT"),
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("PG_HOST"),
			Port:     v.GetString("PG_PORT"),
			User:     v.GetString("PG_USER"),
			Name:     v.GetString("PG_DB"),
			Password: v.GetString("PG_PASSWORD"),
		},
		Showgrounds: ShowgroundsConfig{
			BaseURL:    strings.TrimRight(v.GetString("SHOWGROUNDS_API_BASE_URL"), "/"),
			Origin:     v.GetString("SHOWGROUNDS_ORIGIN"),
			CustomerID: strings.TrimSpace(v.GetString("SHOWGROUNDS_CUSTOMER_ID")),
			FarmName:   strings.TrimSpace(v.GetString("SHOWGROUNDS_FARM_NAME")),
			Username:   v.GetString("SHOWGROUNDS_USERNAME"),
			Password:   v.GetString("SHOWGROUNDS_PASSWORD"),
			Timeout:    v.GetDuration("SHOWGROUNDS_TIMEOUT"),
			RPS:        v.GetFloat64("SHOWGROUNDS_RPS"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetString("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			AlertStream: v.GetString("ALERT_STREAM"),
		},
		API: APIConfig{
			SecretKey:      v.GetString("API_SECRET_KEY"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Jobs: JobsConfig{
			Enabled:              v.GetBool("JOBS_ENABLED"),
			MorningSyncCron:      v.GetString("MORNING_SYNC_CRON"),
			ClassMonitorInterval: v.GetDuration("CLASS_MONITOR_INTERVAL"),
		},
		VenueTimezone:   v.GetString("VENUE_TIMEZONE"),
		DisplayTimezone: v.GetString("DISPLAY_TIMEZONE"),
	}

	if cfg.Showgrounds.CustomerID == "" {
		cfg.Showgrounds.CustomerID = "15"
	}
	if cfg.Showgrounds.Timeout <= 0 {
		return nil, fmt.Errorf("SHOWGROUNDS_TIMEOUT must be positive")
	}
	if cfg.Jobs.ClassMonitorInterval <= 0 {
		return nil, fmt.Errorf("CLASS_MONITOR_INTERVAL must be positive")
	}
	if cfg.API.RateLimitRPS <= 0 || cfg.API.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if len(cfg.API.CORSOrigins) == 0 {
		cfg.API.CORSOrigins = []string{"https://*", "http://localhost:3000"}
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
