package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Venue     VenueConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	Broker    BrokerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// VenueConfig describes the local wall clock all slots are laid out in.
type VenueConfig struct {
	Timezone        string
	OpenHour        int
	CloseHour       int
	BookingMaxHours int

	location *time.Location
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Bookings int
	Window   time.Duration
	FailOpen bool
}

type TelemetryConfig struct {
	Enabled       bool
	OTLPEndpoint  string
	SamplingRatio float64
}

type BrokerConfig struct {
	URL      string
	Exchange string
}

// Location returns the venue timezone. Validate must have succeeded.
func (v VenueConfig) Location() *time.Location {
	if v.location == nil {
		return time.UTC
	}
	return v.location
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "court-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("VENUE_TIMEZONE", "Europe/Zagreb")
	v.SetDefault("VENUE_OPEN_HOUR", 7)
	v.SetDefault("VENUE_CLOSE_HOUR", 24)
	v.SetDefault("BOOKING_MAX_HOURS", 3)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_BOOKINGS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("RATE_LIMIT_FAIL_OPEN", true)
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
	v.SetDefault("AMQP_EXCHANGE", "court-booking")

	// .env is optional; the environment always wins
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Venue: VenueConfig{
			Timezone:        v.GetString("VENUE_TIMEZONE"),
			OpenHour:        v.GetInt("VENUE_OPEN_HOUR"),
			CloseHour:       v.GetInt("VENUE_CLOSE_HOUR"),
			BookingMaxHours: v.GetInt("BOOKING_MAX_HOURS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Bookings: v.GetInt("RATE_LIMIT_BOOKINGS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
			FailOpen: v.GetBool("RATE_LIMIT_FAIL_OPEN"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("OTEL_ENABLED"),
			OTLPEndpoint:  v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SamplingRatio: v.GetFloat64("OTEL_SAMPLING_RATIO"),
		},
		Broker: BrokerConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required values and resolves the venue timezone.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(c.Venue.Timezone)
	if err != nil {
		return fmt.Errorf("config: VENUE_TIMEZONE %q: %w", c.Venue.Timezone, err)
	}
	c.Venue.location = loc

	if c.Venue.OpenHour < 0 || c.Venue.CloseHour > 24 || c.Venue.OpenHour >= c.Venue.CloseHour {
		return fmt.Errorf("config: opening hours %d-%d out of range", c.Venue.OpenHour, c.Venue.CloseHour)
	}
	if c.Venue.BookingMaxHours < 1 {
		return fmt.Errorf("config: BOOKING_MAX_HOURS must be at least 1")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("config: OTEL_SAMPLING_RATIO must be within [0, 1]")
	}

	return nil
}
