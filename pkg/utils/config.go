package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Janitor  JanitorConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type BookingConfig struct {
	HoldTTLMinutes int
	CutoffMinutes  int
	MaxRetries     int
}

type JanitorConfig struct {
	ExpiryInterval     time.Duration
	CompletionInterval time.Duration
}

func (b BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLMinutes) * time.Minute
}

func (b BookingConfig) Cutoff() time.Duration {
	return time.Duration(b.CutoffMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("HOLD_TTL_MINUTES", 15)
	viper.SetDefault("BOOKING_CUTOFF_MINUTES", 60)
	viper.SetDefault("BOOKING_MAX_RETRIES", 3)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", time.Minute)
	viper.SetDefault("COMPLETION_SWEEP_INTERVAL", 15*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Booking: BookingConfig{
			HoldTTLMinutes: viper.GetInt("HOLD_TTL_MINUTES"),
			CutoffMinutes:  viper.GetInt("BOOKING_CUTOFF_MINUTES"),
			MaxRetries:     viper.GetInt("BOOKING_MAX_RETRIES"),
		},
		Janitor: JanitorConfig{
			ExpiryInterval:     viper.GetDuration("EXPIRY_SWEEP_INTERVAL"),
			CompletionInterval: viper.GetDuration("COMPLETION_SWEEP_INTERVAL"),
		},
	}

	return config, nil
}
