package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Google Calendar.
	GoogleCredentialsPath string `mapstructure:"GOOGLE_CREDENTIALS_PATH"`
	GoogleCalendarID      string `mapstructure:"GOOGLE_CALENDAR_ID"`
	CalendarTimeoutSecs   int    `mapstructure:"CALENDAR_TIMEOUT_SECS"`

	// Working hours for slot generation.
	StartHour    int    `mapstructure:"START_HOUR"`
	EndHour      int    `mapstructure:"END_HOUR"`
	SlotDuration int    `mapstructure:"SLOT_DURATION"`
	Timezone     string `mapstructure:"TIMEZONE"`

	// Booking window and reminders.
	BookingWindowDays int `mapstructure:"BOOKING_WINDOW_DAYS"`
	ReminderLeadHours int `mapstructure:"REMINDER_LEAD_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GOOGLE_CREDENTIALS_PATH", "./google-credentials.json")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "")
	viper.SetDefault("CALENDAR_TIMEOUT_SECS", 10)
	viper.SetDefault("START_HOUR", 9)
	viper.SetDefault("END_HOUR", 18)
	viper.SetDefault("SLOT_DURATION", 60)
	viper.SetDefault("TIMEZONE", "Europe/Moscow")
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
