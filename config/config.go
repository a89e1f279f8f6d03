package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account used for Auth and Cloud Messaging.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Cloudinary.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`

	// Outgoing mail.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	SupportEmail string `mapstructure:"SUPPORT_EMAIL"`

	// Static keys compared against request headers.
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`
	EmailAPIKey string `mapstructure:"EMAIL_API_KEY"`

	// Partner payment-on-file.
	CardEncryptionSecret string        `mapstructure:"CARD_ENCRYPTION_SECRET"`
	ReauthSecret         string        `mapstructure:"REAUTH_SECRET"`
	ReauthTTL            time.Duration `mapstructure:"REAUTH_TTL"`

	// Scheduling and domain knobs.
	Timezone           string        `mapstructure:"TIMEZONE"`
	BillingCron        string        `mapstructure:"BILLING_CRON"`
	EmailSyncCron      string        `mapstructure:"EMAIL_SYNC_CRON"`
	BookingMaxAttempts int           `mapstructure:"BOOKING_MAX_ATTEMPTS"`
	ListingPriceMode   string        `mapstructure:"LISTING_PRICE_MODE"`
	SnapshotTTL        time.Duration `mapstructure:"SNAPSHOT_TTL"`
}

// Load reads config.yaml from the working directory or ./config and overlays
// environment variables on top of the defaults below.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("DATABASE_NAME", "courtside")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "config/firebase.json")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("CLOUDINARY_FOLDER", "courtside")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "no-reply@courtside.app")
	v.SetDefault("SUPPORT_EMAIL", "support@courtside.app")
	v.SetDefault("ADMIN_API_KEY", "")
	v.SetDefault("EMAIL_API_KEY", "")
	v.SetDefault("CARD_ENCRYPTION_SECRET", "")
	v.SetDefault("REAUTH_SECRET", "")
	v.SetDefault("REAUTH_TTL", 5*time.Minute)
	v.SetDefault("TIMEZONE", "Asia/Dubai")
	v.SetDefault("BILLING_CRON", "0 5 0 * * *")
	v.SetDefault("EMAIL_SYNC_CRON", "0 30 3 * * *")
	v.SetDefault("BOOKING_MAX_ATTEMPTS", 3)
	v.SetDefault("LISTING_PRICE_MODE", "joint")
	v.SetDefault("SNAPSHOT_TTL", 30*time.Minute)
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
