package config

import (
	"strings"
	"time"

	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Storage   StorageConfig
	JWT       JWTConfig
	Billstack BillstackConfig
	Wizard    WizardConfig
	GiftCards GiftCardsConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL       string
	Password  string
	DB        int
	KeyPrefix string
}

// StorageConfig selects the key-value backend: mongo, redis or memory
type StorageConfig struct {
	Driver string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// BillstackConfig holds billing gateway configuration
type BillstackConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MockAPI      bool
	SubmitOrders bool
}

// WizardConfig holds purchase wizard tuning
type WizardConfig struct {
	PhoneDebounce time.Duration
	LookupTimeout time.Duration
	SessionTTL    time.Duration
}

// GiftCardsConfig holds the gift card image bucket configuration
type GiftCardsConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "billstack-storefront")
	viper.SetDefault("Redis.URL", "redis://localhost:6379/0")
	viper.SetDefault("Redis.Password", "")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("Redis.KeyPrefix", "storefront:")
	viper.SetDefault("Storage.Driver", "mongo")
	viper.SetDefault("JWT.Secret", "")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Billstack.BaseURL", billstack.DefaultBaseURL)
	viper.SetDefault("Billstack.Timeout", 10*time.Second)
	viper.SetDefault("Billstack.MockAPI", true)
	viper.SetDefault("Billstack.SubmitOrders", true)
	viper.SetDefault("Wizard.PhoneDebounce", 500*time.Millisecond)
	viper.SetDefault("Wizard.LookupTimeout", 15*time.Second)
	viper.SetDefault("Wizard.SessionTTL", 30*time.Minute)
	viper.SetDefault("GiftCards.Enabled", false)
	viper.SetDefault("GiftCards.Endpoint", "localhost:9000")
	viper.SetDefault("GiftCards.AccessKey", "")
	viper.SetDefault("GiftCards.SecretKey", "")
	viper.SetDefault("GiftCards.Bucket", "giftcards")
	viper.SetDefault("GiftCards.UseSSL", false)
	viper.SetDefault("GiftCards.PublicURL", "")
	viper.SetDefault("LogLevel", "info")
}
