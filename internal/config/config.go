package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Backoffice  BackofficeConfig
	Shop        ShopConfig
	Catalog     CatalogConfig
	API         APIConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// BackofficeConfig points at the back-office service that owns sales and customers
type BackofficeConfig struct {
	BaseURL      string
	APIToken     string
	SalePath     string
	CustomerPath string
	Timeout      time.Duration
}

// ShopConfig is the shop identity printed on receipts
type ShopConfig struct {
	Name        string
	Address     string
	Phone       string
	CountryCode string
}

type CatalogConfig struct {
	Source  string // "postgres" or "file"
	File    string
	OwnerID int64
}

type APIConfig struct {
	TerminalKeyHash string
}

const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceFile     = "file"
)

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BACKOFFICE_TIMEOUT", "15s")
	viper.SetDefault("CATALOG_OWNER_ID", 0)

	viper.AutomaticEnv()

	// .env is optional, env vars are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper("BACKOFFICE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKOFFICE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "subhlabh"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Backoffice: BackofficeConfig{
			BaseURL:      strings.TrimSuffix(getEnvOrViper("BACKOFFICE_BASE_URL", ""), "/"),
			APIToken:     getEnvOrViper("BACKOFFICE_API_TOKEN", ""),
			SalePath:     getEnvOrViper("BACKOFFICE_SALE_PATH", "/billing/"),
			CustomerPath: getEnvOrViper("BACKOFFICE_CUSTOMER_PATH", "/customers/add/"),
			Timeout:      timeout,
		},
		Shop: ShopConfig{
			Name:        getEnvOrViper("SHOP_NAME", "SubhLabh"),
			Address:     getEnvOrViper("SHOP_ADDRESS", ""),
			Phone:       getEnvOrViper("SHOP_PHONE", ""),
			CountryCode: getEnvOrViper("SHOP_COUNTRY_CODE", "91"),
		},
		Catalog: CatalogConfig{
			Source:  getEnvOrViper("CATALOG_SOURCE", CatalogSourcePostgres),
			File:    getEnvOrViper("CATALOG_FILE", ""),
			OwnerID: viper.GetInt64("CATALOG_OWNER_ID"),
		},
		API: APIConfig{
			TerminalKeyHash: getEnvOrViper("TERMINAL_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Backoffice.BaseURL == "" {
		return fmt.Errorf("BACKOFFICE_BASE_URL is required")
	}
	switch c.Catalog.Source {
	case CatalogSourcePostgres:
	case CatalogSourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
