package config

import (
	"errors"
	"fmt"
	"strings"

	"crypto-trading-sim/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Market    Market    `mapstructure:"market"`
	Portfolio Portfolio `mapstructure:"portfolio"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	Client    Client    `mapstructure:"client"`
}

// Market holds the fixed unit prices, keyed by coin name.
type Market struct {
	Prices map[string]string `mapstructure:"prices"`
}

// Holding is a seed holding as written in the config file.
type Holding struct {
	Quantity    string `mapstructure:"quantity"`
	AverageCost string `mapstructure:"average_cost"`
}

// Portfolio holds the holdings every session starts with, keyed by coin name.
type Portfolio struct {
	Seed map[string]Holding `mapstructure:"seed"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release or test
}

// Database holds the configuration for the session store.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Client holds the configuration for the CLI's API client.
type Client struct {
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("market.prices.bitcoin", "27500")
	v.SetDefault("market.prices.ethereum", "1850")
	v.SetDefault("market.prices.cardano", "0.35")

	v.SetDefault("portfolio.seed.bitcoin.quantity", "0.5")
	v.SetDefault("portfolio.seed.bitcoin.average_cost", "27000")
	v.SetDefault("portfolio.seed.ethereum.quantity", "10")
	v.SetDefault("portfolio.seed.ethereum.average_cost", "1800")
	v.SetDefault("portfolio.seed.cardano.quantity", "1000")
	v.SetDefault("portfolio.seed.cardano.average_cost", "0.3")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.dsn", "file::memory:")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.rate_limit", 5)       // requests per second
	v.SetDefault("client.rate_limit_burst", 2) // burst size
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error: defaults apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

// MarketPrices converts the configured prices into a price table.
func (c Config) MarketPrices() (models.MarketPriceTable, error) {
	prices := make(map[models.CoinSymbol]decimal.Decimal, len(c.Market.Prices))
	for name, text := range c.Market.Prices {
		coin, err := models.ParseCoinSymbol(name)
		if err != nil {
			return models.MarketPriceTable{}, fmt.Errorf("market.prices: %w", err)
		}
		price, err := decimal.NewFromString(text)
		if err != nil {
			return models.MarketPriceTable{}, fmt.Errorf("market.prices.%s: %w", name, err)
		}
		prices[coin] = price
	}
	return models.NewMarketPriceTable(prices)
}

// SeedPortfolio converts the configured seed holdings into a portfolio.
func (c Config) SeedPortfolio() (models.Portfolio, error) {
	seed := make(map[models.CoinSymbol]models.Holding, len(c.Portfolio.Seed))
	for name, h := range c.Portfolio.Seed {
		coin, err := models.ParseCoinSymbol(name)
		if err != nil {
			return models.Portfolio{}, fmt.Errorf("portfolio.seed: %w", err)
		}
		qty, err := decimalOrZero(h.Quantity)
		if err != nil {
			return models.Portfolio{}, fmt.Errorf("portfolio.seed.%s.quantity: %w", name, err)
		}
		cost, err := decimalOrZero(h.AverageCost)
		if err != nil {
			return models.Portfolio{}, fmt.Errorf("portfolio.seed.%s.average_cost: %w", name, err)
		}
		seed[coin] = models.Holding{Quantity: qty, AverageCost: cost}
	}
	return models.NewPortfolio(seed)
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}
