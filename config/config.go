package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv   string
	HTTP     HTTPConfig
	DB       DBConfig
	Telegram TelegramConfig
	Pricing  PricingDefaults
	Ordering OrderingConfig
}

type HTTPConfig struct {
	Addr string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	DriverToken string // driver route / pay notifications; disabled when empty
}

// PricingDefaults seed the pricing_config row the first time a totals call site reads it.
type PricingDefaults struct {
	CompletaPrice      decimal.Decimal
	ExtraEntreePrice   decimal.Decimal
	ExtraSidePrice     decimal.Decimal
	DeliveryFeePerMeal decimal.Decimal
}

type OrderingConfig struct {
	MinOrderDays        int
	MaxSidesPerCompleta int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	pricing, err := loadPricingDefaults()
	if err != nil {
		return nil, err
	}

	minDays, err := strconv.Atoi(getEnv("MIN_ORDER_DAYS", "3"))
	if err != nil {
		return nil, fmt.Errorf("MIN_ORDER_DAYS: %w", err)
	}
	maxSides, err := strconv.Atoi(getEnv("MAX_SIDES_PER_COMPLETA", "2"))
	if err != nil {
		return nil, fmt.Errorf("MAX_SIDES_PER_COMPLETA: %w", err)
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "production"),
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "meal_orders"),
		},
		Telegram: TelegramConfig{
			DriverToken: getEnv("DRIVER_BOT_TOKEN", ""),
		},
		Pricing: pricing,
		Ordering: OrderingConfig{
			MinOrderDays:        minDays,
			MaxSidesPerCompleta: maxSides,
		},
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func loadPricingDefaults() (PricingDefaults, error) {
	var p PricingDefaults
	fields := []struct {
		key, def string
		dst      *decimal.Decimal
	}{
		{"PRICE_COMPLETA", "12.00", &p.CompletaPrice},
		{"PRICE_EXTRA_ENTREE", "6.00", &p.ExtraEntreePrice},
		{"PRICE_EXTRA_SIDE", "2.00", &p.ExtraSidePrice},
		{"DELIVERY_FEE_PER_MEAL", "1.50", &p.DeliveryFeePerMeal},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(getEnv(f.key, f.def))
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.key, err)
		}
		if d.IsNegative() {
			return p, fmt.Errorf("%s must be >= 0", f.key)
		}
		*f.dst = d
	}
	return p, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
