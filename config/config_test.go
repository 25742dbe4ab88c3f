package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PRICE_COMPLETA", "PRICE_EXTRA_ENTREE", "PRICE_EXTRA_SIDE", "DELIVERY_FEE_PER_MEAL", "MIN_ORDER_DAYS", "MAX_SIDES_PER_COMPLETA", "APP_ENV"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]struct {
		got  decimal.Decimal
		want string
	}{
		"completa":     {cfg.Pricing.CompletaPrice, "12"},
		"extra entree": {cfg.Pricing.ExtraEntreePrice, "6"},
		"extra side":   {cfg.Pricing.ExtraSidePrice, "2"},
		"delivery fee": {cfg.Pricing.DeliveryFeePerMeal, "1.5"},
	}
	for name, w := range want {
		if !w.got.Equal(decimal.RequireFromString(w.want)) {
			t.Errorf("%s = %s, want %s", name, w.got, w.want)
		}
	}
	if cfg.Ordering.MinOrderDays != 3 || cfg.Ordering.MaxSidesPerCompleta != 2 {
		t.Errorf("ordering = %+v", cfg.Ordering)
	}
	if cfg.IsDevelopment() {
		t.Error("default env should not be development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRICE_COMPLETA", "13.25")
	t.Setenv("MIN_ORDER_DAYS", "5")
	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Pricing.CompletaPrice.Equal(decimal.RequireFromString("13.25")) {
		t.Errorf("completa = %s", cfg.Pricing.CompletaPrice)
	}
	if cfg.Ordering.MinOrderDays != 5 || !cfg.IsDevelopment() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"PRICE_EXTRA_SIDE", "two"},
		{"DELIVERY_FEE_PER_MEAL", "-1"},
		{"DB_PORT", "postgres"},
		{"MAX_SIDES_PER_COMPLETA", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded", tt.key, tt.value)
			}
		})
	}
}
