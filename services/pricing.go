package services

import (
	"context"
	"errors"
	"fmt"

	"meal-orders/config"
	"meal-orders/db"
	"meal-orders/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals prices an order from its day specs. It has no side effects and
// does no rounding; validation of the days is the caller's job.
func ComputeTotals(days []models.OrderDaySpec, pricing models.PricingConfig, isPickup bool) models.OrderTotals {
	subtotal := decimal.Zero
	meals := 0
	for _, d := range days {
		bags := int64(len(d.Completas))
		subtotal = subtotal.Add(pricing.CompletaPrice.Mul(decimal.NewFromInt(bags)))
		for _, e := range d.ExtraEntrees {
			subtotal = subtotal.Add(pricing.ExtraEntreePrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
		for _, s := range d.ExtraSides {
			subtotal = subtotal.Add(pricing.ExtraSidePrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}
		meals += MealsForDay(d)
	}

	deliveryFee := decimal.Zero
	if !isPickup {
		deliveryFee = pricing.DeliveryFeePerMeal.Mul(decimal.NewFromInt(int64(meals)))
	}
	return models.OrderTotals{
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		Discount:       decimal.Zero,
		TotalAmount:    subtotal.Add(deliveryFee),
		TotalMealCount: meals,
	}
}

// ApplyPromo takes percentOff of the subtotal, rounded to cents. The delivery fee is never discounted.
func ApplyPromo(t models.OrderTotals, percentOff *decimal.Decimal) models.OrderTotals {
	if percentOff == nil || !percentOff.IsPositive() {
		return t
	}
	pct := decimal.Min(*percentOff, hundred)
	t.Discount = t.Subtotal.Mul(pct).Div(hundred).Round(2)
	t.TotalAmount = t.Subtotal.Sub(t.Discount).Add(t.DeliveryFee)
	return t
}

// MealsForDay counts delivery-fee-bearing meals of one day: bags plus extra entree quantities.
func MealsForDay(d models.OrderDaySpec) int {
	n := len(d.Completas)
	for _, e := range d.ExtraEntrees {
		n += e.Quantity
	}
	return n
}

// GetPricingConfig loads the singleton. A missing row is a ConfigurationError.
func GetPricingConfig(ctx context.Context) (*models.PricingConfig, error) {
	var p models.PricingConfig
	err := db.Pool.QueryRow(ctx, `
		SELECT completa_price, extra_entree_price, extra_side_price, delivery_fee_per_meal
		FROM pricing_config WHERE id = 1`,
	).Scan(&p.CompletaPrice, &p.ExtraEntreePrice, &p.ExtraSidePrice, &p.DeliveryFeePerMeal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConfigurationError{Msg: "pricing is not configured"}
		}
		return nil, fmt.Errorf("load pricing config: %w", err)
	}
	return &p, nil
}

// GetOrCreatePricingConfig is what totals call sites use: the first read seeds the row from defaults.
func GetOrCreatePricingConfig(ctx context.Context, defaults config.PricingDefaults) (*models.PricingConfig, error) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pricing_config (id, completa_price, extra_entree_price, extra_side_price, delivery_fee_per_meal)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		defaults.CompletaPrice, defaults.ExtraEntreePrice, defaults.ExtraSidePrice, defaults.DeliveryFeePerMeal,
	)
	if err != nil {
		return nil, fmt.Errorf("seed pricing config: %w", err)
	}
	return GetPricingConfig(ctx)
}

// UpdatePricingConfig is the admin action that changes the rates.
func UpdatePricingConfig(ctx context.Context, p models.PricingConfig) error {
	if err := ValidatePricing(p); err != nil {
		return err
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pricing_config (id, completa_price, extra_entree_price, extra_side_price, delivery_fee_per_meal, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			completa_price = EXCLUDED.completa_price,
			extra_entree_price = EXCLUDED.extra_entree_price,
			extra_side_price = EXCLUDED.extra_side_price,
			delivery_fee_per_meal = EXCLUDED.delivery_fee_per_meal,
			updated_at = now()`,
		p.CompletaPrice, p.ExtraEntreePrice, p.ExtraSidePrice, p.DeliveryFeePerMeal,
	)
	return err
}

func ValidatePricing(p models.PricingConfig) error {
	rates := []struct {
		name string
		v    decimal.Decimal
	}{
		{"completaPrice", p.CompletaPrice},
		{"extraEntreePrice", p.ExtraEntreePrice},
		{"extraSidePrice", p.ExtraSidePrice},
		{"deliveryFeePerMeal", p.DeliveryFeePerMeal},
	}
	for _, r := range rates {
		if r.v.IsNegative() {
			return validationf("%s must be >= 0", r.name)
		}
		if !r.v.Equal(r.v.Round(2)) {
			return validationf("%s must have at most 2 decimal places", r.name)
		}
	}
	return nil
}
