package models

import "github.com/shopspring/decimal"

// PricingConfig holds the four rates every total is computed from.
type PricingConfig struct {
	CompletaPrice      decimal.Decimal `json:"completaPrice"`
	ExtraEntreePrice   decimal.Decimal `json:"extraEntreePrice"`
	ExtraSidePrice     decimal.Decimal `json:"extraSidePrice"`
	DeliveryFeePerMeal decimal.Decimal `json:"deliveryFeePerMeal"`
}
