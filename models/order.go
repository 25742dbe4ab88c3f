package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemQty is a menu item reference with a quantity.
type ItemQty struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// CompletaSpec is one physical meal bag: one entree plus its sides.
type CompletaSpec struct {
	EntreeID uuid.UUID `json:"entreeId"`
	Sides    []ItemQty `json:"sides"`
}

// OrderDaySpec is the requested content of one weekday (1=Mon … 5=Fri).
type OrderDaySpec struct {
	DayOfWeek    int            `json:"dayOfWeek"`
	Completas    []CompletaSpec `json:"completas"`
	ExtraEntrees []ItemQty      `json:"extraEntrees"`
	ExtraSides   []ItemQty      `json:"extraSides"`
}

// Fulfillment is either Pickup or Delivery.
type Fulfillment interface {
	isFulfillment()
}

type Pickup struct{}

type Delivery struct {
	AddressID uuid.UUID
}

func (Pickup) isFulfillment()   {}
func (Delivery) isFulfillment() {}

// IsPickup reports whether f is the pickup variant.
func IsPickup(f Fulfillment) bool {
	_, ok := f.(Pickup)
	return ok
}

// OrderInput is the body of a create or edit request.
type OrderInput struct {
	Days            []OrderDaySpec
	Fulfillment     Fulfillment
	Notes           string
	ExpectedVersion *int // optional optimistic check on edit
}

// Order is a row from orders.
type Order struct {
	ID              uuid.UUID        `json:"id"`
	CustomerID      uuid.UUID        `json:"customerId"`
	WeeklyMenuID    uuid.UUID        `json:"weeklyMenuId"`
	Status          string           `json:"status"`
	IsPickup        bool             `json:"isPickup"`
	AddressID       *uuid.UUID       `json:"addressId"`
	DriverID        *uuid.UUID       `json:"driverId"`
	StopNumber      *int             `json:"stopNumber"`
	Notes           string           `json:"notes"`
	PromoPercentOff *decimal.Decimal `json:"promoPercentOff,omitempty"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	DeliveryFee     decimal.Decimal  `json:"deliveryFee"`
	DiscountAmount  decimal.Decimal  `json:"discount"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// OrderLineItem is one flattened row of order_line_items joined with its menu item.
type OrderLineItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderDayID      uuid.UUID       `json:"orderDayId"`
	MenuItemID      uuid.UUID       `json:"menuItemId"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	IsDessert       bool            `json:"isDessert"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	IsCompleta      bool            `json:"isCompleta"`
	CompletaGroupID *string         `json:"completaGroupId"`
	Position        int             `json:"position"`
}

// OrderTotals is always derived from scratch from the order's days.
type OrderTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Discount       decimal.Decimal `json:"discount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalMealCount int             `json:"totalMeals"`
}

// ChargeCents is the amount handed to the payment provider, rounded to cents.
func (t OrderTotals) ChargeCents() int64 {
	return t.TotalAmount.Round(2).Shift(2).IntPart()
}

// OrderRequest is the JSON shape of OrderInput.
type OrderRequest struct {
	OrderDays       []OrderDaySpec `json:"orderDays"`
	IsPickup        bool           `json:"isPickup"`
	AddressID       *uuid.UUID     `json:"addressId,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	ExpectedVersion *int           `json:"expectedVersion,omitempty"`
}

// ErrAddressRequired is returned by ToInput for a delivery request without an address.
var ErrAddressRequired = errors.New("addressId is required for delivery orders")

// ToInput turns the flat request into an OrderInput with a Pickup or Delivery fulfillment.
func (r OrderRequest) ToInput() (OrderInput, error) {
	in := OrderInput{
		Days:            r.OrderDays,
		Notes:           r.Notes,
		ExpectedVersion: r.ExpectedVersion,
	}
	switch {
	case r.IsPickup:
		in.Fulfillment = Pickup{}
	case r.AddressID == nil || *r.AddressID == uuid.Nil:
		return OrderInput{}, ErrAddressRequired
	default:
		in.Fulfillment = Delivery{AddressID: *r.AddressID}
	}
	return in, nil
}
