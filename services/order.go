package services

import (
	"context"
	"errors"
	"fmt"

	"meal-orders/config"
	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending        = "PENDING"
	OrderStatusConfirmed      = "CONFIRMED"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

var statusTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusReadyForPickup, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusReadyForPickup: {OrderStatusDelivered},
}

// ValidStatusTransition reports whether an order may move from one status to another.
func ValidStatusTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsEditable is false once an order is delivered or cancelled.
func IsEditable(status string) bool {
	return status != OrderStatusDelivered && status != OrderStatusCancelled
}

const orderColumns = `id, customer_id, weekly_menu_id, status, is_pickup, address_id, driver_id, stop_number,
	notes, promo_percent_off, subtotal, delivery_fee, discount_amount, total_amount, version, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.WeeklyMenuID, &o.Status, &o.IsPickup, &o.AddressID, &o.DriverID, &o.StopNumber,
		&o.Notes, &o.PromoPercentOff, &o.Subtotal, &o.DeliveryFee, &o.DiscountAmount, &o.TotalAmount, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", ID: id.String()}
		}
		return nil, err
	}
	return o, nil
}

// QuoteOrder prices an input without writing anything.
func QuoteOrder(ctx context.Context, in models.OrderInput, rules config.OrderingConfig, defaults config.PricingDefaults) (models.OrderTotals, error) {
	if err := ValidateOrderDays(in.Days, rules); err != nil {
		return models.OrderTotals{}, err
	}
	pricing, err := GetOrCreatePricingConfig(ctx, defaults)
	if err != nil {
		return models.OrderTotals{}, err
	}
	return ComputeTotals(in.Days, *pricing, models.IsPickup(in.Fulfillment)), nil
}

// CreateOrder validates the input and writes the order, its days and line items in one transaction.
func CreateOrder(ctx context.Context, customerID, weeklyMenuID uuid.UUID, in models.OrderInput, promoPercentOff *decimal.Decimal, rules config.OrderingConfig, defaults config.PricingDefaults) (*models.Order, error) {
	if err := ValidateOrderDays(in.Days, rules); err != nil {
		return nil, err
	}
	if promoPercentOff != nil && (promoPercentOff.IsNegative() || promoPercentOff.GreaterThan(hundred)) {
		return nil, validationf("promo percent must be between 0 and 100")
	}
	pricing, err := GetOrCreatePricingConfig(ctx, defaults)
	if err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM weekly_menus WHERE id = $1)`, weeklyMenuID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Entity: "weekly menu", ID: weeklyMenuID.String()}
	}
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Entity: "customer", ID: customerID.String()}
	}
	addressID, err := checkFulfillment(ctx, tx, customerID, in.Fulfillment)
	if err != nil {
		return nil, err
	}
	if err := checkMenuRefs(ctx, tx, in.Days); err != nil {
		return nil, err
	}

	isPickup := models.IsPickup(in.Fulfillment)
	totals := ApplyPromo(ComputeTotals(in.Days, *pricing, isPickup), promoPercentOff)
	orderID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, weekly_menu_id, status, is_pickup, address_id, notes, promo_percent_off,
			subtotal, delivery_fee, discount_amount, total_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		orderID, customerID, weeklyMenuID, OrderStatusPending, isPickup, addressID, in.Notes, promoPercentOff,
		totals.Subtotal, totals.DeliveryFee, totals.Discount, totals.TotalAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := insertOrderDays(ctx, tx, orderID, in.Days, *pricing); err != nil {
		return nil, err
	}
	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus moves an order to newStatus and records the transition.
func UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromStatus string
	var isPickup bool
	err = tx.QueryRow(ctx, `SELECT status, is_pickup FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&fromStatus, &isPickup)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "order", ID: orderID.String()}
		}
		return err
	}
	if !ValidStatusTransition(fromStatus, newStatus) {
		return invalidStatef("invalid status transition from %q to %q", fromStatus, newStatus)
	}
	if isPickup && newStatus == OrderStatusOutForDelivery {
		return invalidStatef("pickup orders are not sent out for delivery")
	}
	if !isPickup && newStatus == OrderStatusReadyForPickup {
		return invalidStatef("delivery orders are not held for pickup")
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, newStatus, orderID); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status)
		VALUES ($1, $2, $3)`,
		orderID, fromStatus, newStatus,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AssignDriver sets (or with a nil driverID clears) the driver and stop of a delivery order.
func AssignDriver(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, stopNumber *int) error {
	if stopNumber != nil && *stopNumber < 1 {
		return validationf("stop number must be >= 1")
	}
	if driverID == nil {
		stopNumber = nil
	}
	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.IsPickup {
		return invalidStatef("pickup orders have no driver")
	}
	if !IsEditable(o.Status) {
		return invalidStatef("order is %s", o.Status)
	}
	if driverID != nil {
		d, err := GetDriverByID(ctx, *driverID)
		if err != nil {
			return err
		}
		if !d.IsActive {
			return validationf("driver %s is not active", d.FullName)
		}
	}
	_, err = db.Pool.Exec(ctx, `
		UPDATE orders SET driver_id = $1, stop_number = $2, updated_at = now()
		WHERE id = $3`,
		driverID, stopNumber, orderID,
	)
	return err
}
