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

// ValidateOrderDays checks the shape of the requested days: enough distinct
// weekdays, at least one completa each, positive quantities, bounded sides per bag.
func ValidateOrderDays(days []models.OrderDaySpec, rules config.OrderingConfig) error {
	if len(days) < rules.MinOrderDays {
		return validationf("an order needs at least %d days, got %d", rules.MinOrderDays, len(days))
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if !ValidDayOfWeek(d.DayOfWeek) {
			return validationf("day of week must be 1-5, got %d", d.DayOfWeek)
		}
		if seen[d.DayOfWeek] {
			return validationf("%s appears more than once", DayName(d.DayOfWeek))
		}
		seen[d.DayOfWeek] = true
		if len(d.Completas) == 0 {
			return validationf("%s needs at least one completa", DayName(d.DayOfWeek))
		}
		for i, c := range d.Completas {
			if c.EntreeID == uuid.Nil {
				return validationf("%s completa %d has no entree", DayName(d.DayOfWeek), i+1)
			}
			sides := 0
			for _, s := range c.Sides {
				if s.Quantity < 1 {
					return validationf("%s completa %d: side quantity must be >= 1", DayName(d.DayOfWeek), i+1)
				}
				sides += s.Quantity
			}
			if rules.MaxSidesPerCompleta > 0 && sides > rules.MaxSidesPerCompleta {
				return validationf("%s completa %d has %d sides, at most %d allowed", DayName(d.DayOfWeek), i+1, sides, rules.MaxSidesPerCompleta)
			}
		}
		for _, e := range d.ExtraEntrees {
			if e.Quantity < 1 {
				return validationf("%s: extra entree quantity must be >= 1", DayName(d.DayOfWeek))
			}
		}
		for _, s := range d.ExtraSides {
			if s.Quantity < 1 {
				return validationf("%s: extra side quantity must be >= 1", DayName(d.DayOfWeek))
			}
		}
	}
	return nil
}

// menuRef is a referenced item with the type its slot requires.
type menuRef struct {
	id       uuid.UUID
	wantType string
}

func collectMenuRefs(days []models.OrderDaySpec) []menuRef {
	var refs []menuRef
	for _, d := range days {
		for _, c := range d.Completas {
			refs = append(refs, menuRef{c.EntreeID, models.ItemTypeEntree})
			for _, s := range c.Sides {
				refs = append(refs, menuRef{s.ItemID, models.ItemTypeSide})
			}
		}
		for _, e := range d.ExtraEntrees {
			refs = append(refs, menuRef{e.ItemID, models.ItemTypeEntree})
		}
		for _, s := range d.ExtraSides {
			refs = append(refs, menuRef{s.ItemID, models.ItemTypeSide})
		}
	}
	return refs
}

// ValidateMenuRefs checks every referenced item exists and sits in a slot of its type.
func ValidateMenuRefs(days []models.OrderDaySpec, items map[uuid.UUID]models.MenuItem) error {
	for _, r := range collectMenuRefs(days) {
		m, ok := items[r.id]
		if !ok {
			return validationf("menu item %s does not exist", r.id)
		}
		if m.Type != r.wantType {
			return validationf("menu item %q is a %s, not a %s", m.Name, m.Type, r.wantType)
		}
	}
	return nil
}

func checkMenuRefs(ctx context.Context, q pgxQuerier, days []models.OrderDaySpec) error {
	refs := collectMenuRefs(days)
	ids := make([]uuid.UUID, 0, len(refs))
	seen := make(map[uuid.UUID]bool, len(refs))
	for _, r := range refs {
		if !seen[r.id] {
			seen[r.id] = true
			ids = append(ids, r.id)
		}
	}
	items, err := GetMenuItemsByIDs(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("load menu items: %w", err)
	}
	return ValidateMenuRefs(days, items)
}

// checkFulfillment returns the address to store: nil for pickup, the
// customer's own address for delivery.
func checkFulfillment(ctx context.Context, q pgxQuerier, customerID uuid.UUID, f models.Fulfillment) (*uuid.UUID, error) {
	switch v := f.(type) {
	case models.Pickup:
		return nil, nil
	case models.Delivery:
		if v.AddressID == uuid.Nil {
			return nil, validationf("delivery orders need an address")
		}
		var owner uuid.UUID
		err := q.QueryRow(ctx, `SELECT customer_id FROM addresses WHERE id = $1`, v.AddressID).Scan(&owner)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, validationf("address %s does not exist", v.AddressID)
			}
			return nil, err
		}
		if owner != customerID {
			return nil, validationf("address does not belong to this customer")
		}
		id := v.AddressID
		return &id, nil
	default:
		return nil, validationf("choose pickup or delivery")
	}
}

func insertOrderDays(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, days []models.OrderDaySpec, pricing models.PricingConfig) error {
	for _, d := range days {
		dayID := uuid.New()
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_days (id, order_id, day_of_week) VALUES ($1, $2, $3)`,
			dayID, orderID, d.DayOfWeek,
		); err != nil {
			return fmt.Errorf("insert order day: %w", err)
		}
		for _, li := range ExplodeDay(d, pricing, dayID) {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_line_items (id, order_day_id, menu_item_id, quantity, unit_price, is_completa, completa_group_id, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				li.ID, li.OrderDayID, li.MenuItemID, li.Quantity, li.UnitPrice, li.IsCompleta, li.CompletaGroupID, li.Position,
			); err != nil {
				return fmt.Errorf("insert line item: %w", err)
			}
		}
	}
	return nil
}

// ReconcileOrderEdit replaces an order's days and line items and reprices it.
// Everything happens in one transaction holding the order row lock, so
// readers see either the old or the new order and concurrent edits serialize.
func ReconcileOrderEdit(ctx context.Context, orderID uuid.UUID, in models.OrderInput, rules config.OrderingConfig, defaults config.PricingDefaults) (*models.Order, error) {
	if err := ValidateOrderDays(in.Days, rules); err != nil {
		return nil, err
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

	var customerID uuid.UUID
	var status string
	var version int
	var promo *decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT customer_id, status, version, promo_percent_off
		FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&customerID, &status, &version, &promo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", ID: orderID.String()}
		}
		return nil, err
	}
	if !IsEditable(status) {
		return nil, invalidStatef("order is %s and can no longer be edited", status)
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != version {
		return nil, invalidStatef("order was changed by someone else (version %d, expected %d)", version, *in.ExpectedVersion)
	}

	addressID, err := checkFulfillment(ctx, tx, customerID, in.Fulfillment)
	if err != nil {
		return nil, err
	}
	if err := checkMenuRefs(ctx, tx, in.Days); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_days WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("delete order days: %w", err)
	}
	isPickup := models.IsPickup(in.Fulfillment)
	totals := ApplyPromo(ComputeTotals(in.Days, *pricing, isPickup), promo)
	if err := insertOrderDays(ctx, tx, orderID, in.Days, *pricing); err != nil {
		return nil, err
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET
			is_pickup = $1,
			address_id = $2,
			driver_id = CASE WHEN $1 THEN NULL ELSE driver_id END,
			stop_number = CASE WHEN $1 THEN NULL ELSE stop_number END,
			notes = $3,
			subtotal = $4,
			delivery_fee = $5,
			discount_amount = $6,
			total_amount = $7,
			version = version + 1,
			updated_at = now()
		WHERE id = $8
		RETURNING `+orderColumns,
		isPickup, addressID, in.Notes, totals.Subtotal, totals.DeliveryFee, totals.Discount, totals.TotalAmount, orderID,
	))
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
