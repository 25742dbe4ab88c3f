package services

import (
	"context"
	"fmt"
	"sort"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LabelOrder is one qualifying delivery order with its line items for the labelled day.
type LabelOrder struct {
	OrderID      uuid.UUID
	CustomerID   uuid.UUID
	CustomerName string
	Address      *models.Address
	DriverID     *uuid.UUID
	DriverName   string
	StopNumber   *int
	Notes        string
	TotalAmount  decimal.Decimal
	OrderIndex   int // 1-based among the customer's orders of the week
	OrderCount   int
	Items        []models.OrderLineItem
}

func toLabelItems(items []models.OrderLineItem) []models.LabelItem {
	out := make([]models.LabelItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.LabelItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			IsDessert:  it.IsDessert,
		})
	}
	return out
}

// BuildDeliveryLabels emits one label per bag. Loose extras and the balance due go
// on bag 1 only; a day with extras but no bags gets a single extras-only label.
func BuildDeliveryLabels(day int, orders []LabelOrder) []models.Label {
	var labels []models.Label
	for _, o := range orders {
		groups := GroupByCompleta(o.Items)
		extraEntrees, extraSides := SplitExtras(groups.Extras)

		base := models.Label{
			OrderID:      o.OrderID,
			CustomerID:   o.CustomerID,
			CustomerName: o.CustomerName,
			Address:      o.Address,
			DriverID:     o.DriverID,
			DriverName:   o.DriverName,
			StopNumber:   o.StopNumber,
			DayOfWeek:    day,
			Sides:        []models.LabelItem{},
			ExtraEntrees: []models.LabelItem{},
			ExtraSides:   []models.LabelItem{},
			OrderIndex:   o.OrderIndex,
			OrderTotal:   o.OrderCount,
			BalanceDue:   decimal.Zero,
			Notes:        o.Notes,
		}

		if len(groups.Bags) == 0 {
			if len(groups.Extras) == 0 {
				continue
			}
			l := base
			l.BagIndex, l.TotalBags = 1, 1
			l.ExtraEntrees = toLabelItems(extraEntrees)
			l.ExtraSides = toLabelItems(extraSides)
			l.BalanceDue = o.TotalAmount
			labels = append(labels, l)
			continue
		}

		for i, bag := range groups.Bags {
			l := base
			l.BagIndex = i + 1
			l.TotalBags = len(groups.Bags)
			if e := bag.Entree(); e != nil {
				item := toLabelItems([]models.OrderLineItem{*e})[0]
				l.Entree = &item
			}
			l.Sides = toLabelItems(bag.Sides())
			if i == 0 {
				l.ExtraEntrees = toLabelItems(extraEntrees)
				l.ExtraSides = toLabelItems(extraSides)
				l.BalanceDue = o.TotalAmount
			}
			labels = append(labels, l)
		}
	}
	SortLabels(labels)
	return labels
}

// SortLabels orders labels by stop number (unassigned last), then street.
// The sort is stable so an order's bags keep their sequence.
func SortLabels(labels []models.Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		a, b := labels[i], labels[j]
		switch {
		case a.StopNumber != nil && b.StopNumber != nil:
			if *a.StopNumber != *b.StopNumber {
				return *a.StopNumber < *b.StopNumber
			}
		case a.StopNumber != nil:
			return true
		case b.StopNumber != nil:
			return false
		}
		return street(a) < street(b)
	})
}

func street(l models.Label) string {
	if l.Address == nil {
		return ""
	}
	return l.Address.Street
}

// GetDeliveryLabels builds labels for one day of a weekly menu, optionally for one driver.
func GetDeliveryLabels(ctx context.Context, weeklyMenuID uuid.UUID, day int, driverID *uuid.UUID) ([]models.Label, error) {
	if !ValidDayOfWeek(day) {
		return nil, validationf("day of week must be 1-5, got %d", day)
	}
	if _, err := GetWeeklyMenu(ctx, weeklyMenuID); err != nil {
		return nil, err
	}

	// order_index / order_count rank every non-cancelled order of the customer in the week,
	// pickup included, before the delivery filter is applied.
	rows, err := db.Pool.Query(ctx, `
		WITH ranked AS (
			SELECT o.*,
			       ROW_NUMBER() OVER (PARTITION BY o.customer_id ORDER BY o.created_at, o.id) AS order_index,
			       COUNT(*) OVER (PARTITION BY o.customer_id) AS order_count
			FROM orders o
			WHERE o.weekly_menu_id = $1 AND o.status <> $2
		)
		SELECT r.id, r.customer_id, c.full_name, r.driver_id, COALESCE(d.full_name, ''), r.stop_number,
		       r.notes, r.total_amount, r.order_index, r.order_count,
		       a.id, a.customer_id, a.street, a.city, a.zip, a.notes
		FROM ranked r
		INNER JOIN customers c ON c.id = r.customer_id
		INNER JOIN addresses a ON a.id = r.address_id
		LEFT JOIN drivers d ON d.id = r.driver_id
		WHERE r.is_pickup = false
		  AND ($3::uuid IS NULL OR r.driver_id = $3)
		ORDER BY r.created_at, r.id`,
		weeklyMenuID, OrderStatusCancelled, driverID,
	)
	if err != nil {
		return nil, fmt.Errorf("list label orders: %w", err)
	}
	defer rows.Close()

	var orders []LabelOrder
	var ids []uuid.UUID
	for rows.Next() {
		var o LabelOrder
		var a models.Address
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.CustomerName, &o.DriverID, &o.DriverName, &o.StopNumber,
			&o.Notes, &o.TotalAmount, &o.OrderIndex, &o.OrderCount,
			&a.ID, &a.CustomerID, &a.Street, &a.City, &a.Zip, &a.Notes,
		); err != nil {
			return nil, err
		}
		o.Address = &a
		orders = append(orders, o)
		ids = append(ids, o.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := loadOrderDayLines(ctx, db.Pool, ids, day)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	for i := range orders {
		orders[i].Items = lines[orders[i].OrderID][day]
	}
	return BuildDeliveryLabels(day, orders), nil
}
