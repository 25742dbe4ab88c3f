package services

import (
	"context"

	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// orderDayLines is line items of several orders, by order then weekday.
type orderDayLines map[uuid.UUID]map[int][]models.OrderLineItem

// loadOrderDayLines loads line items of the given orders, optionally limited to one weekday (day 0 = all).
func loadOrderDayLines(ctx context.Context, q pgxQuerier, orderIDs []uuid.UUID, day int) (orderDayLines, error) {
	out := make(orderDayLines, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT od.order_id, od.day_of_week,
		       li.id, li.order_day_id, li.menu_item_id, mi.name, mi.type, mi.is_dessert,
		       li.quantity, li.unit_price, li.is_completa, li.completa_group_id, li.position
		FROM order_line_items li
		INNER JOIN order_days od ON od.id = li.order_day_id
		INNER JOIN menu_items mi ON mi.id = li.menu_item_id
		WHERE od.order_id = ANY($1) AND ($2 = 0 OR od.day_of_week = $2)
		ORDER BY od.order_id, od.day_of_week, li.position`,
		orderIDs, day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uuid.UUID
		var dow int
		var li models.OrderLineItem
		if err := rows.Scan(&orderID, &dow,
			&li.ID, &li.OrderDayID, &li.MenuItemID, &li.Name, &li.Type, &li.IsDessert,
			&li.Quantity, &li.UnitPrice, &li.IsCompleta, &li.CompletaGroupID, &li.Position,
		); err != nil {
			return nil, err
		}
		byDay, ok := out[orderID]
		if !ok {
			byDay = make(map[int][]models.OrderLineItem)
			out[orderID] = byDay
		}
		byDay[dow] = append(byDay[dow], li)
	}
	return out, rows.Err()
}
