package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
)

var dayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
}

func DayName(day int) string {
	return dayNames[day]
}

func ValidDayOfWeek(day int) bool {
	_, ok := dayNames[day]
	return ok
}

// BuildPrepSheet totals what the kitchen has to make for one day. lines holds
// every line item of that day keyed by order; cancelled orders must already be excluded.
func BuildPrepSheet(weekStart time.Time, day int, lines map[uuid.UUID][]models.OrderLineItem) models.PrepSheet {
	sheet := models.PrepSheet{
		WeekStartDate: models.FormatWeekStart(weekStart),
		DayOfWeek:     day,
		DayName:       DayName(day),
		Items:         []models.PrepSheetItem{},
	}
	byItem := make(map[uuid.UUID]*models.PrepSheetItem)
	for _, items := range lines {
		if len(items) == 0 {
			continue
		}
		sheet.TotalOrders++
		for _, li := range items {
			if li.IsCompleta && li.Type == models.ItemTypeEntree {
				sheet.TotalCompletas++
			}
			p, ok := byItem[li.MenuItemID]
			if !ok {
				p = &models.PrepSheetItem{
					MenuItemID: li.MenuItemID,
					Name:       li.Name,
					Type:       li.Type,
					IsDessert:  li.IsDessert,
				}
				byItem[li.MenuItemID] = p
			}
			if li.IsCompleta {
				p.CompletaQty += li.Quantity
			} else {
				p.ExtraQty += li.Quantity
			}
			p.TotalQty += li.Quantity
		}
	}
	for _, p := range byItem {
		sheet.Items = append(sheet.Items, *p)
	}
	sort.Slice(sheet.Items, func(i, j int) bool {
		a, b := sheet.Items[i], sheet.Items[j]
		if a.Type != b.Type {
			return a.Type == models.ItemTypeEntree
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.MenuItemID.String() < b.MenuItemID.String()
	})
	return sheet
}

// GetPrepSheet builds the prep sheet for one day of a weekly menu.
func GetPrepSheet(ctx context.Context, weeklyMenuID uuid.UUID, day int) (*models.PrepSheet, error) {
	if !ValidDayOfWeek(day) {
		return nil, validationf("day of week must be 1-5, got %d", day)
	}
	menu, err := GetWeeklyMenu(ctx, weeklyMenuID)
	if err != nil {
		return nil, err
	}
	orderIDs, err := listOrderIDs(ctx, `
		SELECT id FROM orders
		WHERE weekly_menu_id = $1 AND status <> $2
		ORDER BY created_at, id`,
		weeklyMenuID, OrderStatusCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	lines, err := loadOrderDayLines(ctx, db.Pool, orderIDs, day)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	byOrder := make(map[uuid.UUID][]models.OrderLineItem, len(lines))
	for id, byDay := range lines {
		byOrder[id] = byDay[day]
	}
	sheet := BuildPrepSheet(menu.WeekStartDate, day, byOrder)
	return &sheet, nil
}

func listOrderIDs(ctx context.Context, sql string, args ...any) ([]uuid.UUID, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
