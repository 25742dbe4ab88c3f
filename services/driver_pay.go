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
	"github.com/shopspring/decimal"
)

// PayOrder is one delivered order with its line items per weekday.
type PayOrder struct {
	OrderID    uuid.UUID
	DriverID   *uuid.UUID
	DriverName string
	Days       map[int][]models.OrderLineItem
}

// MealsForLines counts meals in stored line items: one per completa group plus
// extra entree quantities. Completa sides and extra sides never count.
func MealsForLines(items []models.OrderLineItem) int {
	n := DistinctCompletaGroups(items)
	for _, it := range items {
		if !it.IsCompleta && it.Type == models.ItemTypeEntree {
			n += it.Quantity
		}
	}
	return n
}

// BuildDriverPayReport aggregates meals and deliveries per driver. Orders without a
// driver are left out and counted in SkippedUnassignedOrders.
func BuildDriverPayReport(weekStart time.Time, feePerMeal decimal.Decimal, orders []PayOrder) models.DriverPayReport {
	report := models.DriverPayReport{
		WeekStartDate:      models.FormatWeekStart(weekStart),
		DeliveryFeePerMeal: feePerMeal,
		Drivers:            []models.DriverPayRecord{},
		TotalPayAllDrivers: decimal.Zero,
	}
	byDriver := make(map[uuid.UUID]*models.DriverPayRecord)
	for _, o := range orders {
		if o.DriverID == nil {
			report.SkippedUnassignedOrders++
			continue
		}
		rec, ok := byDriver[*o.DriverID]
		if !ok {
			rec = &models.DriverPayRecord{
				DriverID:       *o.DriverID,
				DriverName:     o.DriverName,
				DailyBreakdown: make(map[int]models.DriverDayStats),
			}
			byDriver[*o.DriverID] = rec
		}
		for day, items := range o.Days {
			meals := MealsForLines(items)
			stats := rec.DailyBreakdown[day]
			stats.MealCount += meals
			stats.DeliveryCount++
			rec.DailyBreakdown[day] = stats
			rec.TotalMeals += meals
		}
		rec.TotalDeliveries++
	}

	for _, rec := range byDriver {
		rec.TotalPay = feePerMeal.Mul(decimal.NewFromInt(int64(rec.TotalMeals)))
		report.Drivers = append(report.Drivers, *rec)
		report.TotalMealsAllDrivers += rec.TotalMeals
		report.TotalPayAllDrivers = report.TotalPayAllDrivers.Add(rec.TotalPay)
	}
	sort.Slice(report.Drivers, func(i, j int) bool {
		a, b := strings.ToLower(report.Drivers[i].DriverName), strings.ToLower(report.Drivers[j].DriverName)
		if a != b {
			return a < b
		}
		return report.Drivers[i].DriverID.String() < report.Drivers[j].DriverID.String()
	})
	return report
}

// GetDriverPayReport computes pay for the week starting weekStart. It needs a
// configured pricing row; it does not seed one.
func GetDriverPayReport(ctx context.Context, weekStart time.Time) (*models.DriverPayReport, error) {
	pricing, err := GetPricingConfig(ctx)
	if err != nil {
		return nil, err
	}
	menu, err := GetWeeklyMenuByWeekStart(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.driver_id, COALESCE(d.full_name, '')
		FROM orders o
		LEFT JOIN drivers d ON d.id = o.driver_id
		WHERE o.weekly_menu_id = $1 AND o.status = $2 AND o.is_pickup = false
		ORDER BY o.created_at, o.id`,
		menu.ID, OrderStatusDelivered,
	)
	if err != nil {
		return nil, fmt.Errorf("list delivered orders: %w", err)
	}
	defer rows.Close()

	var orders []PayOrder
	var ids []uuid.UUID
	for rows.Next() {
		var o PayOrder
		if err := rows.Scan(&o.OrderID, &o.DriverID, &o.DriverName); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := loadOrderDayLines(ctx, db.Pool, ids, 0)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	for i := range orders {
		orders[i].Days = lines[orders[i].OrderID]
	}
	report := BuildDriverPayReport(menu.WeekStartDate, pricing.DeliveryFeePerMeal, orders)
	return &report, nil
}
