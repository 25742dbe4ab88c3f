package services

import (
	"testing"
	"time"

	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestMealsForLines(t *testing.T) {
	items := []models.OrderLineItem{
		bagItem("a", models.ItemTypeEntree, 0),
		bagItem("a", models.ItemTypeSide, 1),
		bagItem("b", models.ItemTypeEntree, 2),
		extraItem(models.ItemTypeEntree, 3, 3),
		extraItem(models.ItemTypeSide, 5, 4),
	}
	if got := MealsForLines(items); got != 5 {
		t.Errorf("MealsForLines = %d, want 5", got)
	}
	if got := MealsForLines(nil); got != 0 {
		t.Errorf("MealsForLines(nil) = %d, want 0", got)
	}
}

func TestBuildDriverPayReport(t *testing.T) {
	week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	fee := decimal.RequireFromString("1.5")
	maria, bob := uuid.New(), uuid.New()

	orders := []PayOrder{
		{
			OrderID: uuid.New(), DriverID: &maria, DriverName: "maria",
			Days: map[int][]models.OrderLineItem{
				1: {bagItem("m1", models.ItemTypeEntree, 0), bagItem("m2", models.ItemTypeEntree, 1)},
				2: {bagItem("m3", models.ItemTypeEntree, 0), extraItem(models.ItemTypeEntree, 2, 1)},
			},
		},
		{
			OrderID: uuid.New(), DriverID: &maria, DriverName: "maria",
			Days: map[int][]models.OrderLineItem{
				1: {bagItem("m4", models.ItemTypeEntree, 0), extraItem(models.ItemTypeSide, 4, 1)},
			},
		},
		{
			OrderID: uuid.New(), DriverID: &bob, DriverName: "Bob",
			Days: map[int][]models.OrderLineItem{
				3: {bagItem("b1", models.ItemTypeEntree, 0)},
			},
		},
		{
			OrderID: uuid.New(),
			Days:    map[int][]models.OrderLineItem{1: {bagItem("u1", models.ItemTypeEntree, 0)}},
		},
	}

	report := BuildDriverPayReport(week, fee, orders)

	if report.WeekStartDate != "2026-10-12" {
		t.Errorf("WeekStartDate = %q", report.WeekStartDate)
	}
	if report.SkippedUnassignedOrders != 1 {
		t.Errorf("SkippedUnassignedOrders = %d, want 1", report.SkippedUnassignedOrders)
	}
	if len(report.Drivers) != 2 {
		t.Fatalf("got %d drivers, want 2", len(report.Drivers))
	}
	// case-insensitive name order
	if report.Drivers[0].DriverName != "Bob" || report.Drivers[1].DriverName != "maria" {
		t.Errorf("driver order = %s, %s", report.Drivers[0].DriverName, report.Drivers[1].DriverName)
	}

	m := report.Drivers[1]
	if m.TotalMeals != 6 || m.TotalDeliveries != 2 {
		t.Errorf("maria meals=%d deliveries=%d, want 6 and 2", m.TotalMeals, m.TotalDeliveries)
	}
	if mon := m.DailyBreakdown[1]; mon.MealCount != 3 || mon.DeliveryCount != 2 {
		t.Errorf("maria monday = %+v, want 3 meals / 2 deliveries", mon)
	}
	if tue := m.DailyBreakdown[2]; tue.MealCount != 3 || tue.DeliveryCount != 1 {
		t.Errorf("maria tuesday = %+v, want 3 meals / 1 delivery", tue)
	}
	if !m.TotalPay.Equal(decimal.RequireFromString("9")) {
		t.Errorf("maria pay = %s, want 9", m.TotalPay)
	}

	// totals are consistent with the per-driver records
	meals := 0
	pay := decimal.Zero
	for _, d := range report.Drivers {
		dayMeals := 0
		for _, s := range d.DailyBreakdown {
			dayMeals += s.MealCount
		}
		if dayMeals != d.TotalMeals {
			t.Errorf("%s: daily meals %d != total %d", d.DriverName, dayMeals, d.TotalMeals)
		}
		if !d.TotalPay.Equal(fee.Mul(decimal.NewFromInt(int64(d.TotalMeals)))) {
			t.Errorf("%s: pay %s is not fee x meals", d.DriverName, d.TotalPay)
		}
		meals += d.TotalMeals
		pay = pay.Add(d.TotalPay)
	}
	if meals != report.TotalMealsAllDrivers || !pay.Equal(report.TotalPayAllDrivers) {
		t.Errorf("report totals %d / %s, drivers sum to %d / %s", report.TotalMealsAllDrivers, report.TotalPayAllDrivers, meals, pay)
	}
}

func TestBuildDriverPayReportEmpty(t *testing.T) {
	report := BuildDriverPayReport(time.Now(), decimal.RequireFromString("2"), nil)
	if report.Drivers == nil || len(report.Drivers) != 0 {
		t.Errorf("Drivers = %#v, want empty non-nil slice", report.Drivers)
	}
	if !report.TotalPayAllDrivers.IsZero() || report.TotalMealsAllDrivers != 0 {
		t.Errorf("empty report has totals %d / %s", report.TotalMealsAllDrivers, report.TotalPayAllDrivers)
	}
}
