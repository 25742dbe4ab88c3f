package services

import (
	"strings"
	"testing"

	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildLabelCard(t *testing.T) {
	l := models.Label{
		CustomerName: "Ana Ruiz",
		Address:      &models.Address{Street: "12 Elm St", City: "Springfield", Notes: "Ring twice"},
		StopNumber:   intPtr(4),
		DayOfWeek:    1,
		Entree:       &models.LabelItem{Name: "Pollo guisado", Quantity: 1},
		Sides:        []models.LabelItem{{Name: "Rice", Quantity: 1}, {Name: "Flan", Quantity: 2, IsDessert: true}},
		ExtraEntrees: []models.LabelItem{{Name: "Pernil", Quantity: 2}},
		BagIndex:     1,
		TotalBags:    2,
		OrderIndex:   1,
		OrderTotal:   1,
		BalanceDue:   decimal.RequireFromString("34.5"),
	}
	card := BuildLabelCard(l)
	for _, want := range []string{
		"Stop 4", "Ana Ruiz", "Monday", "12 Elm St, Springfield", "Note: Ring twice",
		"Bag 1 of 2", "Completa: Pollo guisado", "+ Rice", "2x Flan (dessert)",
		"Extras:", "2x Pernil", "Balance due: $34.50",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}

	l.BalanceDue = decimal.Zero
	l.ExtraEntrees = nil
	l.StopNumber = nil
	card = BuildLabelCard(l)
	for _, unwanted := range []string{"Balance due", "Extras:", "Stop"} {
		if strings.Contains(card, unwanted) {
			t.Errorf("card should not contain %q:\n%s", unwanted, card)
		}
	}
}

func TestBuildRouteMessage(t *testing.T) {
	if m := BuildRouteMessage("Luis", 2, nil); !strings.Contains(m, "no deliveries for Tuesday") {
		t.Errorf("empty route message = %q", m)
	}
	labels := []models.Label{
		{CustomerName: "A", DayOfWeek: 2, BagIndex: 1, TotalBags: 1, BalanceDue: decimal.Zero},
		{CustomerName: "B", DayOfWeek: 2, BagIndex: 1, TotalBags: 1, BalanceDue: decimal.Zero},
	}
	m := BuildRouteMessage("Luis", 2, labels)
	if !strings.HasPrefix(m, "Luis, your Tuesday route: 2 bags") {
		t.Errorf("route header = %q", m)
	}
	if strings.Index(m, "A · Tuesday") > strings.Index(m, "B · Tuesday") {
		t.Errorf("labels out of order:\n%s", m)
	}
}

func TestBuildPayMessage(t *testing.T) {
	rec := models.DriverPayRecord{
		DriverID:   uuid.New(),
		DriverName: "Luis",
		DailyBreakdown: map[int]models.DriverDayStats{
			3: {MealCount: 4, DeliveryCount: 2},
			1: {MealCount: 2, DeliveryCount: 1},
		},
		TotalMeals: 6,
		TotalPay:   decimal.RequireFromString("9"),
	}
	m := BuildPayMessage("2026-10-12", "1.50", rec)
	if !strings.Contains(m, "Total: 6 meals × $1.50 = $9.00") {
		t.Errorf("pay message total line missing:\n%s", m)
	}
	if strings.Index(m, "Monday") > strings.Index(m, "Wednesday") || strings.Contains(m, "Tuesday") {
		t.Errorf("daily lines wrong:\n%s", m)
	}
}
