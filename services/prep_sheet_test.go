package services

import (
	"testing"
	"time"

	"meal-orders/models"

	"github.com/google/uuid"
)

func TestBuildPrepSheet(t *testing.T) {
	beef, arroz, rice := uuid.New(), uuid.New(), uuid.New()
	item := func(id uuid.UUID, name, typ string, qty int, group string) models.OrderLineItem {
		li := models.OrderLineItem{ID: uuid.New(), MenuItemID: id, Name: name, Type: typ, Quantity: qty}
		if group != "" {
			li.IsCompleta = true
			li.CompletaGroupID = strPtr(group)
		}
		return li
	}

	lines := map[uuid.UUID][]models.OrderLineItem{
		uuid.New(): {
			item(beef, "beef", models.ItemTypeEntree, 1, "g1"),
			item(rice, "Rice", models.ItemTypeSide, 1, "g1"),
			item(beef, "beef", models.ItemTypeEntree, 2, ""),
		},
		uuid.New(): {
			item(arroz, "Arroz con pollo", models.ItemTypeEntree, 1, "g2"),
			item(rice, "Rice", models.ItemTypeSide, 3, ""),
		},
		uuid.New(): nil,
	}

	sheet := BuildPrepSheet(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), 2, lines)

	if sheet.DayName != "Tuesday" || sheet.WeekStartDate != "2026-10-12" {
		t.Errorf("header = %s / %s", sheet.DayName, sheet.WeekStartDate)
	}
	if sheet.TotalOrders != 2 || sheet.TotalCompletas != 2 {
		t.Errorf("orders=%d completas=%d, want 2 and 2", sheet.TotalOrders, sheet.TotalCompletas)
	}

	want := []struct {
		name                   string
		completa, extra, total int
	}{
		{"Arroz con pollo", 1, 0, 1},
		{"beef", 1, 2, 3},
		{"Rice", 1, 3, 4},
	}
	if len(sheet.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(sheet.Items), len(want))
	}
	for i, w := range want {
		got := sheet.Items[i]
		if got.Name != w.name || got.CompletaQty != w.completa || got.ExtraQty != w.extra || got.TotalQty != w.total {
			t.Errorf("items[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestBuildPrepSheetEmpty(t *testing.T) {
	sheet := BuildPrepSheet(time.Now(), 5, nil)
	if sheet.Items == nil || len(sheet.Items) != 0 || sheet.TotalOrders != 0 {
		t.Errorf("empty sheet = %+v", sheet)
	}
}

func TestValidDayOfWeek(t *testing.T) {
	for day, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := ValidDayOfWeek(day); got != want {
			t.Errorf("ValidDayOfWeek(%d) = %v, want %v", day, got, want)
		}
	}
}
