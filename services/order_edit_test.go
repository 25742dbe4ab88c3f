package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-orders/config"
	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testRules = config.OrderingConfig{MinOrderDays: 3, MaxSidesPerCompleta: 2}

func TestValidateOrderDays(t *testing.T) {
	dup := days(3, 1)
	dup[2].DayOfWeek = 1

	noBags := days(3, 1)
	noBags[1].Completas = nil

	badDay := days(3, 1)
	badDay[0].DayOfWeek = 6

	tooManySides := days(3, 1)
	tooManySides[0].Completas[0].Sides = []models.ItemQty{{ItemID: uuid.New(), Quantity: 3}}

	zeroExtra := days(3, 1)
	zeroExtra[2].ExtraSides = []models.ItemQty{{ItemID: uuid.New(), Quantity: 0}}

	noEntree := days(3, 1)
	noEntree[1].Completas[0].EntreeID = uuid.Nil

	tests := []struct {
		name    string
		days    []models.OrderDaySpec
		wantErr bool
	}{
		{"three days", days(3, 1), false},
		{"full week", days(5, 2), false},
		{"too few days", days(2, 1), true},
		{"duplicate day", dup, true},
		{"day without completa", noBags, true},
		{"weekend day", badDay, true},
		{"too many sides", tooManySides, true},
		{"zero quantity extra", zeroExtra, true},
		{"bag without entree", noEntree, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderDays(tt.days, testRules)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOrderDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			var ve *ValidationError
			if err != nil && !errors.As(err, &ve) {
				t.Errorf("error %T is not a *ValidationError", err)
			}
		})
	}
}

func TestValidateMenuRefs(t *testing.T) {
	d := days(3, 1)
	items := make(map[uuid.UUID]models.MenuItem)
	for _, day := range d {
		for _, c := range day.Completas {
			items[c.EntreeID] = models.MenuItem{ID: c.EntreeID, Name: "entree", Type: models.ItemTypeEntree}
			for _, s := range c.Sides {
				items[s.ItemID] = models.MenuItem{ID: s.ItemID, Name: "side", Type: models.ItemTypeSide}
			}
		}
	}
	if err := ValidateMenuRefs(d, items); err != nil {
		t.Fatalf("valid refs rejected: %v", err)
	}

	// a side used as an extra entree
	sideID := d[0].Completas[0].Sides[0].ItemID
	wrongSlot := append([]models.OrderDaySpec(nil), d...)
	wrongSlot[0].ExtraEntrees = []models.ItemQty{{ItemID: sideID, Quantity: 1}}
	if err := ValidateMenuRefs(wrongSlot, items); err == nil {
		t.Error("side accepted as an extra entree")
	}

	unknown := days(3, 1)
	if err := ValidateMenuRefs(unknown, items); err == nil {
		t.Error("unknown menu items accepted")
	}
}

// Integration test for the edit reconciler (requires DB). Skip if db.Pool is nil or -short.
func TestReconcileOrderEdit_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping reconciler integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping reconciler integration test: no DB pool")
	}
	ctx := context.Background()
	defaults := config.PricingDefaults{
		CompletaPrice:      decimal.RequireFromString("12"),
		ExtraEntreePrice:   decimal.RequireFromString("6"),
		ExtraSidePrice:     decimal.RequireFromString("2"),
		DeliveryFeePerMeal: decimal.RequireFromString("1.5"),
	}

	customerID, err := CreateCustomer(ctx, "Reconciler Test", "", "")
	if err != nil {
		t.Fatal(err)
	}
	addr, err := AddAddress(ctx, models.Address{CustomerID: customerID, Street: "1 Test Way"})
	if err != nil {
		t.Fatal(err)
	}
	entree, err := AddMenuItem(ctx, "Test entree", models.ItemTypeEntree, false)
	if err != nil {
		t.Fatal(err)
	}
	side, err := AddMenuItem(ctx, "Test side", models.ItemTypeSide, false)
	if err != nil {
		t.Fatal(err)
	}
	menu, err := CreateWeeklyMenu(ctx, time.Date(2100, 1, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	spec := func(n, perDay int) []models.OrderDaySpec {
		out := days(n, perDay)
		for i := range out {
			for j := range out[i].Completas {
				out[i].Completas[j] = models.CompletaSpec{EntreeID: entree.ID, Sides: []models.ItemQty{{ItemID: side.ID, Quantity: 1}}}
			}
		}
		return out
	}

	order, err := CreateOrder(ctx, customerID, menu.ID, models.OrderInput{
		Days:        spec(3, 1),
		Fulfillment: models.Delivery{AddressID: addr.ID},
	}, nil, testRules, defaults)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	before, err := loadOrderDayLines(ctx, db.Pool, []uuid.UUID{order.ID}, 0)
	if err != nil {
		t.Fatal(err)
	}
	oldGroups := make(map[string]bool)
	for _, items := range before[order.ID] {
		for _, it := range items {
			if it.CompletaGroupID != nil {
				oldGroups[*it.CompletaGroupID] = true
			}
		}
	}

	// 1) Switch to pickup with two bags per day
	version := order.Version
	edited, err := ReconcileOrderEdit(ctx, order.ID, models.OrderInput{
		Days:            spec(3, 2),
		Fulfillment:     models.Pickup{},
		ExpectedVersion: &version,
	}, testRules, defaults)
	if err != nil {
		t.Fatalf("ReconcileOrderEdit: %v", err)
	}
	pricing, err := GetPricingConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := ComputeTotals(spec(3, 2), *pricing, true)
	if !edited.IsPickup || edited.AddressID != nil || edited.DriverID != nil {
		t.Errorf("edited order still has delivery fields: %+v", edited)
	}
	if !edited.TotalAmount.Equal(want.TotalAmount) || !edited.DeliveryFee.IsZero() {
		t.Errorf("edited total = %s (fee %s), want %s", edited.TotalAmount, edited.DeliveryFee, want.TotalAmount)
	}
	if edited.Version != version+1 {
		t.Errorf("version = %d, want %d", edited.Version, version+1)
	}

	after, err := loadOrderDayLines(ctx, db.Pool, []uuid.UUID{order.ID}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(after[order.ID]) != 3 {
		t.Errorf("got %d order days after edit, want 3", len(after[order.ID]))
	}
	for day, items := range after[order.ID] {
		if n := DistinctCompletaGroups(items); n != 2 {
			t.Errorf("day %d has %d bags, want 2", day, n)
		}
		for _, it := range items {
			if it.CompletaGroupID != nil && oldGroups[*it.CompletaGroupID] {
				t.Errorf("group id %s reused after edit", *it.CompletaGroupID)
			}
		}
	}

	// 2) A stale version is rejected
	_, err = ReconcileOrderEdit(ctx, order.ID, models.OrderInput{
		Days:            spec(3, 1),
		Fulfillment:     models.Pickup{},
		ExpectedVersion: &version,
	}, testRules, defaults)
	var state *InvalidStateError
	if !errors.As(err, &state) {
		t.Errorf("stale version: err = %v, want InvalidStateError", err)
	}

	// 3) Cancelled orders cannot be edited
	if err := UpdateOrderStatus(ctx, order.ID, OrderStatusCancelled); err != nil {
		t.Fatal(err)
	}
	_, err = ReconcileOrderEdit(ctx, order.ID, models.OrderInput{Days: spec(3, 1), Fulfillment: models.Pickup{}}, testRules, defaults)
	if !errors.As(err, &state) {
		t.Errorf("cancelled order: err = %v, want InvalidStateError", err)
	}

	// 4) Missing orders are reported as such
	_, err = ReconcileOrderEdit(ctx, uuid.New(), models.OrderInput{Days: spec(3, 1), Fulfillment: models.Pickup{}}, testRules, defaults)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("missing order: err = %v, want NotFoundError", err)
	}
}
