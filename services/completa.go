package services

import (
	"sort"

	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletaBag is the line items sharing one completa group id.
type CompletaBag struct {
	GroupID string
	Items   []models.OrderLineItem
}

// Entree returns the bag's entree. Bags are assumed to hold exactly one; with
// none it returns nil, with several the first by position wins.
func (b CompletaBag) Entree() *models.OrderLineItem {
	for i := range b.Items {
		if b.Items[i].Type == models.ItemTypeEntree {
			return &b.Items[i]
		}
	}
	return nil
}

func (b CompletaBag) Sides() []models.OrderLineItem {
	var out []models.OrderLineItem
	for _, it := range b.Items {
		if it.Type == models.ItemTypeSide {
			out = append(out, it)
		}
	}
	return out
}

// CompletaGroups is one order-day's line items split into bags and loose extras.
type CompletaGroups struct {
	Bags   []CompletaBag // in bag-creation order
	Extras []models.OrderLineItem
}

// GroupByCompleta buckets items by completa group id. Bag contents are not
// validated here: the one-entree-per-bag rule is enforced when the items are written.
func GroupByCompleta(items []models.OrderLineItem) CompletaGroups {
	sorted := make([]models.OrderLineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var g CompletaGroups
	index := make(map[string]int)
	for _, it := range sorted {
		if !it.IsCompleta || it.CompletaGroupID == nil {
			g.Extras = append(g.Extras, it)
			continue
		}
		id := *it.CompletaGroupID
		i, ok := index[id]
		if !ok {
			i = len(g.Bags)
			index[id] = i
			g.Bags = append(g.Bags, CompletaBag{GroupID: id})
		}
		g.Bags[i].Items = append(g.Bags[i].Items, it)
	}
	return g
}

// SplitExtras separates loose extras into entrees and sides by menu item type.
func SplitExtras(extras []models.OrderLineItem) (entrees, sides []models.OrderLineItem) {
	for _, it := range extras {
		switch it.Type {
		case models.ItemTypeEntree:
			entrees = append(entrees, it)
		case models.ItemTypeSide:
			sides = append(sides, it)
		}
	}
	return entrees, sides
}

// DistinctCompletaGroups counts the bags among items without building them.
func DistinctCompletaGroups(items []models.OrderLineItem) int {
	seen := make(map[string]struct{})
	for _, it := range items {
		if it.IsCompleta && it.CompletaGroupID != nil {
			seen[*it.CompletaGroupID] = struct{}{}
		}
	}
	return len(seen)
}

// NewCompletaGroupID returns a fresh group id. Ids are never reused across writes.
func NewCompletaGroupID() string {
	return uuid.NewString()
}

// ExplodeDay flattens an OrderDaySpec into priced line items. Every bag gets a new
// group id, and positions follow request order so bag-creation order survives a round trip.
func ExplodeDay(d models.OrderDaySpec, pricing models.PricingConfig, orderDayID uuid.UUID) []models.OrderLineItem {
	var out []models.OrderLineItem
	pos := 0
	add := func(it models.OrderLineItem) {
		it.ID = uuid.New()
		it.OrderDayID = orderDayID
		it.Position = pos
		pos++
		out = append(out, it)
	}
	for _, c := range d.Completas {
		gid := NewCompletaGroupID()
		add(models.OrderLineItem{
			MenuItemID:      c.EntreeID,
			Type:            models.ItemTypeEntree,
			Quantity:        1,
			UnitPrice:       pricing.CompletaPrice,
			IsCompleta:      true,
			CompletaGroupID: &gid,
		})
		for _, s := range c.Sides {
			add(models.OrderLineItem{
				MenuItemID:      s.ItemID,
				Type:            models.ItemTypeSide,
				Quantity:        s.Quantity,
				UnitPrice:       decimal.Zero,
				IsCompleta:      true,
				CompletaGroupID: &gid,
			})
		}
	}
	for _, e := range d.ExtraEntrees {
		add(models.OrderLineItem{
			MenuItemID: e.ItemID,
			Type:       models.ItemTypeEntree,
			Quantity:   e.Quantity,
			UnitPrice:  pricing.ExtraEntreePrice,
		})
	}
	for _, s := range d.ExtraSides {
		add(models.OrderLineItem{
			MenuItemID: s.ItemID,
			Type:       models.ItemTypeSide,
			Quantity:   s.Quantity,
			UnitPrice:  pricing.ExtraSidePrice,
		})
	}
	return out
}
