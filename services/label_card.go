package services

import (
	"fmt"
	"strings"

	"meal-orders/models"
)

func writeItems(b *strings.Builder, prefix string, items []models.LabelItem) {
	for _, it := range items {
		name := it.Name
		if it.IsDessert {
			name += " (dessert)"
		}
		if it.Quantity > 1 {
			fmt.Fprintf(b, "%s%dx %s\n", prefix, it.Quantity, name)
		} else {
			fmt.Fprintf(b, "%s%s\n", prefix, name)
		}
	}
}

// BuildLabelCard renders one label as plain text, the way it is printed and sent to drivers.
func BuildLabelCard(l models.Label) string {
	var b strings.Builder
	if l.StopNumber != nil {
		fmt.Fprintf(&b, "Stop %d · ", *l.StopNumber)
	}
	fmt.Fprintf(&b, "%s · %s\n", l.CustomerName, DayName(l.DayOfWeek))
	if l.Address != nil {
		b.WriteString(l.Address.Street)
		if l.Address.City != "" {
			b.WriteString(", " + l.Address.City)
		}
		b.WriteString("\n")
		if l.Address.Notes != "" {
			b.WriteString("Note: " + l.Address.Notes + "\n")
		}
	}
	fmt.Fprintf(&b, "Bag %d of %d · Order %d of %d\n", l.BagIndex, l.TotalBags, l.OrderIndex, l.OrderTotal)
	if l.Entree != nil {
		b.WriteString("Completa: " + l.Entree.Name + "\n")
		writeItems(&b, "  + ", l.Sides)
	}
	if len(l.ExtraEntrees)+len(l.ExtraSides) > 0 {
		b.WriteString("Extras:\n")
		writeItems(&b, "  ", l.ExtraEntrees)
		writeItems(&b, "  ", l.ExtraSides)
	}
	if l.BalanceDue.IsPositive() {
		fmt.Fprintf(&b, "Balance due: $%s\n", l.BalanceDue.StringFixed(2))
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildRouteMessage is the driver's route for a day: every label card, in stop order.
func BuildRouteMessage(driverName string, day int, labels []models.Label) string {
	if len(labels) == 0 {
		return fmt.Sprintf("%s, no deliveries for %s.", driverName, DayName(day))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s, your %s route: %d bags\n", driverName, DayName(day), len(labels))
	for _, l := range labels {
		b.WriteString("\n")
		b.WriteString(BuildLabelCard(l))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildPayMessage summarizes a driver's week.
func BuildPayMessage(weekStart string, feePerMeal string, rec models.DriverPayRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s · %s\n", weekStart, rec.DriverName)
	for day := 1; day <= 5; day++ {
		s, ok := rec.DailyBreakdown[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %d meals, %d deliveries\n", DayName(day), s.MealCount, s.DeliveryCount)
	}
	fmt.Fprintf(&b, "Total: %d meals × $%s = $%s", rec.TotalMeals, feePerMeal, rec.TotalPay.StringFixed(2))
	return b.String()
}
