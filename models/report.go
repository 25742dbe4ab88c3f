package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PrepSheetItem struct {
	MenuItemID  uuid.UUID `json:"menuItemId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	IsDessert   bool      `json:"isDessert"`
	CompletaQty int       `json:"completaQty"`
	ExtraQty    int       `json:"extraQty"`
	TotalQty    int       `json:"totalQty"`
}

type PrepSheet struct {
	WeekStartDate  string          `json:"weekStartDate"`
	DayOfWeek      int             `json:"dayOfWeek"`
	DayName        string          `json:"dayName"`
	TotalOrders    int             `json:"totalOrders"`
	TotalCompletas int             `json:"totalCompletas"`
	Items          []PrepSheetItem `json:"items"`
}

type LabelItem struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	IsDessert  bool      `json:"isDessert"`
}

// Label is one printed delivery label: a bag, or the extras of a day without bags.
type Label struct {
	OrderID      uuid.UUID       `json:"orderId"`
	CustomerID   uuid.UUID       `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Address      *Address        `json:"address"`
	DriverID     *uuid.UUID      `json:"driverId"`
	DriverName   string          `json:"driverName,omitempty"`
	StopNumber   *int            `json:"stopNumber"`
	DayOfWeek    int             `json:"dayOfWeek"`
	Entree       *LabelItem      `json:"entree"`
	Sides        []LabelItem     `json:"sides"`
	ExtraEntrees []LabelItem     `json:"extraEntrees"`
	ExtraSides   []LabelItem     `json:"extraSides"`
	BagIndex     int             `json:"bagIndex"`
	TotalBags    int             `json:"totalBags"`
	OrderIndex   int             `json:"orderIndex"`
	OrderTotal   int             `json:"orderTotal"`
	BalanceDue   decimal.Decimal `json:"balanceDue"`
	Notes        string          `json:"notes,omitempty"`
}

type DriverDayStats struct {
	MealCount     int `json:"mealCount"`
	DeliveryCount int `json:"deliveryCount"`
}

type DriverPayRecord struct {
	DriverID        uuid.UUID              `json:"driverId"`
	DriverName      string                 `json:"driverName"`
	DailyBreakdown  map[int]DriverDayStats `json:"dailyBreakdown"`
	TotalMeals      int                    `json:"totalMeals"`
	TotalDeliveries int                    `json:"totalDeliveries"`
	TotalPay        decimal.Decimal        `json:"totalPay"`
}

type DriverPayReport struct {
	WeekStartDate           string            `json:"weekStartDate"`
	DeliveryFeePerMeal      decimal.Decimal   `json:"deliveryFeePerMeal"`
	Drivers                 []DriverPayRecord `json:"drivers"`
	TotalMealsAllDrivers    int               `json:"totalMealsAllDrivers"`
	TotalPayAllDrivers      decimal.Decimal   `json:"totalPayAllDrivers"`
	SkippedUnassignedOrders int               `json:"skippedUnassignedOrders"`
}

// WeekStartLayout is the date format used for week keys in requests and reports.
const WeekStartLayout = "2006-01-02"

func FormatWeekStart(t time.Time) string {
	return t.Format(WeekStartLayout)
}
