package models

import "github.com/google/uuid"

// Driver represents a delivery driver.
type Driver struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
	ChatID   int64     `json:"-"` // Telegram chat for route / pay notifications, 0 if unknown
	IsActive bool      `json:"isActive"`
}

type Address struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Zip        string    `json:"zip"`
	Notes      string    `json:"notes,omitempty"`
}
