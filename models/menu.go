package models

import (
	"time"

	"github.com/google/uuid"
)

type MenuItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // "ENTREE" or "SIDE"
	IsDessert bool      `json:"isDessert"`
	IsActive  bool      `json:"isActive"`
}

const (
	ItemTypeEntree = "ENTREE"
	ItemTypeSide   = "SIDE"
)

// WeeklyMenu is one Mon–Fri menu cycle, keyed by the Monday it starts on.
type WeeklyMenu struct {
	ID            uuid.UUID `json:"id"`
	WeekStartDate time.Time `json:"weekStartDate"`
}
