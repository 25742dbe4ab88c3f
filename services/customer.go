package services

import (
	"context"
	"fmt"
	"strings"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
)

func CreateCustomer(ctx context.Context, fullName, email, phone string) (uuid.UUID, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return uuid.Nil, validationf("customer name is required")
	}
	id := uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO customers (id, full_name, email, phone)
		VALUES ($1, $2, NULLIF(TRIM($3), ''), NULLIF(TRIM($4), ''))`,
		id, fullName, email, phone,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

// AddAddress stores a delivery address for a customer.
func AddAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	a.Street = strings.TrimSpace(a.Street)
	if a.Street == "" {
		return nil, validationf("street is required")
	}
	a.ID = uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO addresses (id, customer_id, street, city, zip, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.CustomerID, a.Street, strings.TrimSpace(a.City), strings.TrimSpace(a.Zip), a.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert address: %w", err)
	}
	return &a, nil
}

// ListAddresses returns the customer's addresses, oldest first.
func ListAddresses(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, customer_id, street, city, zip, notes
		FROM addresses
		WHERE customer_id = $1
		ORDER BY created_at, id`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.City, &a.Zip, &a.Notes); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
