package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetDraft returns the customer's saved order draft, or an empty one if none exists.
func GetDraft(ctx context.Context, customerID uuid.UUID) (*models.OrderRequest, error) {
	var payload []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT payload FROM order_drafts WHERE customer_id = $1`,
		customerID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.OrderRequest{OrderDays: []models.OrderDaySpec{}}, nil
		}
		return nil, err
	}

	var draft models.OrderRequest
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func SaveDraft(ctx context.Context, customerID uuid.UUID, draft *models.OrderRequest) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO order_drafts (customer_id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (customer_id) DO UPDATE SET
			payload = $2,
			updated_at = now()`,
		customerID, payload,
	)
	return err
}

func DeleteDraft(ctx context.Context, customerID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM order_drafts WHERE customer_id = $1`, customerID)
	return err
}
