package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateDriver adds an active driver. chatID may be 0 until the driver first messages the bot.
func CreateDriver(ctx context.Context, fullName, phone string, chatID int64) (*models.Driver, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, validationf("driver name is required")
	}
	d := &models.Driver{ID: uuid.New(), FullName: fullName, Phone: strings.TrimSpace(phone), ChatID: chatID, IsActive: true}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO drivers (id, full_name, phone, chat_id, is_active)
		VALUES ($1, $2, $3, $4, true)`,
		d.ID, d.FullName, d.Phone, d.ChatID,
	)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	return d, nil
}

// GetDriverByID loads a driver by driver ID.
func GetDriverByID(ctx context.Context, driverID uuid.UUID) (*models.Driver, error) {
	var d models.Driver
	err := db.Pool.QueryRow(ctx, `
		SELECT id, full_name, phone, chat_id, is_active
		FROM drivers WHERE id = $1`,
		driverID,
	).Scan(&d.ID, &d.FullName, &d.Phone, &d.ChatID, &d.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "driver", ID: driverID.String()}
		}
		return nil, err
	}
	return &d, nil
}

// ListDrivers returns drivers ordered by name; activeOnly hides deactivated ones.
func ListDrivers(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, full_name, phone, chat_id, is_active
		FROM drivers
		WHERE NOT $1 OR is_active
		ORDER BY lower(full_name), id`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.FullName, &d.Phone, &d.ChatID, &d.IsActive); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDriverChatID sets the Telegram chat used for route and pay messages.
func UpdateDriverChatID(ctx context.Context, driverID uuid.UUID, chatID int64) error {
	res, err := db.Pool.Exec(ctx, `UPDATE drivers SET chat_id = $1, updated_at = now() WHERE id = $2`, chatID, driverID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return &NotFoundError{Entity: "driver", ID: driverID.String()}
	}
	return nil
}

func SetDriverActive(ctx context.Context, driverID uuid.UUID, active bool) error {
	res, err := db.Pool.Exec(ctx, `UPDATE drivers SET is_active = $1, updated_at = now() WHERE id = $2`, active, driverID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return &NotFoundError{Entity: "driver", ID: driverID.String()}
	}
	return nil
}
