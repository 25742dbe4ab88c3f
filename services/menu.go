package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-orders/db"
	"meal-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func ListMenuItems(ctx context.Context, itemType string) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, type, is_dessert, is_active FROM menu_items
		WHERE ($1 = '' OR type = $1)
		ORDER BY type, name`,
		itemType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.IsDessert, &m.IsActive); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func AddMenuItem(ctx context.Context, name, itemType string, isDessert bool) (*models.MenuItem, error) {
	name = strings.TrimSpace(name)
	if itemType != models.ItemTypeEntree && itemType != models.ItemTypeSide {
		return nil, validationf("invalid item type: %s", itemType)
	}
	if name == "" {
		return nil, validationf("name is required")
	}
	m := &models.MenuItem{ID: uuid.New(), Name: name, Type: itemType, IsDessert: isDessert, IsActive: true}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, type, is_dessert) VALUES ($1, $2, $3, $4)`,
		m.ID, m.Name, m.Type, m.IsDessert,
	)
	if err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	return m, nil
}

// GetMenuItemsByIDs returns the items found, keyed by id. Missing ids are simply absent.
func GetMenuItemsByIDs(ctx context.Context, q pgxQuerier, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	out := make(map[uuid.UUID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT id, name, type, is_dessert, is_active FROM menu_items WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.IsDessert, &m.IsActive); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

// CreateWeeklyMenu registers a menu cycle. weekStart must be a Monday.
func CreateWeeklyMenu(ctx context.Context, weekStart time.Time) (*models.WeeklyMenu, error) {
	if weekStart.Weekday() != time.Monday {
		return nil, validationf("week start %s is not a Monday", models.FormatWeekStart(weekStart))
	}
	w := &models.WeeklyMenu{ID: uuid.New(), WeekStartDate: weekStart}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO weekly_menus (id, week_start_date) VALUES ($1, $2)
		ON CONFLICT (week_start_date) DO UPDATE SET week_start_date = EXCLUDED.week_start_date
		RETURNING id`,
		w.ID, weekStart,
	).Scan(&w.ID)
	if err != nil {
		return nil, fmt.Errorf("insert weekly menu: %w", err)
	}
	return w, nil
}

func GetWeeklyMenu(ctx context.Context, id uuid.UUID) (*models.WeeklyMenu, error) {
	var w models.WeeklyMenu
	err := db.Pool.QueryRow(ctx, `SELECT id, week_start_date FROM weekly_menus WHERE id = $1`, id).Scan(&w.ID, &w.WeekStartDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "weekly menu", ID: id.String()}
		}
		return nil, err
	}
	return &w, nil
}

func GetWeeklyMenuByWeekStart(ctx context.Context, weekStart time.Time) (*models.WeeklyMenu, error) {
	var w models.WeeklyMenu
	err := db.Pool.QueryRow(ctx, `
		SELECT id, week_start_date FROM weekly_menus WHERE week_start_date = $1`,
		weekStart,
	).Scan(&w.ID, &w.WeekStartDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "weekly menu", ID: models.FormatWeekStart(weekStart)}
		}
		return nil, err
	}
	return &w, nil
}
