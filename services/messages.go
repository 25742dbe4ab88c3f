package services

import (
	"context"
	"encoding/json"
	"fmt"

	"meal-orders/db"
)

// SaveOutboundMessage persists a message sent to a driver chat.
func SaveOutboundMessage(ctx context.Context, chatID int64, content string, meta map[string]string) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO outbound_messages (chat_id, content, meta)
		VALUES ($1, $2, $3::jsonb)`,
		chatID, content, metaJSON,
	)
	return err
}

// SentWithin30s returns true if the same kind and key already went to chatID in the last 30 seconds (de-dup).
func SentWithin30s(ctx context.Context, chatID int64, kind, key string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM outbound_messages
		WHERE chat_id = $1 AND meta->>'kind' = $2 AND meta->>'key' = $3
		  AND created_at > now() - interval '30 seconds'`,
		chatID, kind, key,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
