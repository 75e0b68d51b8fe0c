package postgres

import (
	"context"
	"encoding/json"
	"time"

	"healthboard/internal/domain"
)

// EventRepository

// Insert appends one activity event. Events are append-only; there is no
// update or delete path.
func (db *DB) Insert(ctx context.Context, customerID int64, eventType string, payload any, at time.Time) (domain.ActivityEvent, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.ActivityEvent{}, err
	}

	ev := domain.ActivityEvent{
		CustomerID: customerID,
		Type:       eventType,
		Payload:    payload,
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO customer_events (customer_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
		RETURNING id, created_at
	`, customerID, eventType, string(data), at).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return domain.ActivityEvent{}, dataErr(err)
	}
	return ev, nil
}
