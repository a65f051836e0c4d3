package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// IsEventProcessed checks if a webhook event has been processed.
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessedTx claims a webhook event id inside the
// finalization transaction. It reports false when another delivery of
// the same event already claimed it, which makes the whole finalization
// idempotent: the duplicate transaction writes nothing and rolls back.
func (s *Store) MarkEventProcessedTx(ctx context.Context, tx *sqlx.Tx, eventID, eventType string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO processed_events (event_id, event_type)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
