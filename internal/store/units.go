package store

import (
	"context"

	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// InsertUnitsTx mints a set of serialized units.
func (s *Store) InsertUnitsTx(ctx context.Context, tx *sqlx.Tx, units []models.ProductUnit) error {
	query := `
		INSERT INTO product_units (product_id, product_color_id, batch_id, serial_number, status)
		VALUES ($1, $2, $3, $4, $5)`

	for i := range units {
		if _, err := tx.ExecContext(ctx, query,
			units[i].ProductID, units[i].ProductColorID, units[i].BatchID,
			units[i].SerialNumber, units[i].Status); err != nil {
			return err
		}
	}
	return nil
}

// SelectOldestInStockTx locks up to limit in-stock units for a
// product/color, oldest first (FIFO depletion).
func (s *Store) SelectOldestInStockTx(ctx context.Context, tx *sqlx.Tx, productID, colorID int64, limit int) ([]models.ProductUnit, error) {
	var units []models.ProductUnit
	err := tx.SelectContext(ctx, &units, `
		SELECT * FROM product_units
		WHERE product_id = $1 AND product_color_id = $2 AND status = $3
		ORDER BY created_at, id
		LIMIT $4
		FOR UPDATE`,
		productID, colorID, models.UnitStatusInStock, limit)
	return units, err
}

// SelectNewestInStockByBatchTx locks up to limit in-stock units minted
// by a specific batch line, newest first. Batch-update shrinkage
// retires from this end so the FIFO order of older units is preserved.
func (s *Store) SelectNewestInStockByBatchTx(ctx context.Context, tx *sqlx.Tx, batchID, productID, colorID int64, limit int) ([]models.ProductUnit, error) {
	var units []models.ProductUnit
	err := tx.SelectContext(ctx, &units, `
		SELECT * FROM product_units
		WHERE batch_id = $1 AND product_id = $2 AND product_color_id = $3 AND status = $4
		ORDER BY created_at DESC, id DESC
		LIMIT $5
		FOR UPDATE`,
		batchID, productID, colorID, models.UnitStatusInStock, limit)
	return units, err
}

// MarkUnitsStatusTx flips unit statuses and refreshes their timestamp.
func (s *Store) MarkUnitsStatusTx(ctx context.Context, tx *sqlx.Tx, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE product_units SET status = $1, updated_at = NOW() WHERE id = ANY($2)",
		status, pq.Array(ids))
	return err
}

// DeleteUnitsTx removes units retired by a batch-line shrink. Only
// never-sold units reach this path.
func (s *Store) DeleteUnitsTx(ctx context.Context, tx *sqlx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		"DELETE FROM product_units WHERE id = ANY($1)", pq.Array(ids))
	return err
}

// CountUnitsByBatchLineTx counts units ever minted by a batch line that
// still exist. Retirement always removes the highest sequence numbers,
// so count+1 is the next free serial index.
func (s *Store) CountUnitsByBatchLineTx(ctx context.Context, tx *sqlx.Tx, batchID, productID, colorID int64) (int, error) {
	var n int
	err := tx.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM product_units
		WHERE batch_id = $1 AND product_id = $2 AND product_color_id = $3`,
		batchID, productID, colorID)
	return n, err
}

// ListUnitsByBatch retrieves all units minted by a batch.
func (s *Store) ListUnitsByBatch(ctx context.Context, batchID int64) ([]models.ProductUnit, error) {
	var units []models.ProductUnit
	err := s.db.SelectContext(ctx, &units,
		"SELECT * FROM product_units WHERE batch_id = $1 ORDER BY id", batchID)
	return units, err
}
