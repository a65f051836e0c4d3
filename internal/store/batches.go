package store

import (
	"context"
	"database/sql"
	"errors"

	"furnistore/internal/errs"
	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateBatchTx inserts a batch header and its line items.
func (s *Store) CreateBatchTx(ctx context.Context, tx *sqlx.Tx, b *models.ProductBatch) error {
	query := `
		INSERT INTO product_batches (batch_name, batch_code, total_products, total_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	if err := tx.GetContext(ctx, b, query,
		b.BatchName, b.BatchCode, b.TotalProducts, b.TotalQuantity); err != nil {
		return err
	}

	for i := range b.Lines {
		b.Lines[i].BatchID = b.ID
		if err := s.insertBatchLineTx(ctx, tx, &b.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertBatchLineTx(ctx context.Context, tx *sqlx.Tx, line *models.BatchLine) error {
	query := `
		INSERT INTO product_batch_lines (batch_id, product_id, product_color_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.GetContext(ctx, &line.ID, query,
		line.BatchID, line.ProductID, line.ProductColorID, line.Quantity)
}

// GetBatchByID retrieves a batch with its lines.
func (s *Store) GetBatchByID(ctx context.Context, id int64) (*models.ProductBatch, error) {
	var b models.ProductBatch
	err := s.db.GetContext(ctx, &b,
		"SELECT * FROM product_batches WHERE id = $1 AND is_deleted = FALSE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("batch not found: %d", id)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &b.Lines,
		"SELECT * FROM product_batch_lines WHERE batch_id = $1 ORDER BY id", id); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBatchForUpdateTx locks the batch header and loads its lines.
func (s *Store) GetBatchForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.ProductBatch, error) {
	var b models.ProductBatch
	err := tx.GetContext(ctx, &b,
		"SELECT * FROM product_batches WHERE id = $1 AND is_deleted = FALSE FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("batch not found: %d", id)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.SelectContext(ctx, &b.Lines,
		"SELECT * FROM product_batch_lines WHERE batch_id = $1 ORDER BY id", id); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBatches retrieves all non-deleted batches, newest first, without
// their lines.
func (s *Store) ListBatches(ctx context.Context) ([]models.ProductBatch, error) {
	var batches []models.ProductBatch
	err := s.db.SelectContext(ctx, &batches,
		"SELECT * FROM product_batches WHERE is_deleted = FALSE ORDER BY created_at DESC")
	return batches, err
}

// ReplaceBatchLinesTx overwrites the stored lines with the revised set
// and refreshes the header totals.
func (s *Store) ReplaceBatchLinesTx(ctx context.Context, tx *sqlx.Tx, batchID int64, lines []models.BatchLine) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM product_batch_lines WHERE batch_id = $1", batchID); err != nil {
		return err
	}

	totalQty := 0
	for i := range lines {
		lines[i].BatchID = batchID
		if err := s.insertBatchLineTx(ctx, tx, &lines[i]); err != nil {
			return err
		}
		totalQty += lines[i].Quantity
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE product_batches
		SET total_products = $1, total_quantity = $2, updated_at = NOW()
		WHERE id = $3`,
		len(lines), totalQty, batchID)
	return err
}

// SoftDeleteBatch marks a batch deleted.
func (s *Store) SoftDeleteBatch(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE product_batches SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("batch not found: %d", id)
	}
	return nil
}
