package store

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
)

// StockFilter narrows the ledger report.
type StockFilter struct {
	ProductID       int64
	TransactionType string
	From            time.Time
	To              time.Time
}

// InsertStockEntryTx appends one ledger row. The ledger is append-only;
// nothing in this package updates or deletes stock_entries.
func (s *Store) InsertStockEntryTx(ctx context.Context, tx *sqlx.Tx, e *models.StockEntry) error {
	query := `
		INSERT INTO stock_entries
			(transaction_type, batch_code, product_id, product_color_id, product_unit_id, stock_change)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, transaction_date`

	return tx.QueryRowxContext(ctx, query,
		e.TransactionType, e.BatchCode, e.ProductID, e.ProductColorID, e.ProductUnitID, e.StockChange).
		Scan(&e.ID, &e.TransactionDate)
}

// ListStockEntries retrieves ledger rows matching the filter, newest
// first.
func (s *Store) ListStockEntries(ctx context.Context, f StockFilter) ([]models.StockEntry, error) {
	query := "SELECT * FROM stock_entries WHERE 1=1"
	args := []interface{}{}

	if f.ProductID > 0 {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.TransactionType != "" {
		args = append(args, f.TransactionType)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	var entries []models.StockEntry
	err := s.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}
