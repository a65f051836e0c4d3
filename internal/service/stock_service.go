package service

import (
	"context"

	"furnistore/internal/models"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// StockService serves the read-only inventory ledger report.
type StockService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(store *store.Store) *StockService {
	return &StockService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// List returns ledger rows matching the filter, newest first.
func (ss *StockService) List(ctx context.Context, f store.StockFilter) ([]models.StockEntry, error) {
	return ss.store.ListStockEntries(ctx, f)
}

// ColorConsistency compares the cached color aggregate against the
// authoritative unit count, for the admin consistency check.
type ColorConsistency struct {
	ProductColorID int64 `json:"product_color_id"`
	CachedQuantity int   `json:"cached_quantity"`
	UnitCount      int   `json:"unit_count"`
	Consistent     bool  `json:"consistent"`
}

// CheckColor audits one color's aggregate against its units.
func (ss *StockService) CheckColor(ctx context.Context, colorID int64) (*ColorConsistency, error) {
	color, err := ss.store.GetProductColorByID(ctx, colorID)
	if err != nil {
		return nil, err
	}
	n, err := ss.store.CountInStockUnits(ctx, color.ProductID, colorID)
	if err != nil {
		return nil, err
	}
	if n != color.Quantity {
		ss.logger.Warn("Color aggregate drifted from unit count",
			zap.Int64("color_id", colorID),
			zap.Int("cached", color.Quantity),
			zap.Int("units", n))
	}
	return &ColorConsistency{
		ProductColorID: colorID,
		CachedQuantity: color.Quantity,
		UnitCount:      n,
		Consistent:     n == color.Quantity,
	}, nil
}
