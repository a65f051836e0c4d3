package service

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/broker"
	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/redisclient"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// BatchService handles inventory intake: batches, their serialized
// units, the stock ledger and the cached color aggregate. Every write
// path here runs inside a single database transaction.
type BatchService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewBatchService creates a new batch service
func NewBatchService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *BatchService {
	return &BatchService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// BatchLineRequest is one requested (product, color, quantity) line.
type BatchLineRequest struct {
	ProductID      int64 `json:"product_id" binding:"required"`
	ProductColorID int64 `json:"product_color_id" binding:"required"`
	Quantity       int   `json:"quantity" binding:"required,min=1"`
}

// CreateBatchRequest carries the intake payload.
type CreateBatchRequest struct {
	BatchName string             `json:"batch_name" binding:"required"`
	BatchCode string             `json:"batch_code" binding:"required"`
	Lines     []BatchLineRequest `json:"products" binding:"required,min=1"`
}

// buildSerial derives a unit serial number. The five-digit suffix is
// the unit's 1-based sequence within its batch line.
func buildSerial(batchCode, sku, colorCode string, seq int) string {
	return fmt.Sprintf("%s%s%s%05d", batchCode, sku, colorCode, seq)
}

// lineKey identifies a batch line across revisions.
type lineKey struct {
	ProductID      int64
	ProductColorID int64
}

// lineDelta is one diff entry between stored and revised batch lines.
// Delta is positive for units to mint and negative for units to retire.
type lineDelta struct {
	lineKey
	Delta int
}

// diffBatchLines computes per-line quantity deltas between the stored
// and revised line sets. Lines only in the revised set mint their full
// quantity; lines only in the stored set retire theirs.
func diffBatchLines(old []models.BatchLine, revised []BatchLineRequest) []lineDelta {
	oldQty := make(map[lineKey]int, len(old))
	for _, l := range old {
		oldQty[lineKey{l.ProductID, l.ProductColorID}] = l.Quantity
	}

	var deltas []lineDelta
	seen := make(map[lineKey]bool, len(revised))
	for _, l := range revised {
		k := lineKey{l.ProductID, l.ProductColorID}
		seen[k] = true
		if d := l.Quantity - oldQty[k]; d != 0 {
			deltas = append(deltas, lineDelta{lineKey: k, Delta: d})
		}
	}
	for _, l := range old {
		k := lineKey{l.ProductID, l.ProductColorID}
		if !seen[k] {
			deltas = append(deltas, lineDelta{lineKey: k, Delta: -l.Quantity})
		}
	}
	return deltas
}

// Create performs batch intake: persists the batch, mints one
// serialized in-stock unit per received item, appends an import ledger
// row per line and raises the color aggregates, all in one transaction.
func (bs *BatchService) Create(ctx context.Context, req *CreateBatchRequest) (*models.ProductBatch, error) {
	ctx, span := util.StartSpan(ctx, "BatchService.Create")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BatchIntakeLatency.Observe(time.Since(start).Seconds())
	}()

	totalQty := 0
	batch := &models.ProductBatch{
		BatchName:     req.BatchName,
		BatchCode:     req.BatchCode,
		TotalProducts: len(req.Lines),
	}
	for _, l := range req.Lines {
		totalQty += l.Quantity
		batch.Lines = append(batch.Lines, models.BatchLine{
			ProductID:      l.ProductID,
			ProductColorID: l.ProductColorID,
			Quantity:       l.Quantity,
		})
	}
	batch.TotalQuantity = totalQty

	err := bs.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := bs.store.CreateBatchTx(ctx, tx, batch); err != nil {
			return err
		}

		for _, line := range batch.Lines {
			if err := bs.mintLineTx(ctx, tx, batch, line.ProductID, line.ProductColorID, line.Quantity, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.BatchesReceivedTotal.Inc()
	util.UnitsMintedTotal.Add(float64(totalQty))
	bs.syncColorCaches(ctx, batch.Lines)
	bs.publishStockImported(ctx, batch)

	bs.logger.Info("Batch received",
		zap.String("batch_code", batch.BatchCode),
		zap.Int("total_quantity", batch.TotalQuantity))
	return batch, nil
}

// mintLineTx mints quantity units for one batch line starting after
// seq existing units, writes the import ledger row and raises the
// color aggregate.
func (bs *BatchService) mintLineTx(ctx context.Context, tx *sqlx.Tx, batch *models.ProductBatch, productID, colorID int64, quantity, seq int) error {
	color, err := bs.store.GetColorForUpdateTx(ctx, tx, colorID)
	if err != nil {
		return err
	}
	if color.ProductID != productID {
		return errs.Validation("color %d does not belong to product %d", colorID, productID)
	}

	product, err := bs.store.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	units := make([]models.ProductUnit, quantity)
	for i := 0; i < quantity; i++ {
		units[i] = models.ProductUnit{
			ProductID:      productID,
			ProductColorID: colorID,
			BatchID:        batch.ID,
			SerialNumber:   buildSerial(batch.BatchCode, product.SKU, color.ColorCode, seq+i+1),
			Status:         models.UnitStatusInStock,
		}
	}
	if err := bs.store.InsertUnitsTx(ctx, tx, units); err != nil {
		return err
	}

	entry := &models.StockEntry{
		TransactionType: models.StockTypeImport,
		BatchCode:       batch.BatchCode,
		ProductID:       productID,
		ProductColorID:  colorID,
		StockChange:     quantity,
	}
	if err := bs.store.InsertStockEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return bs.store.AdjustColorQuantityTx(ctx, tx, colorID, quantity)
}

// retireLineTx retires quantity units from one batch line, newest
// first, writes a negative import ledger row and lowers the color
// aggregate. Sold units are never retired; shrinking a line below its
// unsold remainder is a conflict.
func (bs *BatchService) retireLineTx(ctx context.Context, tx *sqlx.Tx, batch *models.ProductBatch, productID, colorID int64, quantity int) error {
	if _, err := bs.store.GetColorForUpdateTx(ctx, tx, colorID); err != nil {
		return err
	}

	units, err := bs.store.SelectNewestInStockByBatchTx(ctx, tx, batch.ID, productID, colorID, quantity)
	if err != nil {
		return err
	}
	if len(units) < quantity {
		return errs.Conflict(
			"batch %s: cannot retire %d units of color %d, only %d unsold",
			batch.BatchCode, quantity, colorID, len(units))
	}

	ids := make([]int64, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	if err := bs.store.DeleteUnitsTx(ctx, tx, ids); err != nil {
		return err
	}

	entry := &models.StockEntry{
		TransactionType: models.StockTypeImport,
		BatchCode:       batch.BatchCode,
		ProductID:       productID,
		ProductColorID:  colorID,
		StockChange:     -quantity,
	}
	if err := bs.store.InsertStockEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return bs.store.AdjustColorQuantityTx(ctx, tx, colorID, -quantity)
}

// Update revises a batch's line items. Each per-line delta mints or
// retires units so the color aggregate and unit records stay in step;
// the ledger records every adjustment.
func (bs *BatchService) Update(ctx context.Context, batchID int64, lines []BatchLineRequest) (*models.ProductBatch, error) {
	ctx, span := util.StartSpan(ctx, "BatchService.Update")
	defer span.End()

	if len(lines) == 0 {
		return nil, errs.Validation("batch must keep at least one line")
	}

	var batch *models.ProductBatch
	err := bs.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		batch, err = bs.store.GetBatchForUpdateTx(ctx, tx, batchID)
		if err != nil {
			return err
		}

		for _, d := range diffBatchLines(batch.Lines, lines) {
			if d.Delta > 0 {
				seq, err := bs.store.CountUnitsByBatchLineTx(ctx, tx, batch.ID, d.ProductID, d.ProductColorID)
				if err != nil {
					return err
				}
				if err := bs.mintLineTx(ctx, tx, batch, d.ProductID, d.ProductColorID, d.Delta, seq); err != nil {
					return err
				}
			} else {
				if err := bs.retireLineTx(ctx, tx, batch, d.ProductID, d.ProductColorID, -d.Delta); err != nil {
					return err
				}
			}
		}

		revised := make([]models.BatchLine, 0, len(lines))
		for _, l := range lines {
			revised = append(revised, models.BatchLine{
				ProductID:      l.ProductID,
				ProductColorID: l.ProductColorID,
				Quantity:       l.Quantity,
			})
		}
		return bs.store.ReplaceBatchLinesTx(ctx, tx, batch.ID, revised)
	})
	if err != nil {
		return nil, err
	}

	bs.syncColorCachesFromRequests(ctx, lines)
	return bs.store.GetBatchByID(ctx, batchID)
}

// Get retrieves a batch with its lines.
func (bs *BatchService) Get(ctx context.Context, id int64) (*models.ProductBatch, error) {
	return bs.store.GetBatchByID(ctx, id)
}

// List retrieves all batches.
func (bs *BatchService) List(ctx context.Context) ([]models.ProductBatch, error) {
	return bs.store.ListBatches(ctx)
}

// ListUnits retrieves the serialized units a batch minted.
func (bs *BatchService) ListUnits(ctx context.Context, batchID int64) ([]models.ProductUnit, error) {
	if _, err := bs.store.GetBatchByID(ctx, batchID); err != nil {
		return nil, err
	}
	return bs.store.ListUnitsByBatch(ctx, batchID)
}

// Delete soft-deletes a batch. Units already minted stay on the books.
func (bs *BatchService) Delete(ctx context.Context, id int64) error {
	return bs.store.SoftDeleteBatch(ctx, id)
}

// syncColorCaches refreshes the Redis aggregate for every touched
// color after commit. Best effort; a miss just means the next read
// falls back to the database.
func (bs *BatchService) syncColorCaches(ctx context.Context, lines []models.BatchLine) {
	for _, l := range lines {
		bs.syncColorCache(ctx, l.ProductColorID)
	}
}

func (bs *BatchService) syncColorCachesFromRequests(ctx context.Context, lines []BatchLineRequest) {
	for _, l := range lines {
		bs.syncColorCache(ctx, l.ProductColorID)
	}
}

func (bs *BatchService) syncColorCache(ctx context.Context, colorID int64) {
	color, err := bs.store.GetProductColorByID(ctx, colorID)
	if err != nil {
		return
	}
	if err := bs.redis.SetColorQuantity(ctx, colorID, color.Quantity); err != nil {
		bs.logger.Warn("Failed to sync color quantity to Redis",
			zap.Int64("color_id", colorID),
			zap.Error(err))
	}
}

func (bs *BatchService) publishStockImported(ctx context.Context, batch *models.ProductBatch) {
	event := &models.StockImportedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockImported,
			Timestamp: time.Now(),
		},
		BatchID:       batch.ID,
		BatchCode:     batch.BatchCode,
		TotalQuantity: batch.TotalQuantity,
	}
	if err := bs.eventPublisher.PublishStockImported(ctx, event); err != nil {
		bs.logger.Error("Failed to publish StockImported event", zap.Error(err))
	}
}
