package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"furnistore/internal/broker"
	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/payment"
	"furnistore/internal/redisclient"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrEventAlreadyProcessed means this webhook delivery was handled
// before. Callers acknowledge it to the provider instead of retrying.
var ErrEventAlreadyProcessed = errors.New("event already processed")

const seenTTL = 24 * time.Hour

// Finalizer turns a confirmed payment webhook into an order. All
// writes happen in one transaction gated by the event id, so a
// redelivered event changes nothing and a failed step changes nothing.
type Finalizer struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewFinalizer creates a new order finalizer
func NewFinalizer(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *Finalizer {
	return &Finalizer{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// sessionOrder is the order skeleton reconstructed from session
// metadata. The session metadata is the only pre-payment state we have.
type sessionOrder struct {
	CartID         int64
	UserID         int64
	AddressID      int64
	CouponID       *int64
	DiscountAmount int64
	PaymentMethod  string
	PaymentFee     int64
	CustomerEmail  string
}

// parseSessionMetadata reconstructs the order skeleton from session
// metadata written at checkout time.
func parseSessionMetadata(md map[string]string) (*sessionOrder, error) {
	so := &sessionOrder{CustomerEmail: md["customer_email"], PaymentMethod: md["payment_method"]}

	var err error
	if so.CartID, err = strconv.ParseInt(md["cart_id"], 10, 64); err != nil {
		return nil, errs.Validation("session metadata missing cart_id")
	}
	if so.UserID, err = strconv.ParseInt(md["user_id"], 10, 64); err != nil {
		return nil, errs.Validation("session metadata missing user_id")
	}
	if so.AddressID, err = strconv.ParseInt(md["address_id"], 10, 64); err != nil {
		return nil, errs.Validation("session metadata missing address_id")
	}
	if v, ok := md["discount_amount"]; ok {
		if so.DiscountAmount, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, errs.Validation("session metadata has bad discount_amount: %s", v)
		}
	}
	if v, ok := md["payment_fee"]; ok {
		if so.PaymentFee, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, errs.Validation("session metadata has bad payment_fee: %s", v)
		}
	}
	if v, ok := md["coupon_id"]; ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errs.Validation("session metadata has bad coupon_id: %s", v)
		}
		so.CouponID = &id
	}
	return so, nil
}

// FinalizeCheckout builds the order for a completed checkout session:
// order row, immutable lines, FIFO unit sale, sale ledger rows, color
// aggregate decrements and cart teardown, all or nothing.
func (f *Finalizer) FinalizeCheckout(ctx context.Context, eventID string, session *payment.CheckoutSession) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Finalizer.FinalizeCheckout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderFinalizeLatency.Observe(time.Since(start).Seconds())
	}()

	// Cheap duplicate pre-filter. The database claim inside the
	// transaction is the authoritative gate; a Redis miss only costs a
	// rolled-back transaction.
	if fresh, err := f.redis.MarkEventSeen(ctx, eventID, seenTTL); err == nil && !fresh {
		already, err := f.store.IsEventProcessed(ctx, eventID)
		if err == nil && already {
			return nil, ErrEventAlreadyProcessed
		}
	}

	so, err := parseSessionMetadata(session.Metadata)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("bad_metadata").Inc()
		return nil, err
	}

	var order *models.Order
	var soldByColor map[int64]int
	var eventItems []models.OrderItemData

	err = f.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		claimed, err := f.store.MarkEventProcessedTx(ctx, tx, eventID, payment.EventTypeCheckoutCompleted)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrEventAlreadyProcessed
		}

		items, err := f.store.GetCartItemsTx(ctx, tx, so.CartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errs.NotFound("cart %d not found or empty", so.CartID)
		}

		var subtotal int64
		for _, it := range items {
			subtotal += it.Total
		}

		order = &models.Order{
			UserID:         so.UserID,
			AddressID:      so.AddressID,
			Status:         models.OrderStatusAwaitingShipment,
			IsDiscount:     so.DiscountAmount > 0,
			CouponID:       so.CouponID,
			DiscountAmount: so.DiscountAmount,
			PaymentMethod:  so.PaymentMethod,
			PaymentFee:     so.PaymentFee,
			Amount:         subtotal - so.DiscountAmount + so.PaymentFee,
			CustomerEmail:  so.CustomerEmail,
		}
		if err := f.store.CreateOrderTx(ctx, tx, order); err != nil {
			return err
		}

		soldByColor = make(map[int64]int, len(items))
		eventItems = make([]models.OrderItemData, 0, len(items))
		for _, it := range items {
			orderItem := &models.OrderItem{
				OrderID:        order.ID,
				ProductID:      it.ProductID,
				ProductColorID: it.ProductColorID,
				Price:          it.Price,
				Quantity:       it.Quantity,
				Total:          it.Total,
			}
			if err := f.store.InsertOrderItemTx(ctx, tx, orderItem); err != nil {
				return err
			}

			if err := f.sellUnitsTx(ctx, tx, it); err != nil {
				return err
			}

			soldByColor[it.ProductColorID] += it.Quantity
			eventItems = append(eventItems, models.OrderItemData{
				ProductID:      it.ProductID,
				ProductColorID: it.ProductColorID,
				Quantity:       it.Quantity,
				UnitPrice:      it.Price,
			})
		}

		return f.store.DeleteCartTx(ctx, tx, so.CartID)
	})
	if err != nil {
		if errors.Is(err, ErrEventAlreadyProcessed) {
			util.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	// Post-commit: keep the cache in step and announce the order. Both
	// are recoverable if they fail; the database already holds the truth.
	for colorID, qty := range soldByColor {
		if _, err := f.redis.AdjustColorQuantity(ctx, colorID, -qty); err != nil {
			f.logger.Warn("Failed to adjust cached color quantity",
				zap.Int64("color_id", colorID), zap.Error(err))
		}
		util.UnitsSoldTotal.Add(float64(qty))
	}

	f.publishOrderFinalized(ctx, order, eventItems, session.ID)
	util.OrdersFinalizedTotal.Inc()

	f.logger.Info("Order finalized",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int64("amount", order.Amount),
		zap.String("session_id", session.ID))

	return order, nil
}

// sellUnitsTx sells one cart line: locks the oldest in-stock units,
// marks them sold, writes one sale ledger row per unit and lowers the
// color aggregate. A shortfall aborts the whole finalization.
func (f *Finalizer) sellUnitsTx(ctx context.Context, tx *sqlx.Tx, it models.CartItem) error {
	if _, err := f.store.GetColorForUpdateTx(ctx, tx, it.ProductColorID); err != nil {
		return err
	}

	units, err := f.store.SelectOldestInStockTx(ctx, tx, it.ProductID, it.ProductColorID, it.Quantity)
	if err != nil {
		return err
	}
	if len(units) < it.Quantity {
		return errs.Conflict("only %d units of color %d in stock, need %d",
			len(units), it.ProductColorID, it.Quantity)
	}

	ids := make([]int64, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	if err := f.store.MarkUnitsStatusTx(ctx, tx, ids, models.UnitStatusSold); err != nil {
		return err
	}

	for i := range units {
		unitID := units[i].ID
		entry := &models.StockEntry{
			TransactionType: models.StockTypeSaleOut,
			ProductID:       it.ProductID,
			ProductColorID:  it.ProductColorID,
			ProductUnitID:   &unitID,
			StockChange:     -1,
		}
		if err := f.store.InsertStockEntryTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	return f.store.AdjustColorQuantityTx(ctx, tx, it.ProductColorID, -it.Quantity)
}

func (f *Finalizer) publishOrderFinalized(ctx context.Context, order *models.Order, items []models.OrderItemData, sessionID string) {
	event := &models.OrderFinalizedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderFinalized,
			Timestamp: time.Now(),
		},
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         order.Amount,
		DiscountAmount: order.DiscountAmount,
		CustomerEmail:  order.CustomerEmail,
		SessionID:      sessionID,
		Items:          items,
	}
	if err := f.eventPublisher.PublishOrderFinalized(ctx, event); err != nil {
		f.logger.Error("Failed to publish OrderFinalized event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch errs.KindOf(err) {
	case errs.KindConflict:
		return "insufficient_stock"
	case errs.KindNotFound:
		return "cart_missing"
	case errs.KindValidation:
		return "bad_metadata"
	default:
		return "internal"
	}
}
