package service

import (
	"context"
	"time"

	"furnistore/internal/broker"
	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService serves finalized orders. Creation is not here: orders
// come into existence only through the webhook finalizer.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderView is an order with its immutable lines.
type OrderView struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// validStatus reports whether s is one of the known order statuses.
// The progression itself is informal; the back office moves orders
// freely between known statuses.
func validStatus(s string) bool {
	switch s {
	case models.OrderStatusAwaitingShipment, models.OrderStatusInTransit,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

// Get returns one order with items. Non-admins only see their own.
func (os *OrderService) Get(ctx context.Context, orderID, userID int64, isAdmin bool) (*OrderView, error) {
	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, errs.NotFound("order not found: %d", orderID)
	}

	items, err := os.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: *order, Items: items}, nil
}

// ListByUser returns the user's orders, newest first.
func (os *OrderService) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return os.store.GetOrdersByUserID(ctx, userID)
}

// AdminList returns all orders, optionally filtered by status.
func (os *OrderService) AdminList(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !validStatus(status) {
		return nil, errs.Validation("unknown order status: %s", status)
	}
	return os.store.ListOrders(ctx, status)
}

// UpdateStatus moves an order along the fulfillment flow and announces
// the change so the notification worker can mail the customer.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !validStatus(newStatus) {
		return nil, errs.Validation("unknown order status: %s", newStatus)
	}

	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := os.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:       orderID,
		UserID:        order.UserID,
		CustomerEmail: order.CustomerEmail,
		OldStatus:     order.Status,
		NewStatus:     newStatus,
	}
	if err := os.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderStatusChanged event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	os.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("old_status", order.Status),
		zap.String("new_status", newStatus))

	order.Status = newStatus
	return order, nil
}
