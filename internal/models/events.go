package models

import "time"

// Event types published to the order-events topic.
const (
	EventTypeOrderFinalized     = "ORDER_FINALIZED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeStockImported      = "STOCK_IMPORTED"
)

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData represents item data carried in events.
type OrderItemData struct {
	ProductID      int64 `json:"product_id"`
	ProductColorID int64 `json:"product_color_id"`
	Quantity       int   `json:"quantity"`
	UnitPrice      int64 `json:"unit_price"`
}

// OrderFinalizedEvent is published after the payment webhook turns a
// cart into an order. The notification worker mails the purchaser and
// the internal orders inbox from it.
type OrderFinalizedEvent struct {
	BaseEvent
	OrderID        int64           `json:"order_id"`
	UserID         int64           `json:"user_id"`
	Amount         int64           `json:"amount"`
	DiscountAmount int64           `json:"discount_amount"`
	CustomerEmail  string          `json:"customer_email"`
	SessionID      string          `json:"session_id"`
	Items          []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent is published on admin status updates.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	UserID        int64  `json:"user_id"`
	CustomerEmail string `json:"customer_email"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// StockImportedEvent is published after a batch intake commits.
type StockImportedEvent struct {
	BaseEvent
	BatchID       int64  `json:"batch_id"`
	BatchCode     string `json:"batch_code"`
	TotalQuantity int    `json:"total_quantity"`
}
