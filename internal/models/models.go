package models

import "time"

// Product is a catalog entry. Price is in satang.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	SKU         string    `db:"sku" json:"sku"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Price       int64     `db:"price" json:"price"`
	MainImg     string    `db:"main_img" json:"main_img"`
	IsDeleted   bool      `db:"is_deleted" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProductColor is a per-product color variant. Quantity is the cached
// count of its in-stock units; it is mutated only through the guarded
// store functions, never directly.
type ProductColor struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	ColorCode string    `db:"color_code" json:"color_code"`
	MainImg   string    `db:"main_img" json:"main_img"`
	Quantity  int       `db:"quantity" json:"quantity"`
	IsDeleted bool      `db:"is_deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductBatch is a single inventory intake event.
type ProductBatch struct {
	ID            int64     `db:"id" json:"id"`
	BatchName     string    `db:"batch_name" json:"batch_name"`
	BatchCode     string    `db:"batch_code" json:"batch_code"`
	TotalProducts int       `db:"total_products" json:"total_products"`
	TotalQuantity int       `db:"total_quantity" json:"total_quantity"`
	IsDeleted     bool      `db:"is_deleted" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Lines []BatchLine `db:"-" json:"products,omitempty"`
}

// BatchLine is one (product, color, quantity) line of a batch.
type BatchLine struct {
	ID             int64 `db:"id" json:"-"`
	BatchID        int64 `db:"batch_id" json:"-"`
	ProductID      int64 `db:"product_id" json:"product_id"`
	ProductColorID int64 `db:"product_color_id" json:"product_color_id"`
	Quantity       int   `db:"quantity" json:"quantity"`
}

// Product unit statuses. Status transitions are the only mutation a
// unit sees after it is minted.
const (
	UnitStatusInStock   = "in-stock"
	UnitStatusSold      = "sold"
	UnitStatusReturned  = "returned"
	UnitStatusDefective = "defective"
)

// ProductUnit is one serialized physical item.
type ProductUnit struct {
	ID             int64     `db:"id" json:"id"`
	ProductID      int64     `db:"product_id" json:"product_id"`
	ProductColorID int64     `db:"product_color_id" json:"product_color_id"`
	BatchID        int64     `db:"batch_id" json:"batch_id"`
	SerialNumber   string    `db:"serial_number" json:"serial_number"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Stock ledger transaction types.
const (
	StockTypeImport  = "นำเข้า"
	StockTypeSaleOut = "ขายออก"
)

// StockEntry is an append-only inventory ledger row. Rows are never
// updated or deleted.
type StockEntry struct {
	ID              int64     `db:"id" json:"id"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	TransactionDate time.Time `db:"transaction_date" json:"transaction_date"`
	BatchCode       string    `db:"batch_code" json:"batch_code"`
	ProductID       int64     `db:"product_id" json:"product_id"`
	ProductColorID  int64     `db:"product_color_id" json:"product_color_id"`
	ProductUnitID   *int64    `db:"product_unit_id" json:"product_unit_id,omitempty"`
	StockChange     int       `db:"stock_change" json:"stock_change"`
}

// Cart is the per-user staging area, created lazily on first add and
// deleted wholesale on successful checkout.
type Cart struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItem carries the price denormalized at add time.
type CartItem struct {
	ID             int64 `db:"id" json:"id"`
	CartID         int64 `db:"cart_id" json:"cart_id"`
	ProductID      int64 `db:"product_id" json:"product_id"`
	ProductColorID int64 `db:"product_color_id" json:"product_color_id"`
	Price          int64 `db:"price" json:"price"`
	Quantity       int   `db:"quantity" json:"quantity"`
	Total          int64 `db:"total" json:"total"`
}

// Coupon discount types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a time-windowed discount rule.
type Coupon struct {
	ID             int64     `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	MinimumPrice   int64     `db:"minimum_price" json:"minimum_price"`
	DiscountType   string    `db:"discount_type" json:"discount_type"`
	DiscountAmount int64     `db:"discount_amount" json:"discount_amount"`
	ValidFrom      time.Time `db:"valid_from" json:"valid_from"`
	ValidTo        time.Time `db:"valid_to" json:"valid_to"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsDeleted      bool      `db:"is_deleted" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Order statuses progress informally:
// รอจัดส่ง -> อยู่ระหว่างจัดส่ง -> จัดส่งแล้ว, or -> ยกเลิก.
const (
	OrderStatusAwaitingShipment = "รอจัดส่ง"
	OrderStatusInTransit        = "อยู่ระหว่างจัดส่ง"
	OrderStatusDelivered        = "จัดส่งแล้ว"
	OrderStatusCancelled        = "ยกเลิก"
)

// Order is the finalized purchase record, created only by the payment
// webhook. Only the status field mutates afterwards.
type Order struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	AddressID      int64     `db:"address_id" json:"address_id"`
	Status         string    `db:"status" json:"status"`
	IsDiscount     bool      `db:"is_discount" json:"is_discount"`
	CouponID       *int64    `db:"coupon_id" json:"coupon_id,omitempty"`
	DiscountAmount int64     `db:"discount_amount" json:"discount_amount"`
	PaymentMethod  string    `db:"payment_method" json:"payment_method"`
	PaymentFee     int64     `db:"payment_fee" json:"payment_fee"`
	Amount         int64     `db:"amount" json:"amount"`
	CustomerEmail  string    `db:"customer_email" json:"customer_email,omitempty"`
	OrderDate      time.Time `db:"order_date" json:"order_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is immutable once created.
type OrderItem struct {
	ID             int64 `db:"id" json:"id"`
	OrderID        int64 `db:"order_id" json:"order_id"`
	ProductID      int64 `db:"product_id" json:"product_id"`
	ProductColorID int64 `db:"product_color_id" json:"product_color_id"`
	Price          int64 `db:"price" json:"price"`
	Quantity       int   `db:"quantity" json:"quantity"`
	Total          int64 `db:"total" json:"total"`
}

// Review is a customer product review, one per user/product/order.
type Review struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Rating    int       `db:"rating" json:"rating"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WishlistItem marks a product a user wants to revisit.
type WishlistItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent records a handled webhook delivery for idempotency.
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
