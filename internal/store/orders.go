package store

import (
	"context"
	"database/sql"
	"errors"

	"furnistore/internal/errs"
	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrderTx inserts the order record during webhook finalization.
func (s *Store) CreateOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders
			(user_id, address_id, status, is_discount, coupon_id, discount_amount,
			 payment_method, payment_fee, amount, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, order_date, created_at, updated_at`

	return tx.GetContext(ctx, order, query,
		order.UserID, order.AddressID, order.Status, order.IsDiscount, order.CouponID,
		order.DiscountAmount, order.PaymentMethod, order.PaymentFee, order.Amount,
		order.CustomerEmail)
}

// InsertOrderItemTx inserts one immutable order line.
func (s *Store) InsertOrderItemTx(ctx context.Context, tx *sqlx.Tx, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_color_id, price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return tx.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.ProductColorID, item.Price, item.Quantity, item.Total)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrdersByUserID retrieves orders for a user, newest first.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// ListOrders retrieves all orders for the back office, newest first.
func (s *Store) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	if status != "" {
		err := s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC", status)
		return orders, err
	}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("order not found: %d", orderID)
	}
	return nil
}
