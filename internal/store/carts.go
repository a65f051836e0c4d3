package store

import (
	"context"
	"database/sql"
	"errors"

	"furnistore/internal/errs"
	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetCartByUserID retrieves the user's cart, or nil if none exists yet.
func (s *Store) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCart creates an empty cart for a user.
func (s *Store) CreateCart(ctx context.Context, cart *models.Cart) error {
	query := `
		INSERT INTO carts (user_id, amount)
		VALUES ($1, 0)
		RETURNING id, amount, created_at, updated_at`

	return s.db.GetContext(ctx, cart, query, cart.UserID)
}

// GetCartItems retrieves all items of a cart.
func (s *Store) GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY id", cartID)
	return items, err
}

// GetCartItemsTx retrieves cart items inside a transaction.
func (s *Store) GetCartItemsTx(ctx context.Context, tx *sqlx.Tx, cartID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY id", cartID)
	return items, err
}

// GetCartItem retrieves a single line by its natural key, or nil.
func (s *Store) GetCartItem(ctx context.Context, cartID, productID, colorID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, `
		SELECT * FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND product_color_id = $3`,
		cartID, productID, colorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertCartItem adds a new line to a cart.
func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, product_color_id, price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.CartID, item.ProductID, item.ProductColorID, item.Price, item.Quantity, item.Total)
}

// UpdateCartItemQuantity sets a line's quantity and total.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int, total int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, total = $2 WHERE id = $3",
		quantity, total, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("cart item not found: %d", itemID)
	}
	return nil
}

// DeleteCartItem removes one line.
func (s *Store) DeleteCartItem(ctx context.Context, itemID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("cart item not found: %d", itemID)
	}
	return nil
}

// UpdateCartAmount refreshes the denormalized cart total.
func (s *Store) UpdateCartAmount(ctx context.Context, cartID, amount int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE carts SET amount = $1, updated_at = NOW() WHERE id = $2", amount, cartID)
	return err
}

// DeleteCartTx removes a cart and all its items wholesale, as the final
// step of order finalization.
func (s *Store) DeleteCartTx(ctx context.Context, tx *sqlx.Tx, cartID int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", cartID)
	return err
}
