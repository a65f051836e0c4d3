package store

import (
	"context"

	"furnistore/internal/errs"
	"furnistore/internal/models"

	"github.com/lib/pq"
)

// InsertReview creates a review; the unique constraint enforces one
// review per user/product/order.
func (s *Store) InsertReview(ctx context.Context, r *models.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, order_id, rating, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		r.ProductID, r.UserID, r.OrderID, r.Rating, r.Content).
		Scan(&r.ID, &r.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return errs.Conflict("review already exists for this order")
	}
	return err
}

// ListReviewsByProduct retrieves reviews for a product, newest first.
func (s *Store) ListReviewsByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE product_id = $1 ORDER BY created_at DESC", productID)
	return reviews, err
}

// AvgRatingByProduct returns the average rating, zero when unreviewed.
func (s *Store) AvgRatingByProduct(ctx context.Context, productID int64) (float64, error) {
	var avg float64
	err := s.db.GetContext(ctx, &avg,
		"SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1", productID)
	return avg, err
}

// AddWishlistItem is idempotent per (user, product).
func (s *Store) AddWishlistItem(ctx context.Context, userID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	return err
}

// RemoveWishlistItem deletes one wishlist entry.
func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2",
		userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("wishlist item not found")
	}
	return nil
}

// ListWishlist retrieves a user's wishlist, newest first.
func (s *Store) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM wishlist_items WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return items, err
}
