package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"furnistore/internal/errs"
	"furnistore/internal/models"
)

// CreateCoupon inserts a new coupon.
func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons
			(code, minimum_price, discount_type, discount_amount, valid_from, valid_to, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, c, query,
		c.Code, c.MinimumPrice, c.DiscountType, c.DiscountAmount,
		c.ValidFrom, c.ValidTo, c.IsActive)
}

// GetCouponByID retrieves a coupon by ID
func (s *Store) GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error) {
	var c models.Coupon
	err := s.db.GetContext(ctx, &c,
		"SELECT * FROM coupons WHERE id = $1 AND is_deleted = FALSE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("coupon not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCouponByCode retrieves a coupon by its unique code.
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.db.GetContext(ctx, &c,
		"SELECT * FROM coupons WHERE code = $1 AND is_deleted = FALSE", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("coupon not found: %s", code)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCoupons retrieves all non-deleted coupons for the admin list.
func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.SelectContext(ctx, &coupons,
		"SELECT * FROM coupons WHERE is_deleted = FALSE ORDER BY created_at DESC")
	return coupons, err
}

// ListValidCoupons returns coupons a subtotal qualifies for right now:
// stored active flag set, minimum price strictly below the subtotal and
// the current time inside the validity window.
func (s *Store) ListValidCoupons(ctx context.Context, subtotal int64, now time.Time) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.SelectContext(ctx, &coupons, `
		SELECT * FROM coupons
		WHERE is_deleted = FALSE
		  AND is_active = TRUE
		  AND minimum_price < $1
		  AND valid_from <= $2
		  AND valid_to >= $2
		ORDER BY discount_amount DESC`,
		subtotal, now)
	return coupons, err
}

// UpdateCoupon overwrites the mutable coupon fields.
func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET minimum_price = $1, discount_type = $2, discount_amount = $3,
		    valid_from = $4, valid_to = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7 AND is_deleted = FALSE`,
		c.MinimumPrice, c.DiscountType, c.DiscountAmount,
		c.ValidFrom, c.ValidTo, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("coupon not found: %d", c.ID)
	}
	return nil
}

// SoftDeleteCoupon marks a coupon deleted.
func (s *Store) SoftDeleteCoupon(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE coupons SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("coupon not found: %d", id)
	}
	return nil
}
