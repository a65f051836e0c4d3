package service

import (
	"context"
	"time"

	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponService handles coupon rules and discount math.
type CouponService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(store *store.Store) *CouponService {
	return &CouponService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CouponRequest carries the admin create/update payload.
type CouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	MinimumPrice   int64     `json:"minimum_price"`
	DiscountType   string    `json:"discount_type" binding:"required"`
	DiscountAmount int64     `json:"discount_amount" binding:"required,min=1"`
	ValidFrom      time.Time `json:"valid_from" binding:"required"`
	ValidTo        time.Time `json:"valid_to" binding:"required"`
	IsActive       bool      `json:"is_active"`
}

// AdminCoupon pairs a coupon with its date-derived effective flag. The
// stored flag and the window-derived one are two different notions of
// "active" in the admin UI; both are reported rather than unified.
type AdminCoupon struct {
	models.Coupon
	EffectiveActive bool `json:"effective_active"`
}

func (cs *CouponService) validateRequest(req *CouponRequest) error {
	if req.DiscountType != models.DiscountTypePercentage && req.DiscountType != models.DiscountTypeFixed {
		return errs.Validation("unknown discount type: %s", req.DiscountType)
	}
	if req.DiscountType == models.DiscountTypePercentage && req.DiscountAmount > 100 {
		return errs.Validation("percentage discount cannot exceed 100")
	}
	if !req.ValidTo.After(req.ValidFrom) {
		return errs.Validation("valid_to must be after valid_from")
	}
	return nil
}

// Create creates a coupon.
func (cs *CouponService) Create(ctx context.Context, req *CouponRequest) (*models.Coupon, error) {
	if err := cs.validateRequest(req); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:           req.Code,
		MinimumPrice:   req.MinimumPrice,
		DiscountType:   req.DiscountType,
		DiscountAmount: req.DiscountAmount,
		ValidFrom:      req.ValidFrom,
		ValidTo:        req.ValidTo,
		IsActive:       req.IsActive,
	}
	if err := cs.store.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}

	cs.logger.Info("Coupon created", zap.String("code", coupon.Code))
	return coupon, nil
}

// Update overwrites a coupon's rule fields.
func (cs *CouponService) Update(ctx context.Context, id int64, req *CouponRequest) (*models.Coupon, error) {
	if err := cs.validateRequest(req); err != nil {
		return nil, err
	}

	coupon, err := cs.store.GetCouponByID(ctx, id)
	if err != nil {
		return nil, err
	}

	coupon.MinimumPrice = req.MinimumPrice
	coupon.DiscountType = req.DiscountType
	coupon.DiscountAmount = req.DiscountAmount
	coupon.ValidFrom = req.ValidFrom
	coupon.ValidTo = req.ValidTo
	coupon.IsActive = req.IsActive

	if err := cs.store.UpdateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete soft-deletes a coupon.
func (cs *CouponService) Delete(ctx context.Context, id int64) error {
	return cs.store.SoftDeleteCoupon(ctx, id)
}

// AdminList returns all coupons with the date-derived effective flag.
func (cs *CouponService) AdminList(ctx context.Context) ([]AdminCoupon, error) {
	coupons, err := cs.store.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]AdminCoupon, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, AdminCoupon{
			Coupon:          c,
			EffectiveActive: EffectiveActive(&c, now),
		})
	}
	return out, nil
}

// ListValid returns the user-facing coupons a subtotal qualifies for.
func (cs *CouponService) ListValid(ctx context.Context, subtotal int64) ([]models.Coupon, error) {
	if subtotal <= 0 {
		return nil, errs.Validation("total must be positive")
	}
	return cs.store.ListValidCoupons(ctx, subtotal, time.Now())
}

// Validate resolves a code against a subtotal and returns the coupon
// with the discount it grants.
func (cs *CouponService) Validate(ctx context.Context, code string, subtotal int64) (*models.Coupon, int64, error) {
	if code == "" {
		return nil, 0, errs.Validation("coupon code is required")
	}
	if subtotal <= 0 {
		return nil, 0, errs.Validation("total must be positive")
	}

	coupon, err := cs.store.GetCouponByCode(ctx, code)
	if err != nil {
		util.CouponValidationsTotal.WithLabelValues("not_found").Inc()
		return nil, 0, err
	}

	now := time.Now()
	if !coupon.IsActive || !withinWindow(coupon, now) {
		util.CouponValidationsTotal.WithLabelValues("inactive").Inc()
		return nil, 0, errs.Validation("coupon %s is not active", code)
	}
	if subtotal <= coupon.MinimumPrice {
		util.CouponValidationsTotal.WithLabelValues("below_minimum").Inc()
		return nil, 0, errs.Validation("order total below coupon minimum")
	}

	util.CouponValidationsTotal.WithLabelValues("ok").Inc()
	return coupon, Discount(coupon, subtotal), nil
}

func withinWindow(c *models.Coupon, now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// EffectiveActive is the date-derived activity used by the admin list,
// independent of the stored flag.
func EffectiveActive(c *models.Coupon, now time.Time) bool {
	return withinWindow(c, now)
}

// Discount computes the discount a coupon grants on a subtotal, in
// satang. Percentage amounts are computed in decimal and rounded to a
// whole satang; fixed amounts are capped at the subtotal; an unknown
// type grants nothing.
func Discount(c *models.Coupon, subtotal int64) int64 {
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		d := decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(c.DiscountAmount)).
			Div(decimal.NewFromInt(100)).
			Round(0)
		return d.IntPart()
	case models.DiscountTypeFixed:
		if c.DiscountAmount > subtotal {
			return subtotal
		}
		return c.DiscountAmount
	default:
		return 0
	}
}
