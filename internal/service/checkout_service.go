package service

import (
	"context"
	"strconv"

	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/payment"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// CheckoutService turns a cart into a hosted payment session. Nothing
// is persisted here; the order exists only after the provider's
// webhook confirms payment.
type CheckoutService struct {
	store    *store.Store
	coupons  *CouponService
	payments *payment.Client
	logger   *zap.Logger

	successURL string
	cancelURL  string
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *store.Store, coupons *CouponService, payments *payment.Client, successURL, cancelURL string) *CheckoutService {
	return &CheckoutService{
		store:      store,
		coupons:    coupons,
		payments:   payments,
		logger:     util.GetLogger(),
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CheckoutRequest starts checkout for the user's current cart.
type CheckoutRequest struct {
	AddressID     int64  `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	CouponCode    string `json:"coupon_code"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

// CheckoutResponse carries the provider redirect.
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// spreadDiscount apportions a total discount across line totals in
// proportion to each line's share, in satang. Rounding remainders land
// on the last line so the per-line discounts sum exactly to the total.
func spreadDiscount(lineTotals []int64, discount int64) []int64 {
	out := make([]int64, len(lineTotals))
	if discount <= 0 || len(lineTotals) == 0 {
		return out
	}

	var subtotal int64
	for _, t := range lineTotals {
		subtotal += t
	}
	if subtotal <= 0 {
		return out
	}
	if discount > subtotal {
		discount = subtotal
	}

	var allocated int64
	for i, t := range lineTotals {
		if i == len(lineTotals)-1 {
			out[i] = discount - allocated
			break
		}
		share := discount * t / subtotal
		out[i] = share
		allocated += share
	}
	return out
}

// CreateSession validates the cart and coupon, prices the line items
// with the discount spread across them, and asks the provider for a
// hosted session. The metadata carries everything the webhook needs to
// build the order later.
func (cs *CheckoutService) CreateSession(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateSession")
	defer span.End()

	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.Validation("cart is empty")
	}
	items, err := cs.store.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.Validation("cart is empty")
	}

	var subtotal int64
	lineTotals := make([]int64, len(items))
	for i, it := range items {
		lineTotals[i] = it.Total
		subtotal += it.Total
	}

	var coupon *models.Coupon
	var discount int64
	if req.CouponCode != "" {
		coupon, discount, err = cs.coupons.Validate(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	lineItems, err := cs.buildLineItems(ctx, items, lineTotals, discount)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"cart_id":         strconv.FormatInt(cart.ID, 10),
		"user_id":         strconv.FormatInt(userID, 10),
		"address_id":      strconv.FormatInt(req.AddressID, 10),
		"payment_method":  req.PaymentMethod,
		"payment_fee":     "0",
		"discount_amount": strconv.FormatInt(discount, 10),
		"customer_email":  req.CustomerEmail,
	}
	if coupon != nil {
		metadata["coupon_id"] = strconv.FormatInt(coupon.ID, 10)
	}

	session, err := cs.payments.CreateCheckoutSession(ctx, &payment.SessionRequest{
		LineItems:     lineItems,
		Metadata:      metadata,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    cs.successURL,
		CancelURL:     cs.cancelURL,
	})
	if err != nil {
		util.CheckoutSessionsTotal.WithLabelValues("provider_error").Inc()
		return nil, err
	}

	util.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	cs.logger.Info("Checkout session created",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID),
		zap.Int64("subtotal", subtotal),
		zap.Int64("discount", discount))

	return &CheckoutResponse{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// buildLineItems prices each cart line for the provider. The line's
// share of the discount is divided back to a per-unit amount; a
// per-line remainder that does not divide evenly is surfaced by
// charging the floor and absorbing the difference.
func (cs *CheckoutService) buildLineItems(ctx context.Context, items []models.CartItem, lineTotals []int64, discount int64) ([]payment.LineItem, error) {
	discounts := spreadDiscount(lineTotals, discount)

	out := make([]payment.LineItem, len(items))
	for i, it := range items {
		product, err := cs.store.GetProductByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		discounted := it.Total - discounts[i]
		out[i] = payment.LineItem{
			Name:     product.Name,
			Amount:   discounted / int64(it.Quantity),
			Quantity: it.Quantity,
		}
	}
	return out, nil
}
