package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionMetadata(t *testing.T) {
	so, err := parseSessionMetadata(map[string]string{
		"cart_id":         "7",
		"user_id":         "42",
		"address_id":      "3",
		"coupon_id":       "9",
		"discount_amount": "1500",
		"payment_method":  "card",
		"payment_fee":     "0",
		"customer_email":  "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), so.CartID)
	assert.Equal(t, int64(42), so.UserID)
	assert.Equal(t, int64(3), so.AddressID)
	require.NotNil(t, so.CouponID)
	assert.Equal(t, int64(9), *so.CouponID)
	assert.Equal(t, int64(1500), so.DiscountAmount)
	assert.Equal(t, "card", so.PaymentMethod)
	assert.Equal(t, "buyer@example.com", so.CustomerEmail)
}

func TestParseSessionMetadataNoCoupon(t *testing.T) {
	so, err := parseSessionMetadata(map[string]string{
		"cart_id":         "7",
		"user_id":         "42",
		"address_id":      "3",
		"discount_amount": "0",
		"payment_method":  "card",
	})
	require.NoError(t, err)

	assert.Nil(t, so.CouponID)
	assert.Equal(t, int64(0), so.DiscountAmount)
}

func TestParseSessionMetadataMissingCartID(t *testing.T) {
	_, err := parseSessionMetadata(map[string]string{
		"user_id":    "42",
		"address_id": "3",
	})
	assert.Error(t, err)
}

func TestParseSessionMetadataBadCouponID(t *testing.T) {
	_, err := parseSessionMetadata(map[string]string{
		"cart_id":    "7",
		"user_id":    "42",
		"address_id": "3",
		"coupon_id":  "not-a-number",
	})
	assert.Error(t, err)
}

func TestFinalizeCheckoutIdempotent(t *testing.T) {
	// A redelivered event must claim the same event id inside the
	// transaction, roll back and come out as ErrEventAlreadyProcessed.
	t.Skip("Integration test - requires database and Redis")
}

func TestFinalizeCheckoutInsufficientStockRollsBack(t *testing.T) {
	t.Skip("Integration test - requires database and Redis")
}
