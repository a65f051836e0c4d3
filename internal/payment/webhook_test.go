package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifySignatureRoundtrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	header := Sign(payload, testSecret, now)
	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.NoError(t, err)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := Sign(payload, "other_secret", now)
	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.Error(t, err)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	now := time.Now()
	header := Sign([]byte(`{"amount":100}`), testSecret, now)

	err := VerifySignature([]byte(`{"amount":99999}`), header, testSecret, 5*time.Minute, now)
	assert.Error(t, err)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-10 * time.Minute)

	header := Sign(payload, testSecret, signedAt)
	err := VerifySignature(payload, header, testSecret, 5*time.Minute, time.Now())
	assert.Error(t, err)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	err := VerifySignature([]byte(`{}`), "garbage", testSecret, 5*time.Minute, time.Now())
	assert.Error(t, err)
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_456",
				"amount_total": 250000,
				"customer_email": "buyer@example.com",
				"metadata": {"cart_id": "7", "user_id": "42"}
			}
		}
	}`)
	now := time.Now()

	event, err := ParseEvent(payload, Sign(payload, testSecret, now), testSecret, 5*time.Minute, now)
	require.NoError(t, err)

	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventTypeCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_456", event.Data.Object.ID)
	assert.Equal(t, int64(250000), event.Data.Object.AmountTotal)
	assert.Equal(t, "7", event.Data.Object.Metadata["cart_id"])
}

func TestParseEventMissingID(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()

	_, err := ParseEvent(payload, Sign(payload, testSecret, now), testSecret, 5*time.Minute, now)
	assert.Error(t, err)
}
