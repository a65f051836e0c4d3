package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"furnistore/internal/errs"
)

// SignatureHeader carries the provider's webhook signature in the form
// "t=<unix>,v1=<hex hmac-sha256>", where the signed payload is
// "<unix>.<raw body>".
const SignatureHeader = "Stripe-Signature"

// EventTypeCheckoutCompleted is the only event type that mutates state;
// every other type is acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// CheckoutSession is the session object embedded in a webhook event.
type CheckoutSession struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

// Event is an inbound webhook event from the payment provider.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// Sign computes the signature header value for a payload at ts. Used by
// outbound test fixtures; verification uses the same construction.
func Sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature checks the signature header against the raw payload.
// Timestamps older than tolerance are rejected to blunt replay.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64
	var sig string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, _ = strconv.ParseInt(kv[1], 10, 64)
		case "v1":
			sig = kv[1]
		}
	}

	if ts == 0 || sig == "" {
		return errs.Unauthorized("malformed webhook signature header")
	}

	eventTime := time.Unix(ts, 0)
	if now.Sub(eventTime) > tolerance || eventTime.Sub(now) > tolerance {
		return errs.Unauthorized("webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return errs.Unauthorized("webhook signature mismatch")
	}
	return nil
}

// ParseEvent verifies the signature and unmarshals the event.
func ParseEvent(payload []byte, header, secret string, tolerance time.Duration, now time.Time) (*Event, error) {
	if err := VerifySignature(payload, header, secret, tolerance, now); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errs.Validation("malformed webhook payload: %v", err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, errs.Validation("webhook event missing id or type")
	}
	return &event, nil
}
