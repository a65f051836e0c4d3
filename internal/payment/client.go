package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"furnistore/internal/errs"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// Client talks to the hosted-checkout payment provider. The provider is
// opaque to us: we create a session with line items and metadata, the
// customer pays on the provider's page, and confirmation arrives later
// through the webhook.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a payment provider client.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: util.GetLogger(),
	}
}

// LineItem is one purchasable line of a checkout session. Amount is the
// per-unit price in satang after discount spreading.
type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Quantity int    `json:"quantity"`
}

// SessionRequest creates a hosted checkout session. Metadata carries
// every field needed to reconstruct the order when the webhook fires;
// no local order state exists before then.
type SessionRequest struct {
	LineItems     []LineItem        `json:"line_items"`
	Metadata      map[string]string `json:"metadata"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
}

// Session is the provider's created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession requests a hosted payment session.
func (c *Client) CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.Upstream("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Upstream("failed to read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Payment provider rejected session",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, errs.Upstream(
			fmt.Sprintf("payment provider returned status %d", resp.StatusCode), nil)
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, errs.Upstream("malformed provider response", err)
	}
	return &session, nil
}
