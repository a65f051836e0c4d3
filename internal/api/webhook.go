package api

import (
	"errors"
	"net/http"
	"time"

	"furnistore/internal/errs"
	"furnistore/internal/payment"
	"furnistore/internal/service"
	"furnistore/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleWebhook receives the payment provider's callbacks. The response
// code is a contract with the provider: 2xx stops redelivery, anything
// else triggers a retry. Duplicates and irrelevant event types are
// acknowledged; a failed finalization is reported so the provider
// retries after the underlying problem is fixed.
func (h *Handler) handleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		util.WebhookEventsTotal.WithLabelValues("bad_payload").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read payload"})
		return
	}

	event, err := payment.ParseEvent(payload,
		c.GetHeader(payment.SignatureHeader),
		h.webhookSecret, h.webhookTolerance, time.Now())
	if err != nil {
		util.WebhookEventsTotal.WithLabelValues("rejected").Inc()
		h.logger.Warn("Webhook rejected", zap.Error(err))
		c.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	if event.Type != payment.EventTypeCheckoutCompleted {
		util.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	order, err := h.finalizer.FinalizeCheckout(c.Request.Context(), event.ID, &event.Data.Object)
	if err != nil {
		if errors.Is(err, service.ErrEventAlreadyProcessed) {
			c.JSON(http.StatusOK, gin.H{"message": "already processed"})
			return
		}
		util.WebhookEventsTotal.WithLabelValues("failed").Inc()
		h.logger.Error("Webhook finalization failed",
			zap.String("event_id", event.ID), zap.Error(err))

		status := http.StatusBadRequest
		if errs.KindOf(err) == errs.KindUnknown {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	util.WebhookEventsTotal.WithLabelValues("finalized").Inc()
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID})
}
