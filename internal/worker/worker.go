package worker

import (
	"context"
	"fmt"
	"log"

	"furnistore/internal/broker"
	"furnistore/internal/mailer"
	"furnistore/internal/models"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order events and turns them into the
// internal "new order" notice, the billing receipt and status-change
// mail. Delivery is fire-and-forget with respect to the webhook
// response; failures are logged and counted only.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       *mailer.Mailer
	ordersInbox  string
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, m *mailer.Mailer, ordersInbox string) *NotificationWorker {
	w := &NotificationWorker{
		consumer:    consumer,
		mailer:      m,
		ordersInbox: ordersInbox,
		logger:      util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderFinalized(w.handleOrderFinalized)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderFinalized(ctx context.Context, event *models.OrderFinalizedEvent) error {
	subject := fmt.Sprintf("คำสั่งซื้อใหม่ #%d", event.OrderID)
	body := fmt.Sprintf(
		"Order #%d finalized.\nCustomer: %d\nAmount: %d satang\nDiscount: %d satang\nItems: %d",
		event.OrderID, event.UserID, event.Amount, event.DiscountAmount, len(event.Items))

	w.send("new_order", w.ordersInbox, subject, body)

	if event.CustomerEmail != "" {
		billSubject := fmt.Sprintf("ใบเสร็จคำสั่งซื้อ #%d", event.OrderID)
		billBody := fmt.Sprintf(
			"Thank you for your purchase.\nOrder: #%d\nTotal: %d satang\nDiscount applied: %d satang",
			event.OrderID, event.Amount, event.DiscountAmount)
		w.send("billing", event.CustomerEmail, billSubject, billBody)
	}

	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	if event.CustomerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("สถานะคำสั่งซื้อ #%d", event.OrderID)
	body := fmt.Sprintf("Order #%d status changed: %s -> %s",
		event.OrderID, event.OldStatus, event.NewStatus)

	w.send("status_change", event.CustomerEmail, subject, body)
	return nil
}

func (w *NotificationWorker) send(kind, to, subject, body string) {
	if err := w.mailer.Send(to, subject, body); err != nil {
		util.EmailsSentTotal.WithLabelValues(kind, "error").Inc()
		w.logger.Error("Failed to send notification mail",
			zap.String("kind", kind),
			zap.String("to", to),
			zap.Error(err))
		return
	}
	util.EmailsSentTotal.WithLabelValues(kind, "ok").Inc()
}
