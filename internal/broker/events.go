package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"furnistore/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderFinalized publishes an OrderFinalized event.
func (ep *EventPublisher) PublishOrderFinalized(ctx context.Context, event *models.OrderFinalizedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event.
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockImported publishes a StockImported event.
func (ep *EventPublisher) PublishStockImported(ctx context.Context, event *models.StockImportedEvent) error {
	key := fmt.Sprintf("batch-%d", event.BatchID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks.
type EventHandler struct {
	onOrderFinalized     func(context.Context, *models.OrderFinalizedEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderFinalized registers a handler for OrderFinalized events.
func (eh *EventHandler) OnOrderFinalized(handler func(context.Context, *models.OrderFinalizedEvent) error) {
	eh.onOrderFinalized = handler
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events.
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderFinalized:
		if eh.onOrderFinalized != nil {
			var event models.OrderFinalizedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderFinalized event: %w", err)
			}
			return eh.onOrderFinalized(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
