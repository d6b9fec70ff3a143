package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/internal/models"

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

// PublishCustomerRegistered publishes CustomerRegistered event
func (ep *EventPublisher) PublishCustomerRegistered(ctx context.Context, event *models.CustomerRegisteredEvent) error {
	key := fmt.Sprintf("customer-%d", event.CustomerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderCancelled publishes OrderCancelled event
func (ep *EventPublisher) PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderReturned publishes OrderReturned event
func (ep *EventPublisher) PublishOrderReturned(ctx context.Context, event *models.OrderReturnedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming operator fulfillment events
type EventHandler struct {
	onShipmentDispatched func(context.Context, *models.ShipmentDispatchedEvent) error
	onShipmentDelivered  func(context.Context, *models.ShipmentDeliveredEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnShipmentDispatched registers a handler for ShipmentDispatched events
func (eh *EventHandler) OnShipmentDispatched(handler func(context.Context, *models.ShipmentDispatchedEvent) error) {
	eh.onShipmentDispatched = handler
}

// OnShipmentDelivered registers a handler for ShipmentDelivered events
func (eh *EventHandler) OnShipmentDelivered(handler func(context.Context, *models.ShipmentDeliveredEvent) error) {
	eh.onShipmentDelivered = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeShipmentDispatched:
		if eh.onShipmentDispatched != nil {
			var event models.ShipmentDispatchedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ShipmentDispatched event: %w", err)
			}
			return eh.onShipmentDispatched(ctx, &event)
		}

	case models.EventTypeShipmentDelivered:
		if eh.onShipmentDelivered != nil {
			var event models.ShipmentDeliveredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ShipmentDelivered event: %w", err)
			}
			return eh.onShipmentDelivered(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
