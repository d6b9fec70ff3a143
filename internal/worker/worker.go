package worker

import (
	"context"
	"errors"
	"log"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// FulfillmentWorker consumes operator shipment events and applies the
// externally driven lifecycle transitions (confirmed -> intransit ->
// delivered). Customers never drive these from a route.
type FulfillmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orders       *service.OrderService
	logger       *zap.Logger
}

// NewFulfillmentWorker creates a new fulfillment worker
func NewFulfillmentWorker(consumer *broker.Consumer, orders *service.OrderService) *FulfillmentWorker {
	w := &FulfillmentWorker{
		consumer: consumer,
		orders:   orders,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnShipmentDispatched(w.handleDispatched)
	eventHandler.OnShipmentDelivered(w.handleDelivered)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *FulfillmentWorker) Start(ctx context.Context) error {
	log.Println("Starting fulfillment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FulfillmentWorker) Stop() error {
	log.Println("Stopping fulfillment worker...")
	return w.consumer.Close()
}

func (w *FulfillmentWorker) handleDispatched(ctx context.Context, event *models.ShipmentDispatchedEvent) error {
	err := w.orders.MarkInTransit(ctx, event.OrderID)
	if errors.Is(err, service.ErrInvalidTransition) {
		// Cancelled before dispatch, or a replayed event. Drop it.
		w.logger.Warn("Ignoring dispatch for order not in confirmed state",
			zap.Int64("order_id", event.OrderID))
		return nil
	}
	if err != nil {
		return err
	}

	w.logger.Info("Order in transit", zap.Int64("order_id", event.OrderID))
	return nil
}

func (w *FulfillmentWorker) handleDelivered(ctx context.Context, event *models.ShipmentDeliveredEvent) error {
	err := w.orders.MarkDelivered(ctx, event.OrderID)
	if errors.Is(err, service.ErrInvalidTransition) {
		w.logger.Warn("Ignoring delivery for order not in transit",
			zap.Int64("order_id", event.OrderID))
		return nil
	}
	if err != nil {
		return err
	}

	w.logger.Info("Order delivered", zap.Int64("order_id", event.OrderID))
	return nil
}
