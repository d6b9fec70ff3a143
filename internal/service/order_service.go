package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService drives the order lifecycle after checkout: status-filtered
// listings and the customer-initiated transitions.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ListByStatus returns the customer's orders in one of the five statuses,
// each with its distinct product names and frozen-price total. An unknown
// status string is a not-found condition.
func (os *OrderService) ListByStatus(ctx context.Context, customerID int64, statusStr string) ([]models.OrderSummary, error) {
	status, ok := models.ParseOrderStatus(statusStr)
	if !ok {
		return nil, ErrUnknownStatus
	}

	orders, err := os.store.GetOrdersByCustomerAndStatus(ctx, customerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	summaries := make([]models.OrderSummary, 0, len(orders))
	for _, order := range orders {
		details, err := os.store.GetOrderedItemDetails(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read order items: %w", err)
		}
		summaries = append(summaries, summarize(order, details))
	}

	os.logger.Info("Viewing orders",
		zap.Int64("customer_id", customerID),
		zap.String("status", string(status)))
	return summaries, nil
}

// summarize computes the distinct product-name list and the total over the
// frozen snapshot prices, never the live catalog prices.
func summarize(order models.Order, details []store.OrderedItemDetail) models.OrderSummary {
	seen := make(map[string]bool)
	names := make([]string, 0, len(details))
	var total int64
	for _, d := range details {
		total += d.Price * int64(d.Quantity)
		if !seen[d.ProductName] {
			seen[d.ProductName] = true
			names = append(names, d.ProductName)
		}
	}
	sort.Strings(names)
	return models.OrderSummary{Order: order, ProductNames: names, Total: total}
}

// owned loads an order and checks it belongs to the customer. Both a missing
// order and a foreign one come back as ErrNotOwned so routes can fall
// through to a harmless redirect.
func (os *OrderService) owned(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := os.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrNotOwned
	}
	return order, nil
}

// Cancel moves a confirmed order to cancelled. Irreversible; a repeat call
// on an already-terminal order is rejected with ErrInvalidTransition.
func (os *OrderService) Cancel(ctx context.Context, customerID, orderID int64) error {
	order, err := os.owned(ctx, customerID, orderID)
	if err != nil {
		return err
	}

	if err := os.transition(ctx, order, models.StatusCancelled); err != nil {
		return err
	}

	util.OrdersCancelledTotal.Inc()
	os.logger.Info("Order cancelled",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID))

	event := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		CustomerID: customerID,
	}
	if err := os.eventPublisher.PublishOrderCancelled(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}
	return nil
}

// Return moves a delivered order to returned.
func (os *OrderService) Return(ctx context.Context, customerID, orderID int64) error {
	order, err := os.owned(ctx, customerID, orderID)
	if err != nil {
		return err
	}

	if err := os.transition(ctx, order, models.StatusReturned); err != nil {
		return err
	}

	util.OrdersReturnedTotal.Inc()
	os.logger.Info("Return requested",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID))

	event := &models.OrderReturnedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderReturned,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		CustomerID: customerID,
	}
	if err := os.eventPublisher.PublishOrderReturned(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderReturned event", zap.Error(err))
	}
	return nil
}

// ChangeAddress overwrites the order's address snapshot. Allowed only while
// the order is still confirmed; the empty string is a validation error.
func (os *OrderService) ChangeAddress(ctx context.Context, customerID, orderID int64, address string) error {
	if address == "" {
		return ErrEmptyAddress
	}

	if _, err := os.owned(ctx, customerID, orderID); err != nil {
		return err
	}

	ok, err := os.store.UpdateOrderAddress(ctx, orderID, address)
	if err != nil {
		return fmt.Errorf("failed to update order address: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}

	os.logger.Info("Order address updated",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID))
	return nil
}

// AttachFeedback overwrites the free-text feedback on any owned order.
func (os *OrderService) AttachFeedback(ctx context.Context, customerID, orderID int64, feedback string) error {
	if _, err := os.owned(ctx, customerID, orderID); err != nil {
		return err
	}

	if err := os.store.UpdateOrderFeedback(ctx, orderID, feedback); err != nil {
		return fmt.Errorf("failed to attach feedback: %w", err)
	}

	os.logger.Info("Feedback added",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID))
	return nil
}

// MarkInTransit applies the operator-driven confirmed -> intransit move.
// No ownership check: the caller is the fulfillment worker, not a customer.
func (os *OrderService) MarkInTransit(ctx context.Context, orderID int64) error {
	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	return os.transition(ctx, order, models.StatusInTransit)
}

// MarkDelivered applies the operator-driven intransit -> delivered move.
func (os *OrderService) MarkDelivered(ctx context.Context, orderID int64) error {
	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	return os.transition(ctx, order, models.StatusDelivered)
}

// transition applies a guarded status move. The state machine check filters
// obviously invalid moves; the store's compare-and-swap closes the race
// between concurrent transitions on the same order.
func (os *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus) error {
	if !models.CanTransition(order.Status, to) {
		return ErrInvalidTransition
	}

	ok, err := os.store.TransitionOrderStatus(ctx, order.ID, order.Status, to)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}
