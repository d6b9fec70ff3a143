package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Order ids are random 7-digit numbers; collisions are resolved by retrying
// against the primary-key constraint.
const (
	orderIDMin        = 1_000_000
	orderIDMax        = 10_000_000
	orderIDMaxRetries = 10
)

// CheckoutService converts a live cart into an immutable order.
type CheckoutService struct {
	store          *store.Store
	sessions       *session.Store
	eventPublisher *broker.EventPublisher
	arrivingDays   int
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	store *store.Store,
	sessions *session.Store,
	eventPublisher *broker.EventPublisher,
	arrivingDays int,
) *CheckoutService {
	return &CheckoutService{
		store:          store,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		arrivingDays:   arrivingDays,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// PlaceOrder runs the checkout flow for the authenticated customer.
// Preconditions, in order: a non-empty cart (ErrEmptyCart), then a payment
// acknowledgement in the session (ErrPaymentRequired). The flag is consumed
// exactly once, so replaying checkout without paying again fails. Order
// creation, line-item freezing and cart clearing commit as one transaction.
func (cs *CheckoutService) PlaceOrder(ctx context.Context, token string, customer *models.Customer) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	items, err := cs.store.GetCartItems(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(items) == 0 {
		util.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	paid, err := cs.sessions.ConsumePaymentFlag(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume payment flag: %w", err)
	}
	if !paid {
		util.CheckoutFailedTotal.WithLabelValues("payment_missing").Inc()
		return nil, ErrPaymentRequired
	}

	orderedItems, total, err := cs.freezeCartItems(ctx, items)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	now := cs.now()
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderedDate:     now,
		ArrivingDate:    now.AddDate(0, 0, cs.arrivingDays),
		Status:          models.StatusConfirmed,
		StatusChangedAt: now,
		Address:         customer.Address,
	}

	if err := cs.placeWithFreshID(ctx, order, orderedItems); err != nil {
		util.CheckoutFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	cs.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int64("total", total))

	eventItems := make([]models.OrderItemData, len(orderedItems))
	for i, item := range orderedItems {
		eventItems[i] = models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: now,
		},
		OrderID:      order.ID,
		CustomerID:   customer.ID,
		Total:        total,
		Address:      order.Address,
		ArrivingDate: order.ArrivingDate,
		Items:        eventItems,
	}

	if err := cs.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		cs.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order, nil
}

// freezeCartItems snapshots each cart row into an ordered item carrying the
// catalog price at this instant.
func (cs *CheckoutService) freezeCartItems(ctx context.Context, items []models.CartItem) ([]models.OrderedItem, int64, error) {
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := cs.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, err
	}
	if len(products) != len(items) {
		return nil, 0, fmt.Errorf("some cart products no longer exist")
	}

	prices := make(map[int64]int64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	orderedItems := make([]models.OrderedItem, len(items))
	var total int64
	for i, item := range items {
		orderedItems[i] = models.OrderedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     prices[item.ProductID],
		}
		total += prices[item.ProductID] * int64(item.Quantity)
	}

	return orderedItems, total, nil
}

// placeWithFreshID generates a random order id and commits the checkout
// transaction, retrying on id collision. Uniqueness is guaranteed by the
// primary key, not by the generator.
func (cs *CheckoutService) placeWithFreshID(ctx context.Context, order *models.Order, items []models.OrderedItem) error {
	for attempt := 0; attempt < orderIDMaxRetries; attempt++ {
		order.ID = generateOrderID()

		err := cs.store.PlaceOrderTx(ctx, order, items)
		if err == nil {
			return nil
		}
		if store.IsUniqueViolation(err) {
			cs.logger.Warn("Order id collision, retrying", zap.Int64("order_id", order.ID))
			continue
		}
		return fmt.Errorf("failed to place order: %w", err)
	}
	return fmt.Errorf("failed to generate a unique order id after %d attempts", orderIDMaxRetries)
}

func generateOrderID() int64 {
	return orderIDMin + rand.Int63n(orderIDMax-orderIDMin)
}
