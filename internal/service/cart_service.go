package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CartService mutates and reads the live per-customer cart ledger
type CartService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store *store.Store) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CartView is the cart with live product lines and a live-price total.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total int64             `json:"total"`
}

// Add puts one unit of a product into the customer's cart. An existing row
// is incremented rather than duplicated; a missing product is ignored.
// Returns true when the cart was actually touched.
func (cs *CartService) Add(ctx context.Context, customerID, productID int64) (bool, error) {
	product, err := cs.store.GetProductByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := cs.store.UpsertCartItem(ctx, customerID, productID); err != nil {
		return false, fmt.Errorf("failed to add to cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	cs.logger.Info("Product added to cart",
		zap.String("product", product.Name),
		zap.Int64("product_id", productID),
		zap.Int64("customer_id", customerID))
	return true, nil
}

// Increment bumps the quantity of an existing cart row; absent rows and
// unknown products are no-ops.
func (cs *CartService) Increment(ctx context.Context, customerID, productID int64) error {
	if err := cs.store.IncrementCartItem(ctx, customerID, productID); err != nil {
		return fmt.Errorf("failed to increment cart item: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("increment").Inc()
	return nil
}

// Decrement lowers the quantity of an existing cart row; at zero the row is
// removed outright.
func (cs *CartService) Decrement(ctx context.Context, customerID, productID int64) error {
	if err := cs.store.DecrementCartItem(ctx, customerID, productID); err != nil {
		return fmt.Errorf("failed to decrement cart item: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("decrement").Inc()
	return nil
}

// Remove deletes a cart row if present
func (cs *CartService) Remove(ctx context.Context, customerID, productID int64) error {
	if err := cs.store.RemoveCartItem(ctx, customerID, productID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// View returns the cart joined with live products. Line totals and the cart
// total use the current catalog price; prices only freeze at checkout.
func (cs *CartService) View(ctx context.Context, customerID int64) (*CartView, error) {
	items, err := cs.store.GetCartItems(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := cs.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	return assembleCartView(items, productMap), nil
}

// assembleCartView joins cart rows with their products and sums live-price
// line totals.
func assembleCartView(items []models.CartItem, products map[int64]models.Product) *CartView {
	view := &CartView{Lines: make([]models.CartLine, 0, len(items))}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		line := models.CartLine{
			CartItem:  item,
			Product:   product,
			LineTotal: product.Price * int64(item.Quantity),
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}
	return view
}
