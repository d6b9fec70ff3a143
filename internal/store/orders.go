package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/models"
)

// PlaceOrderTx writes the order, freezes its line items and empties the
// customer's cart in a single transaction. A failure partway rolls back the
// whole checkout so the cart is never half-consumed.
func (s *Store) PlaceOrderTx(ctx context.Context, order *models.Order, items []models.OrderedItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, ordered_date, arriving_date, status, status_changed_at, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.CustomerID, order.OrderedDate, order.ArrivingDate,
		order.Status, order.StatusChangedAt, order.Address)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO ordered_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price)
		if err != nil {
			return fmt.Errorf("failed to insert ordered item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE customer_id = $1", order.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByCustomerAndStatus retrieves a customer's orders in one status
func (s *Store) GetOrdersByCustomerAndStatus(ctx context.Context, customerID int64, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE customer_id = $1 AND status = $2
		ORDER BY ordered_date DESC`, customerID, status)
	return orders, err
}

// OrderedItemDetail is a frozen line item joined with its product name.
type OrderedItemDetail struct {
	models.OrderedItem
	ProductName string `db:"product_name"`
}

// GetOrderedItemDetails retrieves an order's line items with product names
func (s *Store) GetOrderedItemDetails(ctx context.Context, orderID int64) ([]OrderedItemDetail, error) {
	var items []OrderedItemDetail
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name AS product_name
		FROM ordered_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	return items, err
}

// TransitionOrderStatus moves an order from one status to another with a
// compare-and-swap on the current status, refreshing the status-changed
// timestamp. Returns false when the order was not in the expected status.
func (s *Store) TransitionOrderStatus(ctx context.Context, orderID int64, from, to models.OrderStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, status_changed_at = NOW()
		WHERE id = $2 AND status = $3`,
		to, orderID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateOrderAddress overwrites the address snapshot while the order is
// still confirmed. Returns false once the order has moved on.
func (s *Store) UpdateOrderAddress(ctx context.Context, orderID int64, address string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET address = $1
		WHERE id = $2 AND status = $3`,
		address, orderID, models.StatusConfirmed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateOrderFeedback overwrites the free-text feedback on an order
func (s *Store) UpdateOrderFeedback(ctx context.Context, orderID int64, feedback string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET feedback = $1 WHERE id = $2", feedback, orderID)
	return err
}
