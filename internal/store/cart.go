package store

import (
	"context"

	"storefront/internal/models"
)

// UpsertCartItem adds a product to a customer's cart. The unique constraint
// on (customer_id, product_id) makes concurrent adds collapse into one row
// with an incremented quantity instead of duplicate rows.
func (s *Store) UpsertCartItem(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (customer_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1`,
		customerID, productID)
	return err
}

// IncrementCartItem bumps the quantity of an existing row; absent rows are
// left alone.
func (s *Store) IncrementCartItem(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = quantity + 1
		WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID)
	return err
}

// DecrementCartItem lowers the quantity of an existing row, deleting it when
// it reaches zero. The delete arm runs first: writing 0 through the UPDATE
// would trip the quantity >= 1 check constraint, and both arms see the same
// statement snapshot, so a quantity-1 row hits exactly one of them.
func (s *Store) DecrementCartItem(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		WITH deleted AS (
			DELETE FROM cart_items
			WHERE customer_id = $1 AND product_id = $2 AND quantity = 1
			RETURNING id
		)
		UPDATE cart_items SET quantity = quantity - 1
		WHERE customer_id = $1 AND product_id = $2 AND quantity > 1`,
		customerID, productID)
	return err
}

// RemoveCartItem deletes a cart row if present
func (s *Store) RemoveCartItem(ctx context.Context, customerID, productID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID)
	return err
}

// GetCartItems retrieves all cart rows for a customer
func (s *Store) GetCartItems(ctx context.Context, customerID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE customer_id = $1 ORDER BY id", customerID)
	return items, err
}
