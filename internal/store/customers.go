package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/models"
)

// CreateCustomer inserts a customer with an explicit id. A duplicate id or
// email surfaces as a unique violation; callers retry id collisions.
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, password_hash, verified_email, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return s.db.GetContext(ctx, &customer.CreatedAt, query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
		customer.PasswordHash, customer.VerifiedEmail, customer.Address)
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByEmail retrieves a customer by email, nil when unregistered
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomerAddress updates the profile shipping address
func (s *Store) UpdateCustomerAddress(ctx context.Context, customerID int64, address string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE customers SET address = $1 WHERE id = $2", address, customerID)
	return err
}

// UpdateCustomerPassword replaces the stored password hash
func (s *Store) UpdateCustomerPassword(ctx context.Context, customerID int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE customers SET password_hash = $1 WHERE id = $2", passwordHash, customerID)
	return err
}
