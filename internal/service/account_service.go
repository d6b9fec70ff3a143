package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Customer ids share the order-id scheme: random 7-digit numbers with
// collision retry against the primary key.
const customerIDMaxRetries = 10

// AccountService handles signup, login and profile self-service.
type AccountService struct {
	store          *store.Store
	sessions       *session.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store *store.Store, sessions *session.Store, eventPublisher *broker.EventPublisher) *AccountService {
	return &AccountService{
		store:          store,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// Signup creates a customer account with a bcrypt-hashed password and a
// generated unique numeric id.
func (as *AccountService) Signup(ctx context.Context, firstName, lastName, email, password string) (*models.Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := as.store.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		as.logger.Warn("Attempted signup with existing email", zap.String("email", email))
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}

	for attempt := 0; attempt < customerIDMaxRetries; attempt++ {
		customer.ID = orderIDMin + rand.Int63n(orderIDMax-orderIDMin)

		err = as.store.CreateCustomer(ctx, customer)
		if err == nil {
			break
		}
		if store.IsUniqueViolation(err) {
			// Either an id collision (retry) or the email raced us in.
			racer, lookupErr := as.store.GetCustomerByEmail(ctx, email)
			if lookupErr == nil && racer != nil {
				return nil, ErrEmailTaken
			}
			continue
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique customer id: %w", err)
	}

	util.CustomersRegisteredTotal.Inc()
	as.logger.Info("New account created", zap.String("email", email), zap.Int64("customer_id", customer.ID))

	event := &models.CustomerRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCustomerRegistered,
			Timestamp: time.Now(),
		},
		CustomerID: customer.ID,
		Email:      email,
	}
	if err := as.eventPublisher.PublishCustomerRegistered(ctx, event); err != nil {
		as.logger.Error("Failed to publish CustomerRegistered event", zap.Error(err))
	}

	return customer, nil
}

// Login verifies credentials and issues a session token.
func (as *AccountService) Login(ctx context.Context, email, password string) (string, *models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	customer, err := as.store.GetCustomerByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if customer == nil {
		util.LoginsTotal.WithLabelValues("unknown_email").Inc()
		as.logger.Warn("Login attempt with unregistered email", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		util.LoginsTotal.WithLabelValues("wrong_password").Inc()
		as.logger.Warn("Login attempt with wrong password", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := as.sessions.Create(ctx, customer.ID)
	if err != nil {
		return "", nil, err
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	as.logger.Info("Customer logged in", zap.Int64("customer_id", customer.ID))
	return token, customer, nil
}

// Logout destroys the session and everything attached to it.
func (as *AccountService) Logout(ctx context.Context, token string) error {
	return as.sessions.Destroy(ctx, token)
}

// UpdateAddress updates the profile shipping address. Orders already placed
// keep their own snapshots.
func (as *AccountService) UpdateAddress(ctx context.Context, customerID int64, address string) error {
	if err := as.store.UpdateCustomerAddress(ctx, customerID, address); err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	as.logger.Info("Address updated", zap.Int64("customer_id", customerID))
	return nil
}

// UpdatePassword verifies the old password and replaces the hash. The new
// password must match its confirmation and differ from the old one.
func (as *AccountService) UpdatePassword(ctx context.Context, customer *models.Customer, oldPassword, newPassword, confirmPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(newPassword)) == nil {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := as.store.UpdateCustomerPassword(ctx, customer.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	as.logger.Info("Password updated", zap.Int64("customer_id", customer.ID))
	return nil
}
