package service

import "errors"

var (
	// ErrEmptyCart means checkout or payment was attempted with no cart rows.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrPaymentRequired means no payment acknowledgement was present in the
	// session when checkout ran.
	ErrPaymentRequired = errors.New("payment unsuccessful")

	// ErrEmptyAddress rejects an empty order address update.
	ErrEmptyAddress = errors.New("address cannot be empty")

	// ErrNotOwned means the order exists but belongs to another customer, or
	// does not exist at all. Routes fall through to a harmless redirect.
	ErrNotOwned = errors.New("order not owned by customer")

	// ErrInvalidTransition rejects a lifecycle move the state machine does
	// not allow, including repeats on already-terminal orders.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownStatus rejects a listing filter outside the fixed status set.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrEmailTaken rejects signup with an already registered email.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both unregistered email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordMismatch means new password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordUnchanged rejects reusing the current password.
	ErrPasswordUnchanged = errors.New("new password matches old password")
)
