package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderIDRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := generateOrderID()
		assert.GreaterOrEqual(t, id, int64(orderIDMin))
		assert.Less(t, id, int64(orderIDMax))
	}
}

func TestFreezeCartItems(t *testing.T) {
	// Requires a database; the pure pieces of checkout are covered by the
	// cart view and summary tests.
	t.Skip("Integration test - requires database")
}

func TestCheckoutReplayFails(t *testing.T) {
	// Placing an order consumes the payment flag, so a second checkout
	// without paying again must fail with ErrPaymentRequired and create no
	// second order.
	t.Skip("Integration test - requires database and Redis")
}
