package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusInTransit, true},
		{StatusInTransit, StatusDelivered, true},
		{StatusDelivered, StatusReturned, true},

		{StatusConfirmed, StatusDelivered, false},
		{StatusConfirmed, StatusReturned, false},
		{StatusInTransit, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},

		// Terminal states stay terminal.
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusReturned, StatusReturned, false},
		{StatusReturned, StatusDelivered, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("Confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	status, ok = ParseOrderStatus("INTRANSIT")
	assert.True(t, ok)
	assert.Equal(t, StatusInTransit, status)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("")
	assert.False(t, ok)
}
