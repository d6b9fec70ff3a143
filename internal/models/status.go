package models

import "strings"

// OrderStatus is the fixed order lifecycle state set.
type OrderStatus string

const (
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
	StatusInTransit OrderStatus = "intransit"
	StatusDelivered OrderStatus = "delivered"
	StatusReturned  OrderStatus = "returned"
)

// validNext encodes the lifecycle: confirmed -> {cancelled, intransit},
// intransit -> delivered, delivered -> returned. cancelled and returned
// are terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusConfirmed: {StatusCancelled: true, StatusInTransit: true},
	StatusInTransit: {StatusDelivered: true},
	StatusDelivered: {StatusReturned: true},
	StatusCancelled: {},
	StatusReturned:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ParseOrderStatus parses a status string case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(s))
	_, ok := validNext[status]
	return status, ok
}
