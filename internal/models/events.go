package models

import "time"

// Event types
const (
	EventTypeCustomerRegistered = "CUSTOMER_REGISTERED"
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderCancelled     = "ORDER_CANCELLED"
	EventTypeOrderReturned      = "ORDER_RETURNED"
	EventTypeShipmentDispatched = "SHIPMENT_DISPATCHED"
	EventTypeShipmentDelivered  = "SHIPMENT_DELIVERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomerRegisteredEvent published when a new account is created
type CustomerRegisteredEvent struct {
	BaseEvent
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
}

// OrderPlacedEvent published when checkout converts a cart into an order
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      int64           `json:"order_id"`
	CustomerID   int64           `json:"customer_id"`
	Total        int64           `json:"total"`
	Address      string          `json:"address"`
	ArrivingDate time.Time       `json:"arriving_date"`
	Items        []OrderItemData `json:"items"`
}

// OrderCancelledEvent published when a customer cancels a confirmed order
type OrderCancelledEvent struct {
	BaseEvent
	OrderID    int64 `json:"order_id"`
	CustomerID int64 `json:"customer_id"`
}

// OrderReturnedEvent published when a delivered order is returned
type OrderReturnedEvent struct {
	BaseEvent
	OrderID    int64 `json:"order_id"`
	CustomerID int64 `json:"customer_id"`
}

// ShipmentDispatchedEvent is consumed from the fulfillment operator;
// it drives the confirmed -> intransit transition.
type ShipmentDispatchedEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
}

// ShipmentDeliveredEvent is consumed from the fulfillment operator;
// it drives the intransit -> delivered transition.
type ShipmentDeliveredEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}
