package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderApproved      = "OrderApproved"
	EventOrderCancelled     = "OrderCancelled"
	EventShipmentDispatched = "ShipmentDispatched"
)

// Event is the envelope published to Kafka for order lifecycle changes
type Event struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent wraps a payload in an envelope
func NewEvent(orderID, eventType string, payload any, now time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		EventType: eventType,
		Data:      data,
		Timestamp: now,
	}, nil
}

type OrderApproved struct {
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Automatic   bool            `json:"automatic"`
	ApprovedAt  time.Time       `json:"approved_at"`
}

type OrderCancelled struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

type ShipmentDispatched struct {
	OrderID       string       `json:"order_id"`
	ShipmentID    string       `json:"shipment_id"`
	CustomerEmail string       `json:"customer_email"`
	Shipment      ShipperOrder `json:"shipment"`
	DispatchedAt  time.Time    `json:"dispatched_at"`
}
