package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the placeholder shown for customer fields that cannot be resolved
const Unknown = "Không xác định"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// validTransitions defines the operator-initiated transitions. Repeating
// a terminal transition is allowed so approve and cancel stay idempotent.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCompleted},
	StatusCancelled:  {StatusCancelled},
}

// CanTransitionTo checks if the order can move to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	for _, s := range validTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition when the move is not allowed
func (o *Order) CheckTransition(target Status) error {
	if o.CanTransitionTo(target) {
		return nil
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, target)
}

// Order is the denormalized view built from a transaction, its user and
// the referenced products. It is recomputed on every load.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	ShippingAddress string          `json:"shippingAddress"`
	PhoneNumber     string          `json:"phoneNumber"`
}

type OrderItem struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	ProductDetails *ProductDetails `json:"productDetails"`
}

// ProductDetails is a snapshot of the catalogue product for a line item
type ProductDetails struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// TotalQuantity sums the quantities of all line items
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// DisplayName prefers the catalogue name over the name stored on the item
func (i OrderItem) DisplayName() string {
	if i.ProductDetails != nil && i.ProductDetails.Name != "" {
		return i.ProductDetails.Name
	}
	return i.ProductName
}

// StatusColor returns the hex colour used to render a status badge
func StatusColor(s Status) string {
	switch s {
	case StatusPending:
		return "#FFA500"
	case StatusProcessing:
		return "#4169E1"
	case StatusCompleted:
		return "#4CAF50"
	case StatusCancelled:
		return "#FF0000"
	default:
		return "#000000"
	}
}
