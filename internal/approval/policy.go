// Package approval decides which pending orders are approved automatically.
// Everything here is pure; applying the decision is the dispatcher's job.
package approval

import (
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxQuantity = 100
	DefaultDelay       = 5 * time.Minute
)

var DefaultMaxTotalAmount = decimal.NewFromInt(100_000_000)

// Policy holds the auto-approval thresholds
type Policy struct {
	MaxQuantity    int
	MaxTotalAmount decimal.Decimal
	Delay          time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxQuantity:    DefaultMaxQuantity,
		MaxTotalAmount: DefaultMaxTotalAmount,
		Delay:          DefaultDelay,
	}
}

// Eligible reports whether the order is small enough to approve without an operator
func (p Policy) Eligible(o order.Order) bool {
	return o.TotalQuantity() <= p.MaxQuantity && o.TotalAmount.LessThanOrEqual(p.MaxTotalAmount)
}

// Due reports whether a pending eligible order has waited long enough
func (p Policy) Due(o order.Order, now time.Time) bool {
	if o.Status != order.StatusPending || !p.Eligible(o) {
		return false
	}
	return !now.Before(o.CreatedAt.Add(p.Delay))
}

// SelectDue returns the orders to approve at now, in input order
func (p Policy) SelectDue(orders []order.Order, now time.Time) []order.Order {
	var due []order.Order
	for _, o := range orders {
		if p.Due(o, now) {
			due = append(due, o)
		}
	}
	return due
}
