// Package sweep periodically loads every vendor's orders so due
// auto-approvals are applied even when no operator has the console open.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/metrics"
	"github.com/example/vendor-ops/internal/vendor"
)

type VendorLister interface {
	List(ctx context.Context) ([]vendor.Vendor, error)
}

// OrderLoader loads a vendor's orders, applying due auto-approvals
type OrderLoader interface {
	LoadOrders(ctx context.Context, vendorID string) ([]order.Order, error)
}

type Result struct {
	Vendors int
	Failed  int
	Orders  int
	Pending int
}

type Sweeper struct {
	vendors VendorLister
	orders  OrderLoader
}

func NewSweeper(vendors VendorLister, orders OrderLoader) *Sweeper {
	return &Sweeper{vendors: vendors, orders: orders}
}

// Run loads the orders of every vendor once. A vendor whose load fails is
// logged and skipped.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.AutoApprovalSweepDuration.Observe(time.Since(start).Seconds())
	}()

	vendors, err := s.vendors.List(ctx)
	if err != nil {
		log.Printf("[AutoApprover] Failed to list vendors: %v", err)
		return Result{}, err
	}

	var res Result
	for _, v := range vendors {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Vendors++

		orders, err := s.orders.LoadOrders(ctx, v.ID)
		if err != nil {
			res.Failed++
			log.Printf("[AutoApprover] Failed to load orders for vendor %s: %v", v.ID, err)
			continue
		}
		res.Orders += len(orders)
		for _, o := range orders {
			if o.Status == order.StatusPending {
				res.Pending++
			}
		}
	}

	log.Printf("[AutoApprover] Sweep done: %d vendors (%d failed), %d orders, %d still pending in %s",
		res.Vendors, res.Failed, res.Orders, res.Pending, time.Since(start).Round(time.Millisecond))
	return res, nil
}
