package fulfillment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/metrics"
	"github.com/example/vendor-ops/internal/notification"
)

// ApproveAndDispatch approves o and hands it to the shipper: status update,
// then stock decrements, then the shipment record, each awaited. Progress
// is kept in the approval ledger under the order id so a retry resumes
// where the previous attempt stopped.
func (d *Dispatcher) ApproveAndDispatch(ctx context.Context, o order.Order) (order.Order, error) {
	approved, err := d.approveAndDispatch(ctx, o, false)
	d.notifier.Notify(ctx, notification.ApprovalNotice(o.ID, err))
	return approved, err
}

// ApplyAutoApprovals approves and dispatches each due order in turn.
// Failures are logged and skipped. It returns the orders that were
// approved, with their status set to completed.
func (d *Dispatcher) ApplyAutoApprovals(ctx context.Context, due []order.Order) []order.Order {
	var approved []order.Order
	for _, o := range due {
		updated, err := d.approveAndDispatch(ctx, o, true)
		if err != nil {
			log.Printf("[Dispatcher] Auto-approval of order %s failed: %v", o.ID, err)
			continue
		}
		log.Printf("[Dispatcher] Order %s auto-approved", o.ID)
		approved = append(approved, updated)
	}
	return approved
}

func (d *Dispatcher) approveAndDispatch(ctx context.Context, o order.Order, automatic bool) (order.Order, error) {
	unlock := d.lockOrder(o.ID)
	defer unlock()

	source := "manual"
	if automatic {
		source = "auto"
	}

	rec, err := d.ledger.Get(ctx, o.ID)
	if errors.Is(err, store.ErrRecordNotFound) {
		// Completed before the ledger tracked it; its effects were applied elsewhere.
		if o.Status == order.StatusCompleted {
			log.Printf("[Dispatcher] Order %s already completed without an approval record, skipping", o.ID)
			return o, nil
		}
		rec = &store.ApprovalRecord{OrderID: o.ID, CreatedAt: d.now()}
	} else if err != nil {
		metrics.OrderTransitions.WithLabelValues("approve", source, "error").Inc()
		return o, err
	}

	if rec.Completed() {
		log.Printf("[Dispatcher] Order %s already approved and shipped (%s)", o.ID, rec.ShipmentID)
		o.Status = order.StatusCompleted
		return o, nil
	}

	rec.Attempts++
	now := d.now()

	err = d.runSteps(ctx, o, rec, now)
	rec.UpdatedAt = d.now()
	if err != nil {
		rec.LastError = err.Error()
		if rec.StatusApplied {
			metrics.PartialApprovals.Inc()
			log.Printf("[Dispatcher] Partial approval of order %s: status=%t stock=%d/%d shipment=%q: %v",
				o.ID, rec.StatusApplied, rec.StockItemsApplied, len(o.Items), rec.ShipmentID, err)
		}
	} else {
		rec.LastError = ""
	}
	// A failed save leaves the outcome unchanged; a retry finds the shipment by order id.
	if saveErr := d.ledger.Save(ctx, rec); saveErr != nil {
		log.Printf("[Dispatcher] Failed to save approval record for order %s: %v", o.ID, saveErr)
	}

	metrics.OrderTransitions.WithLabelValues("approve", source, metrics.Result(err)).Inc()
	if err != nil {
		return o, err
	}

	o.Status = order.StatusCompleted
	o.UpdatedAt = now
	d.publish(ctx, o.ID, order.EventOrderApproved, order.OrderApproved{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		Automatic:   automatic,
		ApprovedAt:  now,
	})
	return o, nil
}

// runSteps applies the steps the record has not seen yet, saving the
// record after each one
func (d *Dispatcher) runSteps(ctx context.Context, o order.Order, rec *store.ApprovalRecord, now time.Time) error {
	if !rec.StatusApplied {
		if err := d.markStatus(ctx, o.ID, order.StatusCompleted, now); err != nil {
			return err
		}
		rec.StatusApplied = true
		d.checkpoint(ctx, rec)
	}

	if !rec.StockApplied {
		applied, err := d.applyStock(ctx, o, rec.StockItemsApplied)
		rec.StockItemsApplied = applied
		if err != nil {
			return err
		}
		rec.StockApplied = true
		d.checkpoint(ctx, rec)
	}

	if rec.ShipmentID == "" {
		id, err := d.DispatchToShipper(ctx, o)
		if err != nil {
			return err
		}
		rec.ShipmentID = id
		d.checkpoint(ctx, rec)
	}
	return nil
}

func (d *Dispatcher) checkpoint(ctx context.Context, rec *store.ApprovalRecord) {
	rec.UpdatedAt = d.now()
	if err := d.ledger.Save(ctx, rec); err != nil {
		log.Printf("[Dispatcher] Failed to checkpoint approval of order %s: %v", rec.OrderID, err)
	}
}
