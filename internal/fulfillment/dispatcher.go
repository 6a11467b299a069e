package fulfillment

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/metrics"
	"github.com/example/vendor-ops/internal/notification"
)

// EventPublisher publishes order events; kafka.Producer satisfies it
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Dispatcher applies approval and cancellation effects to the document store
type Dispatcher struct {
	docs      store.DocumentStoreInterface
	ledger    store.ApprovalLedgerInterface
	publisher EventPublisher
	notifier  notification.Notifier
	matcher   InventoryMatcher
	now       func() time.Time

	locksMu sync.Mutex
	locks   map[string]*orderLock
}

// orderLock is a per-order mutex shared by refs callers
type orderLock struct {
	mu   sync.Mutex
	refs int
}

type Option func(*Dispatcher)

func WithPublisher(p EventPublisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

func WithNotifier(n notification.Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

func WithInventoryMatcher(m InventoryMatcher) Option {
	return func(d *Dispatcher) { d.matcher = m }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(docs store.DocumentStoreInterface, ledger store.ApprovalLedgerInterface, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		docs:     docs,
		ledger:   ledger,
		notifier: notification.LogNotifier{},
		matcher:  MatchByNameAndCustomer,
		now:      time.Now,
		locks:    make(map[string]*orderLock),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Approve marks the transaction completed and decrements inventory for
// every line item. A failing step aborts the rest; applied decrements
// stay applied.
func (d *Dispatcher) Approve(ctx context.Context, o order.Order) (order.Order, error) {
	now := d.now()
	err := d.markStatus(ctx, o.ID, order.StatusCompleted, now)
	if err == nil {
		_, err = d.applyStock(ctx, o, 0)
	}

	metrics.OrderTransitions.WithLabelValues("approve", "manual", metrics.Result(err)).Inc()
	d.notifier.Notify(ctx, notification.ApprovalNotice(o.ID, err))
	if err != nil {
		log.Printf("[Dispatcher] Failed to approve order %s: %v", o.ID, err)
		return o, err
	}

	o.Status = order.StatusCompleted
	o.UpdatedAt = now
	d.publish(ctx, o.ID, order.EventOrderApproved, order.OrderApproved{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		ApprovedAt:  now,
	})
	return o, nil
}

// Cancel marks the transaction cancelled. It has no inventory or
// shipment side effects.
func (d *Dispatcher) Cancel(ctx context.Context, o order.Order) (order.Order, error) {
	now := d.now()
	err := d.markStatus(ctx, o.ID, order.StatusCancelled, now)

	metrics.OrderTransitions.WithLabelValues("cancel", "manual", metrics.Result(err)).Inc()
	d.notifier.Notify(ctx, notification.CancellationNotice(o.ID, err))
	if err != nil {
		log.Printf("[Dispatcher] Failed to cancel order %s: %v", o.ID, err)
		return o, err
	}

	o.Status = order.StatusCancelled
	o.UpdatedAt = now
	d.publish(ctx, o.ID, order.EventOrderCancelled, order.OrderCancelled{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CancelledAt:   now,
	})
	return o, nil
}

// MarkProcessing moves an order into processing
func (d *Dispatcher) MarkProcessing(ctx context.Context, o order.Order) (order.Order, error) {
	now := d.now()
	err := d.markStatus(ctx, o.ID, order.StatusProcessing, now)

	metrics.OrderTransitions.WithLabelValues("processing", "manual", metrics.Result(err)).Inc()
	d.notifier.Notify(ctx, notification.StatusNotice(o.ID, err))
	if err != nil {
		log.Printf("[Dispatcher] Failed to update order %s: %v", o.ID, err)
		return o, err
	}

	o.Status = order.StatusProcessing
	o.UpdatedAt = now
	return o, nil
}

func (d *Dispatcher) markStatus(ctx context.Context, orderID string, status order.Status, now time.Time) error {
	err := d.docs.UpdateDocument(ctx, order.CollectionTransactions, orderID, store.Document{
		"status":    string(status),
		"updatedAt": now,
	})
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", orderID, err)
	}
	return nil
}

// publish is best effort: the store already holds the new state
func (d *Dispatcher) publish(ctx context.Context, orderID, eventType string, payload any) {
	if d.publisher == nil {
		return
	}
	event, err := order.NewEvent(orderID, eventType, payload, d.now())
	if err != nil {
		log.Printf("[Dispatcher] Failed to build %s event for order %s: %v", eventType, orderID, err)
		return
	}
	if err := d.publisher.Publish(ctx, orderID, event); err != nil {
		log.Printf("[Dispatcher] Failed to publish %s for order %s: %v", eventType, orderID, err)
	}
}

// lockOrder serializes workflows on the same order within this process.
// The entry is dropped once no caller holds or waits for it.
func (d *Dispatcher) lockOrder(orderID string) func() {
	d.locksMu.Lock()
	l, ok := d.locks[orderID]
	if !ok {
		l = &orderLock{}
		d.locks[orderID] = l
	}
	l.refs++
	d.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		d.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, orderID)
		}
		d.locksMu.Unlock()
	}
}
