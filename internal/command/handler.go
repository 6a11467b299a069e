package command

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/vendor-ops/internal/approval"
	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/fulfillment"
	"github.com/example/vendor-ops/internal/query"
)

var ErrOrderNotFound = errors.New("order not found")

type Handler struct {
	aggregator *query.Aggregator
	policy     approval.Policy
	dispatcher *fulfillment.Dispatcher
	now        func() time.Time
}

func NewHandler(
	aggregator *query.Aggregator,
	policy approval.Policy,
	dispatcher *fulfillment.Dispatcher,
) *Handler {
	return &Handler{
		aggregator: aggregator,
		policy:     policy,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// LoadOrders loads the vendor's orders and applies any auto-approvals that
// are due. Orders are reported completed only once their approval has been
// persisted; failed auto-approvals stay pending and are retried on the next load.
func (h *Handler) LoadOrders(ctx context.Context, vendorID string) ([]order.Order, error) {
	orders, err := h.aggregator.Load(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	due := h.policy.SelectDue(orders, h.now())
	if len(due) == 0 {
		return orders, nil
	}

	approved := h.dispatcher.ApplyAutoApprovals(ctx, due)
	if len(approved) > 0 {
		log.Printf("[Command] Auto-approved %d of %d due orders for vendor %s", len(approved), len(due), vendorID)
	}

	byID := make(map[string]order.Order, len(approved))
	for _, o := range approved {
		byID[o.ID] = o
	}
	for i, o := range orders {
		if updated, ok := byID[o.ID]; ok {
			orders[i] = updated
		}
	}
	return orders, nil
}

// ListOrders loads the vendor's orders and narrows them to one tab
func (h *Handler) ListOrders(ctx context.Context, vendorID, q string, tab query.Tab) ([]order.Order, error) {
	orders, err := h.LoadOrders(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return query.Filter(orders, q, tab), nil
}

func (h *Handler) GetOrder(ctx context.Context, vendorID, orderID string) (order.Order, error) {
	o, ok, err := h.aggregator.Get(ctx, vendorID, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if !ok {
		return order.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// ApproveOrder approves and dispatches an order. Approving a completed order
// resumes any unfinished dispatch and is otherwise a no-op.
func (h *Handler) ApproveOrder(ctx context.Context, vendorID, orderID string) (order.Order, error) {
	o, err := h.GetOrder(ctx, vendorID, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if err := o.CheckTransition(order.StatusCompleted); err != nil {
		return o, err
	}
	return h.dispatcher.ApproveAndDispatch(ctx, o)
}

func (h *Handler) CancelOrder(ctx context.Context, vendorID, orderID string) (order.Order, error) {
	o, err := h.GetOrder(ctx, vendorID, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if err := o.CheckTransition(order.StatusCancelled); err != nil {
		return o, err
	}
	if o.Status == order.StatusCancelled {
		return o, nil
	}
	return h.dispatcher.Cancel(ctx, o)
}

func (h *Handler) MarkProcessing(ctx context.Context, vendorID, orderID string) (order.Order, error) {
	o, err := h.GetOrder(ctx, vendorID, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if err := o.CheckTransition(order.StatusProcessing); err != nil {
		return o, err
	}
	return h.dispatcher.MarkProcessing(ctx, o)
}
