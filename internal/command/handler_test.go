package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/vendor-ops/internal/approval"
	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/fulfillment"
	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/infrastructure/store/mocks"
	"github.com/example/vendor-ops/internal/notification"
	"github.com/example/vendor-ops/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	docs    *mocks.MockDocumentStore
	ledger  *store.MemoryApprovalLedger
	notices *notification.Recorder
}

func newTestHandler() (*Handler, testDeps) {
	deps := testDeps{
		docs:    mocks.NewMockDocumentStore(false),
		ledger:  store.NewMemoryApprovalLedger(),
		notices: notification.NewRecorder(),
	}
	clock := func() time.Time { return testNow }

	agg := query.NewAggregator(deps.docs).WithClock(clock)
	dispatcher := fulfillment.NewDispatcher(deps.docs, deps.ledger,
		fulfillment.WithNotifier(deps.notices),
		fulfillment.WithClock(clock),
	)
	h := NewHandler(agg, approval.DefaultPolicy(), dispatcher)
	h.now = clock
	return h, deps
}

func transaction(id, status string, created time.Time, quantity int) store.Document {
	return store.Document{
		"id": id, "userId": "u1", "storeName": "v1", "status": status,
		"totalAmount": 20000 * quantity,
		"createdAt":   created,
		"items": []any{
			map[string]any{"productId": "p1", "productName": "Gạo", "quantity": quantity, "price": 20000},
		},
	}
}

func seed(docs *mocks.MockDocumentStore) {
	docs.Seed(order.CollectionUsers,
		store.Document{"id": "u1", "fullName": "Lê An", "username": "an@example.com", "address": "Huế"},
	)
	docs.Seed(order.CollectionVendorProducts,
		store.Document{"id": "u1", "products": "Gạo", "stock": 500},
	)
	docs.Seed(order.CollectionTransactions,
		transaction("due", "pending", testNow.Add(-10*time.Minute), 2),
		transaction("fresh", "pending", testNow.Add(-time.Minute), 2),
		transaction("bulk", "pending", testNow.Add(-time.Hour), 200),
		transaction("cancelled", "cancelled", testNow.Add(-time.Hour), 1),
		transaction("processing", "processing", testNow.Add(-time.Hour), 1),
	)
}

func statusByID(orders []order.Order) map[string]order.Status {
	out := make(map[string]order.Status, len(orders))
	for _, o := range orders {
		out[o.ID] = o.Status
	}
	return out
}

// ============================================
// LoadOrders Tests
// ============================================

func TestHandler_LoadOrders_AppliesDueAutoApprovals(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)

	orders, err := h.LoadOrders(context.Background(), "v1")

	require.NoError(t, err)
	require.Len(t, orders, 5)
	assert.Equal(t, "due", orders[0].ID, "input order is preserved")
	assert.Equal(t, map[string]order.Status{
		"due":        order.StatusCompleted,
		"fresh":      order.StatusPending,
		"bulk":       order.StatusPending,
		"cancelled":  order.StatusCancelled,
		"processing": order.StatusProcessing,
	}, statusByID(orders))

	doc, _ := deps.docs.Document(order.CollectionTransactions, "due")
	assert.Equal(t, "completed", doc.String("status"))
	stock, _ := deps.docs.Document(order.CollectionVendorProducts, "u1")
	assert.Equal(t, 498, stock.Int("stock"))
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)
	assert.Empty(t, deps.notices.Notices())
}

func TestHandler_LoadOrders_MillisecondTimestampsBecomeDue(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)
	legacy := transaction("legacy", "pending", testNow, 1)
	legacy["createdAt"] = float64(testNow.Add(-10 * time.Minute).UnixMilli())
	deps.docs.Seed(order.CollectionTransactions, legacy)

	orders, err := h.LoadOrders(context.Background(), "v1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, statusByID(orders)["legacy"])
}

func TestHandler_LoadOrders_FailedAutoApprovalStaysPending(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)
	deps.docs.UpdateErr[order.CollectionTransactions] = errors.New("write refused")

	orders, err := h.LoadOrders(context.Background(), "v1")

	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, statusByID(orders)["due"])
	assert.Empty(t, deps.docs.Documents(order.CollectionShipperOrders))
}

func TestHandler_LoadOrders_SecondLoadDoesNotReapply(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)
	ctx := context.Background()

	_, err := h.LoadOrders(ctx, "v1")
	require.NoError(t, err)
	orders, err := h.LoadOrders(ctx, "v1")
	require.NoError(t, err)

	assert.Equal(t, order.StatusCompleted, statusByID(orders)["due"])
	stock, _ := deps.docs.Document(order.CollectionVendorProducts, "u1")
	assert.Equal(t, 498, stock.Int("stock"))
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)
}

func TestHandler_LoadOrders_FetchFailure(t *testing.T) {
	h, deps := newTestHandler()
	deps.docs.GetErr[order.CollectionUsers] = errors.New("timeout")

	orders, err := h.LoadOrders(context.Background(), "v1")

	assert.Error(t, err)
	assert.Nil(t, orders)
}

func TestHandler_ListOrders(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)

	pending, err := h.ListOrders(context.Background(), "v1", "", query.TabPending)

	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

// ============================================
// Transition Tests
// ============================================

func TestHandler_ApproveOrder(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)

	o, err := h.ApproveOrder(context.Background(), "v1", "fresh")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)
	n, ok := deps.notices.Last()
	require.True(t, ok)
	assert.Equal(t, notification.MsgApproved, n.Message)
}

func TestHandler_ApproveOrder_FromCancelledRejected(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)

	_, err := h.ApproveOrder(context.Background(), "v1", "cancelled")

	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Empty(t, deps.docs.UpdateCalls)
}

func TestHandler_ApproveOrder_NotFound(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)

	_, err := h.ApproveOrder(context.Background(), "other-vendor", "fresh")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestHandler_CancelOrder(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)
	ctx := context.Background()

	o, err := h.CancelOrder(ctx, "v1", "processing")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)

	o, err = h.CancelOrder(ctx, "v1", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Len(t, deps.docs.UpdateCalls, 1, "cancelling a cancelled order writes nothing")
}

func TestHandler_MarkProcessing(t *testing.T) {
	h, deps := newTestHandler()
	seed(deps.docs)
	ctx := context.Background()

	o, err := h.MarkProcessing(ctx, "v1", "fresh")
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, o.Status)

	_, err = h.MarkProcessing(ctx, "v1", "processing")
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}
