package fulfillment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/infrastructure/store/mocks"
	"github.com/example/vendor-ops/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ApproveAndDispatch Tests
// ============================================

func TestApproveAndDispatch_Success(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	ctx := context.Background()

	o, err := d.ApproveAndDispatch(ctx, newTestOrder(3))

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)
	assert.Equal(t, "completed", statusOf(t, deps.docs, "t1"))
	assert.Equal(t, 7, stockOf(t, deps.docs, "u1"))
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)

	rec, err := deps.ledger.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, rec.Completed())
	assert.Equal(t, 1, rec.Attempts)
	assert.Empty(t, rec.LastError)

	n, _ := deps.notices.Last()
	assert.Equal(t, notification.MsgApproved, n.Message)
}

func TestApproveAndDispatch_StatusBeforeDispatch(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)

	_, err := d.ApproveAndDispatch(context.Background(), newTestOrder(3))
	require.NoError(t, err)

	statusUpdates := deps.docs.UpdatesTo(order.CollectionTransactions)
	require.Len(t, statusUpdates, 1)
	require.Len(t, deps.docs.AddCalls, 1)
	assert.Equal(t, order.CollectionTransactions, deps.docs.UpdateCalls[0].Collection,
		"status update is the first write")
}

func TestApproveAndDispatch_ExactlyOnce(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	ctx := context.Background()

	_, err := d.ApproveAndDispatch(ctx, newTestOrder(3))
	require.NoError(t, err)
	o, err := d.ApproveAndDispatch(ctx, newTestOrder(3))
	require.NoError(t, err)

	assert.Equal(t, order.StatusCompleted, o.Status)
	assert.Equal(t, 7, stockOf(t, deps.docs, "u1"))
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)
}

func TestApproveAndDispatch_CompletedWithoutRecordIsNoop(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	ctx := context.Background()
	completed := newTestOrder(3)
	completed.Status = order.StatusCompleted

	o, err := d.ApproveAndDispatch(ctx, completed)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)
	assert.Equal(t, 10, stockOf(t, deps.docs, "u1"))
	assert.Empty(t, deps.docs.Documents(order.CollectionShipperOrders))
	_, err = deps.ledger.Get(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestApproveAndDispatch_ConcurrentCallsShipOnce(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.ApproveAndDispatch(ctx, newTestOrder(3))
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, stockOf(t, deps.docs, "u1"))
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)
}

func TestApproveAndDispatch_ResumesAfterDispatchFailure(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	ctx := context.Background()
	deps.docs.AddErrs[order.CollectionShipperOrders] = []error{errors.New("shipper down")}

	o, err := d.ApproveAndDispatch(ctx, newTestOrder(3))

	require.Error(t, err)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "completed", statusOf(t, deps.docs, "t1"), "no rollback of applied steps")
	assert.Equal(t, 7, stockOf(t, deps.docs, "u1"))

	rec, err := deps.ledger.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, rec.StatusApplied)
	assert.True(t, rec.StockApplied)
	assert.Empty(t, rec.ShipmentID)
	assert.Contains(t, rec.LastError, "shipper down")

	n, _ := deps.notices.Last()
	assert.Equal(t, notification.MsgApproveFailed, n.Message)

	o, err = d.ApproveAndDispatch(ctx, newTestOrder(3))

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status)
	assert.Equal(t, 7, stockOf(t, deps.docs, "u1"), "stock not decremented twice")
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 1)
	assert.Len(t, deps.docs.UpdatesTo(order.CollectionTransactions), 1, "status not rewritten")

	rec, _ = deps.ledger.Get(ctx, "t1")
	assert.Equal(t, 2, rec.Attempts)
	assert.Empty(t, rec.LastError)
}

// shipmentSaveFailingLedger rejects the next `failures` saves of a record
// that carries a shipment id
type shipmentSaveFailingLedger struct {
	*store.MemoryApprovalLedger
	failures int
}

func (l *shipmentSaveFailingLedger) Save(ctx context.Context, rec *store.ApprovalRecord) error {
	if rec.ShipmentID != "" && l.failures > 0 {
		l.failures--
		return errors.New("ledger unavailable")
	}
	return l.MemoryApprovalLedger.Save(ctx, rec)
}

func TestApproveAndDispatch_LostShipmentRecordDoesNotShipTwice(t *testing.T) {
	ledger := &shipmentSaveFailingLedger{MemoryApprovalLedger: store.NewMemoryApprovalLedger(), failures: 2}
	docs := mocks.NewMockDocumentStore(false)
	d := NewDispatcher(docs, ledger, WithClock(func() time.Time { return testNow }))
	seedTransaction(docs, 10)
	ctx := context.Background()

	o, err := d.ApproveAndDispatch(ctx, newTestOrder(3))

	require.NoError(t, err, "effects are applied even though the ledger missed the shipment")
	assert.Equal(t, order.StatusCompleted, o.Status)
	rec, err := ledger.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, rec.ShipmentID)

	_, err = d.ApproveAndDispatch(ctx, newTestOrder(3))

	require.NoError(t, err)
	shipments := docs.Documents(order.CollectionShipperOrders)
	require.Len(t, shipments, 1)
	assert.Equal(t, 7, stockOf(t, docs, "u1"))
	rec, err = ledger.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, shipments[0].ID(), rec.ShipmentID)
	assert.True(t, rec.Completed())
}

func TestApproveAndDispatch_CheckpointsShipmentBeforeFinalSave(t *testing.T) {
	ledger := &shipmentSaveFailingLedger{MemoryApprovalLedger: store.NewMemoryApprovalLedger(), failures: 1}
	docs := mocks.NewMockDocumentStore(false)
	d := NewDispatcher(docs, ledger, WithClock(func() time.Time { return testNow }))
	seedTransaction(docs, 10)
	ctx := context.Background()

	_, err := d.ApproveAndDispatch(ctx, newTestOrder(3))
	require.NoError(t, err)

	rec, err := ledger.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, rec.Completed())
	assert.Len(t, docs.Documents(order.CollectionShipperOrders), 1)
}

func TestApproveAndDispatch_StatusFailureStopsEverything(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	deps.docs.UpdateErr[order.CollectionTransactions] = errors.New("down")

	_, err := d.ApproveAndDispatch(context.Background(), newTestOrder(3))

	require.Error(t, err)
	assert.Equal(t, 10, stockOf(t, deps.docs, "u1"))
	assert.Empty(t, deps.docs.AddCalls)
}

// ============================================
// ApplyAutoApprovals Tests
// ============================================

func TestApplyAutoApprovals_SkipsFailures(t *testing.T) {
	d, deps := newTestDispatcher(false)
	seedTransaction(deps.docs, 10)
	deps.docs.Seed(order.CollectionTransactions, store.Document{"id": "t2", "userId": "u2", "storeName": "v1", "status": "pending"})

	missing := newTestOrder(1)
	missing.ID = "no-such-transaction"
	second := newTestOrder(1)
	second.ID = "t2"
	second.CustomerID = "u2"

	approved := d.ApplyAutoApprovals(context.Background(), []order.Order{missing, newTestOrder(2), second})

	require.Len(t, approved, 2)
	assert.Equal(t, "t1", approved[0].ID)
	assert.Equal(t, "t2", approved[1].ID)
	for _, o := range approved {
		assert.Equal(t, order.StatusCompleted, o.Status)
	}
	assert.Len(t, deps.docs.Documents(order.CollectionShipperOrders), 2)
	assert.Empty(t, deps.notices.Notices(), "auto-approvals do not notify the operator")

	var automatic int
	for _, call := range deps.publisher.Calls() {
		if call.Event.(order.Event).EventType == order.EventOrderApproved {
			automatic++
		}
	}
	assert.Equal(t, 2, automatic)
}

func TestApplyAutoApprovals_Empty(t *testing.T) {
	d, _ := newTestDispatcher(false)

	assert.Empty(t, d.ApplyAutoApprovals(context.Background(), nil))
}
