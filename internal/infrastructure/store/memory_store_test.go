package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// MemoryDocumentStore Tests
// ============================================

func TestMemoryDocumentStore_AddAndGet(t *testing.T) {
	s := NewMemoryDocumentStore(false)
	ctx := context.Background()

	created, err := s.AddDocument(ctx, "transactions", Document{"storeName": "v1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID())

	docs, err := s.GetDocuments(ctx, "transactions")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, created.ID(), docs[0].ID())
	assert.Equal(t, "v1", docs[0].String("storeName"))
}

func TestMemoryDocumentStore_GetMissingCollection(t *testing.T) {
	s := NewMemoryDocumentStore(true)

	docs, err := s.GetDocuments(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryDocumentStore_StrictAddRequiresCollection(t *testing.T) {
	s := NewMemoryDocumentStore(true)
	ctx := context.Background()

	_, err := s.AddDocument(ctx, "shipper_orders", Document{"a": 1})
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	require.NoError(t, s.SetDocument(ctx, "shipper_orders", "_init", Document{"placeholder": true}))

	_, err = s.AddDocument(ctx, "shipper_orders", Document{"a": 1})
	assert.NoError(t, err)
	assert.Equal(t, []string{"shipper_orders"}, s.Collections())
}

func TestMemoryDocumentStore_UpdateMerges(t *testing.T) {
	s := NewMemoryDocumentStore(false)
	ctx := context.Background()
	require.NoError(t, s.SetDocument(ctx, "transactions", "t1", Document{"status": "pending", "totalAmount": 10}))

	err := s.UpdateDocument(ctx, "transactions", "t1", Document{"status": "completed"})
	require.NoError(t, err)

	docs, _ := s.GetDocuments(ctx, "transactions")
	require.Len(t, docs, 1)
	assert.Equal(t, "completed", docs[0].String("status"))
	assert.Equal(t, 10, docs[0].Int("totalAmount"))
}

func TestMemoryDocumentStore_UpdateMissing(t *testing.T) {
	s := NewMemoryDocumentStore(false)

	err := s.UpdateDocument(context.Background(), "transactions", "nope", Document{"status": "completed"})

	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestMemoryDocumentStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryDocumentStore(false)
	ctx := context.Background()
	require.NoError(t, s.SetDocument(ctx, "users", "u1", Document{"fullName": "An"}))

	docs, _ := s.GetDocuments(ctx, "users")
	docs[0]["fullName"] = "changed"

	again, _ := s.GetDocuments(ctx, "users")
	assert.Equal(t, "An", again[0].String("fullName"))
}

func TestMemoryDocumentStore_KeepsInsertionOrder(t *testing.T) {
	s := NewMemoryDocumentStore(false)
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.SetDocument(ctx, "products", id, Document{}))
	}

	docs, _ := s.GetDocuments(ctx, "products")

	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].ID())
	assert.Equal(t, "a", docs[1].ID())
	assert.Equal(t, "b", docs[2].ID())
}

// ============================================
// MemoryKeyValueStore Tests
// ============================================

func TestMemoryKeyValueStore(t *testing.T) {
	kv := NewMemoryKeyValueStore()
	ctx := context.Background()

	_, ok, err := kv.GetItem(ctx, "vendorId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.SetItem(ctx, "vendorId", "v1"))
	v, ok, err := kv.GetItem(ctx, "vendorId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	require.NoError(t, kv.RemoveItem(ctx, "vendorId"))
	_, ok, _ = kv.GetItem(ctx, "vendorId")
	assert.False(t, ok)
}

// ============================================
// MemoryApprovalLedger Tests
// ============================================

func TestMemoryApprovalLedger(t *testing.T) {
	ledger := NewMemoryApprovalLedger()
	ctx := context.Background()

	_, err := ledger.Get(ctx, "o1")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	rec := &ApprovalRecord{OrderID: "o1", StatusApplied: true}
	require.NoError(t, ledger.Save(ctx, rec))

	got, err := ledger.Get(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, got.StatusApplied)
	assert.False(t, got.Completed())

	got.StockApplied = true
	got.ShipmentID = "s1"
	assert.True(t, got.Completed())

	stored, _ := ledger.Get(ctx, "o1")
	assert.False(t, stored.Completed(), "ledger must return copies")
}
