package store

import (
	"context"
	"sync"
	"time"
)

// ApprovalRecord tracks which effects of an order approval have been
// applied. The order id is the idempotency key.
type ApprovalRecord struct {
	OrderID           string    `json:"order_id"`
	StatusApplied     bool      `json:"status_applied"`
	StockItemsApplied int       `json:"stock_items_applied"`
	StockApplied      bool      `json:"stock_applied"`
	ShipmentID        string    `json:"shipment_id,omitempty"`
	Attempts          int       `json:"attempts"`
	LastError         string    `json:"last_error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Completed reports whether every approval effect has been applied
func (r *ApprovalRecord) Completed() bool {
	return r.StatusApplied && r.StockApplied && r.ShipmentID != ""
}

// MemoryApprovalLedger keeps approval records in process memory
type MemoryApprovalLedger struct {
	mu      sync.RWMutex
	records map[string]ApprovalRecord
}

func NewMemoryApprovalLedger() *MemoryApprovalLedger {
	return &MemoryApprovalLedger{
		records: make(map[string]ApprovalRecord),
	}
}

func (l *MemoryApprovalLedger) Get(ctx context.Context, orderID string) (*ApprovalRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[orderID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

func (l *MemoryApprovalLedger) Save(ctx context.Context, record *ApprovalRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[record.OrderID] = *record
	return nil
}
