package approval

import (
	"testing"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestOrder(total int64, age time.Duration, quantities ...int) order.Order {
	items := make([]order.OrderItem, len(quantities))
	for i, q := range quantities {
		items[i] = order.OrderItem{ProductID: "p", Quantity: q}
	}
	return order.Order{
		ID:          "o-1",
		Items:       items,
		TotalAmount: decimal.NewFromInt(total),
		Status:      order.StatusPending,
		CreatedAt:   now.Add(-age),
	}
}

func TestPolicy_Eligible(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.Eligible(newTestOrder(5_000_000, 0, 50, 40)))
	assert.False(t, p.Eligible(newTestOrder(200_000_000, 0, 50, 40)))
}

func TestPolicy_Eligible_Boundaries(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.Eligible(newTestOrder(100_000_000, 0, 100)))
	assert.False(t, p.Eligible(newTestOrder(100_000_001, 0, 100)))
	assert.False(t, p.Eligible(newTestOrder(1, 0, 60, 41)))
	assert.True(t, p.Eligible(newTestOrder(0, 0)))
}

func TestPolicy_Due_Timing(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.Due(newTestOrder(5_000_000, 4*time.Minute, 50, 40), now))
	assert.True(t, p.Due(newTestOrder(5_000_000, 6*time.Minute, 50, 40), now))
	assert.True(t, p.Due(newTestOrder(5_000_000, 5*time.Minute, 50, 40), now))
}

func TestPolicy_Due_OnlyPending(t *testing.T) {
	p := DefaultPolicy()
	o := newTestOrder(5_000_000, time.Hour, 1)

	for _, s := range []order.Status{order.StatusProcessing, order.StatusCompleted, order.StatusCancelled} {
		o.Status = s
		assert.False(t, p.Due(o, now), string(s))
	}
}

func TestPolicy_SelectDue(t *testing.T) {
	p := DefaultPolicy()
	young := newTestOrder(5_000_000, 4*time.Minute, 50, 40)
	young.ID = "young"
	old := newTestOrder(5_000_000, 6*time.Minute, 50, 40)
	old.ID = "old"
	big := newTestOrder(200_000_000, time.Hour, 1)
	big.ID = "big"

	due := p.SelectDue([]order.Order{young, old, big}, now)

	require.Len(t, due, 1)
	assert.Equal(t, "old", due[0].ID)
}

func TestPolicy_Custom(t *testing.T) {
	p := Policy{MaxQuantity: 5, MaxTotalAmount: decimal.NewFromInt(10), Delay: time.Minute}

	assert.True(t, p.Due(newTestOrder(10, time.Minute, 5), now))
	assert.False(t, p.Due(newTestOrder(10, time.Minute, 6), now))
}
