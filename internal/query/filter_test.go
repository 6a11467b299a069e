package query

import (
	"testing"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/stretchr/testify/assert"
)

func newTestOrders() []order.Order {
	return []order.Order{
		{ID: "ORD-001", CustomerName: "Nguyễn Văn A", Status: order.StatusPending},
		{ID: "ORD-002", CustomerName: "Lê Thị B", Status: order.StatusCompleted},
		{ID: "ord-003", CustomerName: "Phạm C", Status: order.StatusCancelled},
		{ID: "ORD-004", CustomerName: "nguyễn văn d", Status: order.StatusPending},
		{ID: "ORD-005", CustomerName: "Hồ E", Status: order.StatusProcessing},
	}
}

func ids(orders []order.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestFilter_Tabs(t *testing.T) {
	orders := newTestOrders()

	assert.Equal(t, []string{"ORD-001", "ORD-004"}, ids(Filter(orders, "", TabPending)))
	assert.Equal(t, []string{"ORD-002"}, ids(Filter(orders, "", TabApproved)))
	assert.Equal(t, []string{"ord-003"}, ids(Filter(orders, "", TabCancelled)))
	assert.Equal(t, []string{"ORD-005"}, ids(Filter(orders, "", TabProcessing)))
	assert.Empty(t, Filter(orders, "", Tab("archived")))
}

func TestFilter_AllTabKeepsEveryStatus(t *testing.T) {
	orders := newTestOrders()

	assert.Equal(t, []string{"ORD-001", "ORD-002", "ord-003", "ORD-004", "ORD-005"}, ids(Filter(orders, "", TabAll)))
	assert.Len(t, Filter(orders, "", Tab("")), 5)
	assert.Equal(t, []string{"ORD-001", "ORD-004"}, ids(Filter(orders, "nguyễn", TabAll)))
}

func TestFilter_QueryMatchesNameCaseInsensitive(t *testing.T) {
	orders := newTestOrders()

	assert.Equal(t, []string{"ORD-001", "ORD-004"}, ids(Filter(orders, "NGUYỄN", TabPending)))
}

func TestFilter_QueryMatchesID(t *testing.T) {
	orders := newTestOrders()

	assert.Equal(t, []string{"ord-003"}, ids(Filter(orders, "ORD-003", TabCancelled)))
	assert.Equal(t, []string{"ORD-004"}, ids(Filter(orders, "004", TabPending)))
}

func TestFilter_WhitespaceQueryIgnored(t *testing.T) {
	orders := newTestOrders()

	assert.Len(t, Filter(orders, "   ", TabPending), 2)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	orders := newTestOrders()
	before := ids(orders)

	_ = Filter(orders, "a", TabPending)

	assert.Equal(t, before, ids(orders))
}
