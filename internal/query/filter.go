package query

import (
	"strings"

	"github.com/example/vendor-ops/internal/domain/order"
)

// Tab selects which status group of orders is shown
type Tab string

const (
	TabPending    Tab = "pending"
	TabProcessing Tab = "processing"
	TabApproved   Tab = "approved"
	TabCancelled  Tab = "cancelled"
	TabAll        Tab = "all"
)

var tabStatus = map[Tab]order.Status{
	TabPending:    order.StatusPending,
	TabProcessing: order.StatusProcessing,
	TabApproved:   order.StatusCompleted,
	TabCancelled:  order.StatusCancelled,
}

// Filter returns the orders in tab whose customer name or id contains q,
// ignoring case. TabAll and the empty tab match every status; an unknown
// tab matches nothing.
func Filter(orders []order.Order, q string, tab Tab) []order.Order {
	all := tab == TabAll || tab == ""
	status, ok := tabStatus[tab]
	if !ok && !all {
		return []order.Order{}
	}

	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if !all && o.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(o.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(o.ID), needle) {
			continue
		}
		out = append(out, o)
	}
	return out
}
