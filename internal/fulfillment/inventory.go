package fulfillment

import (
	"context"
	"fmt"
	"log"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
)

// InventoryMatcher decides whether an inventory record holds the stock
// for a line item of an order
type InventoryMatcher func(vp order.VendorProduct, item order.OrderItem, o order.Order) bool

// MatchByNameAndCustomer matches the record by product name and requires
// the record id to equal the order's customer id.
// TODO: switch to {productId, vendorId} once inventory ownership is confirmed.
func MatchByNameAndCustomer(vp order.VendorProduct, item order.OrderItem, o order.Order) bool {
	return vp.Products == item.ProductName && vp.ID == o.CustomerID
}

// applyStock decrements inventory for items[from:] and returns the number
// of items processed so far. Stock is allowed to go negative.
func (d *Dispatcher) applyStock(ctx context.Context, o order.Order, from int) (int, error) {
	docs, err := d.docs.GetDocuments(ctx, order.CollectionVendorProducts)
	if err != nil {
		return from, fmt.Errorf("fetch vendor products: %w", err)
	}

	inventory := make([]order.VendorProduct, len(docs))
	for i, doc := range docs {
		inventory[i] = order.VendorProductFromDocument(doc)
	}

	for i := from; i < len(o.Items); i++ {
		item := o.Items[i]
		idx := -1
		for j, vp := range inventory {
			if d.matcher(vp, item, o) {
				idx = j
				break
			}
		}
		if idx < 0 {
			continue
		}

		vp := &inventory[idx]
		newStock := vp.Stock - item.Quantity
		if err := d.docs.UpdateDocument(ctx, order.CollectionVendorProducts, vp.ID, store.Document{
			"stock": newStock,
		}); err != nil {
			return i, fmt.Errorf("update stock of %s: %w", vp.ID, err)
		}
		log.Printf("[Dispatcher] Stock of %s (%s): %d -> %d", vp.ID, vp.Products, vp.Stock, newStock)
		vp.Stock = newStock
	}
	return len(o.Items), nil
}
