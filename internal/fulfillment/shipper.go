package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/metrics"
)

// PlaceholderID is the id of the marker document that creates the
// shipper collection
const PlaceholderID = "_placeholder"

// DispatchToShipper appends the shipment record for o and returns its id.
// An existing shipment for the same order id is reused instead. A missing
// shipper collection is created with a placeholder document and the append
// is retried once.
func (d *Dispatcher) DispatchToShipper(ctx context.Context, o order.Order) (string, error) {
	existing, err := d.findShipment(ctx, o.ID)
	if err != nil {
		return "", err
	}
	if existing != "" {
		log.Printf("[Dispatcher] Order %s already has shipment %s", o.ID, existing)
		return existing, nil
	}

	now := d.now()
	shipment := order.NewShipperOrder(o, now)

	created, err := d.docs.AddDocument(ctx, order.CollectionShipperOrders, shipment.Document())
	if errors.Is(err, store.ErrCollectionNotFound) {
		log.Printf("[Dispatcher] Collection %s missing, creating it", order.CollectionShipperOrders)
		if err := d.docs.SetDocument(ctx, order.CollectionShipperOrders, PlaceholderID, store.Document{
			"placeholder": true,
			"createdAt":   now,
		}); err != nil {
			return "", fmt.Errorf("create %s: %w", order.CollectionShipperOrders, err)
		}
		metrics.CollectionBootstraps.Inc()
		created, err = d.docs.AddDocument(ctx, order.CollectionShipperOrders, shipment.Document())
	}
	if err != nil {
		return "", fmt.Errorf("append shipment for order %s: %w", o.ID, err)
	}

	metrics.ShipmentsDispatched.Inc()
	log.Printf("[Dispatcher] Shipment %s ready to ship for order %s", created.ID(), o.ID)

	d.publish(ctx, o.ID, order.EventShipmentDispatched, order.ShipmentDispatched{
		OrderID:       o.ID,
		ShipmentID:    created.ID(),
		CustomerEmail: o.CustomerEmail,
		Shipment:      shipment,
		DispatchedAt:  now,
	})
	return created.ID(), nil
}

// findShipment returns the id of the shipment recorded for orderID, or ""
func (d *Dispatcher) findShipment(ctx context.Context, orderID string) (string, error) {
	docs, err := d.docs.GetDocuments(ctx, order.CollectionShipperOrders)
	if errors.Is(err, store.ErrCollectionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("look up shipment for order %s: %w", orderID, err)
	}
	for _, doc := range docs {
		if doc.ID() != PlaceholderID && doc.String("orderId") == orderID {
			return doc.ID(), nil
		}
	}
	return "", nil
}
