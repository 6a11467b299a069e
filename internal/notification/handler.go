package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/email"
)

// Mailer sends customer emails
type Mailer interface {
	SendShipmentDispatched(to string, shipment order.ShipperOrder) error
	SendOrderCancelled(to string, e order.OrderCancelled) error
}

// Handler processes order events for sending customer notifications
type Handler struct {
	mailer Mailer
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case order.EventShipmentDispatched:
		return h.handleShipmentDispatched(event)
	case order.EventOrderCancelled:
		return h.handleOrderCancelled(event)
	}
	return nil
}

func (h *Handler) handleShipmentDispatched(event order.Event) error {
	var e order.ShipmentDispatched
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal ShipmentDispatched event: %v", err)
		return err
	}

	if !email.Deliverable(e.CustomerEmail) {
		log.Printf("[Notifier] No deliverable address for order %s, skipping shipment email", e.OrderID)
		return nil
	}

	if err := h.mailer.SendShipmentDispatched(e.CustomerEmail, e.Shipment); err != nil {
		log.Printf("[Notifier] Failed to send shipment email to %s: %v", e.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Shipment email sent to %s for order %s", e.CustomerEmail, e.OrderID)
	return nil
}

func (h *Handler) handleOrderCancelled(event order.Event) error {
	var e order.OrderCancelled
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCancelled event: %v", err)
		return err
	}

	if !email.Deliverable(e.CustomerEmail) {
		log.Printf("[Notifier] No deliverable address for order %s, skipping cancellation email", e.OrderID)
		return nil
	}

	if err := h.mailer.SendOrderCancelled(e.CustomerEmail, e); err != nil {
		log.Printf("[Notifier] Failed to send cancellation email to %s: %v", e.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Cancellation email sent to %s for order %s", e.CustomerEmail, e.OrderID)
	return nil
}
