package order

import (
	"time"

	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

const ShipmentReadyToShip = "ready_to_ship"

// ShipperOrder is the shipment record handed to the shipper
type ShipperOrder struct {
	OrderID         string          `json:"orderId"`
	RecipientName   string          `json:"recipientName"`
	RecipientPhone  string          `json:"recipientPhone"`
	DeliveryAddress string          `json:"deliveryAddress"`
	ItemsSummary    []ItemSummary   `json:"itemsSummary"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShipmentStatus  string          `json:"shipmentStatus"`
	CreatedAt       time.Time       `json:"createdAt"`
	CustomerID      string          `json:"customerId"`
}

type ItemSummary struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// NewShipperOrder builds the shipment record for an approved order
func NewShipperOrder(o Order, now time.Time) ShipperOrder {
	summary := make([]ItemSummary, len(o.Items))
	for i, item := range o.Items {
		summary[i] = ItemSummary{
			ProductName: item.DisplayName(),
			Quantity:    item.Quantity,
		}
	}
	return ShipperOrder{
		OrderID:         o.ID,
		RecipientName:   o.CustomerName,
		RecipientPhone:  o.CustomerPhone,
		DeliveryAddress: o.ShippingAddress,
		ItemsSummary:    summary,
		TotalAmount:     o.TotalAmount,
		ShipmentStatus:  ShipmentReadyToShip,
		CreatedAt:       now,
		CustomerID:      o.CustomerID,
	}
}

// Document converts the shipment to its stored form. Amounts are stored
// as floats since document backends have no decimal type in common.
func (s ShipperOrder) Document() store.Document {
	items := make([]any, len(s.ItemsSummary))
	for i, item := range s.ItemsSummary {
		items[i] = map[string]any{
			"productName": item.ProductName,
			"quantity":    item.Quantity,
		}
	}
	return store.Document{
		"orderId":         s.OrderID,
		"recipientName":   s.RecipientName,
		"recipientPhone":  s.RecipientPhone,
		"deliveryAddress": s.DeliveryAddress,
		"itemsSummary":    items,
		"totalAmount":     s.TotalAmount.InexactFloat64(),
		"shipmentStatus":  s.ShipmentStatus,
		"createdAt":       s.CreatedAt,
		"customerId":      s.CustomerID,
	}
}

// VendorProduct is an inventory record. Products holds the product name.
type VendorProduct struct {
	ID       string
	Products string
	Stock    int
}

func VendorProductFromDocument(doc store.Document) VendorProduct {
	return VendorProduct{
		ID:       doc.ID(),
		Products: doc.String("products"),
		Stock:    doc.Int("stock"),
	}
}
