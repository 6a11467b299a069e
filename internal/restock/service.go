package restock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/example/vendor-ops/internal/vendor"
)

const (
	CollectionImportRequests = "importRequests"

	StatusPending = "pending"
)

var (
	ErrVendorRequired  = errors.New("vendor is required")
	ErrNoItems         = errors.New("at least one item is required")
	ErrProductRequired = errors.New("every item needs a product id")
	ErrInvalidQuantity = errors.New("every item needs a positive quantity")
)

type Item struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note"`
}

// Service files stock import requests on behalf of a vendor
type Service struct {
	docs store.DocumentStoreInterface
	now  func() time.Time
}

func NewService(docs store.DocumentStoreInterface) *Service {
	return &Service{docs: docs, now: time.Now}
}

// Validate checks the whole request. Nothing is written unless it passes.
func Validate(v vendor.Vendor, items []Item) error {
	if v.ID == "" {
		return ErrVendorRequired
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("item %d: %w", i, ErrProductRequired)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// Submit writes one import request per item and returns their ids
func (s *Service) Submit(ctx context.Context, v vendor.Vendor, requestedBy string, items []Item) ([]string, error) {
	if err := Validate(v, items); err != nil {
		return nil, err
	}

	requestedAt := s.now().UTC()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		doc, err := s.docs.AddDocument(ctx, CollectionImportRequests, store.Document{
			"vendorId":      v.ID,
			"vendorName":    v.Name,
			"vendorAddress": v.Address,
			"vendorPhone":   v.Phone,
			"requestedBy":   requestedBy,
			"requestedAt":   requestedAt,
			"status":        StatusPending,
			"productId":     item.ProductID,
			"productName":   item.ProductName,
			"quantity":      item.Quantity,
			"note":          item.Note,
		})
		if err != nil {
			return ids, fmt.Errorf("create import request for product %s: %w", item.ProductID, err)
		}
		ids = append(ids, doc.ID())
	}

	log.Printf("[Restock] Vendor %s requested %d item(s)", v.ID, len(ids))
	return ids, nil
}
