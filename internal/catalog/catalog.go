package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"

	StatusActive = "active"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Categories  []string        `json:"categories"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Category struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	ParentID      string      `json:"parentId,omitempty"`
	ParentName    string      `json:"parentName,omitempty"`
	SubCategories []*Category `json:"subCategories"`
}

// Filter narrows a product listing. Empty fields match everything.
type Filter struct {
	Category string
	Query    string
}

// ProductFromDocument decodes a product, applying catalogue defaults
func ProductFromDocument(doc store.Document, now time.Time) Product {
	p := Product{
		ID:          doc.ID(),
		Name:        doc.String("name"),
		Description: doc.String("description"),
		Price:       doc.Decimal("price"),
		Stock:       doc.Int("stock"),
		Images:      doc.Strings("images"),
		Categories:  doc.Strings("categories"),
		Status:      doc.String("status"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if t, ok := doc.Time("createdAt"); ok {
		p.CreatedAt = t
	}
	if t, ok := doc.Time("updatedAt"); ok {
		p.UpdatedAt = t
	}
	return p
}

// Matches reports whether the product passes the filter
func (f Filter) Matches(p Product) bool {
	if f.Category != "" && !contains(p.Categories, f.Category) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}
	return true
}

// Service reads the product catalogue
type Service struct {
	docs store.DocumentStoreInterface
	now  func() time.Time
}

func NewService(docs store.DocumentStoreInterface) *Service {
	return &Service{docs: docs, now: time.Now}
}

func (s *Service) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	docs, err := s.docs.GetDocuments(ctx, CollectionProducts)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	now := s.now()
	products := make([]Product, 0, len(docs))
	for _, doc := range docs {
		p := ProductFromDocument(doc, now)
		if f.Matches(p) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	docs, err := s.docs.GetDocuments(ctx, CollectionProducts)
	if err != nil {
		return Product{}, fmt.Errorf("fetch products: %w", err)
	}
	for _, doc := range docs {
		if doc.ID() == id {
			return ProductFromDocument(doc, s.now()), nil
		}
	}
	return Product{}, ErrProductNotFound
}

// CategoryTree returns the root categories with their descendants attached.
// Categories whose parent does not exist are dropped.
func (s *Service) CategoryTree(ctx context.Context) ([]*Category, error) {
	docs, err := s.docs.GetDocuments(ctx, CollectionCategories)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return BuildTree(docs), nil
}

func BuildTree(docs []store.Document) []*Category {
	nodes := make(map[string]*Category, len(docs))
	for _, doc := range docs {
		nodes[doc.ID()] = &Category{
			ID:            doc.ID(),
			Name:          doc.String("name"),
			ParentID:      doc.String("parentId"),
			ParentName:    doc.String("parentName"),
			SubCategories: []*Category{},
		}
	}

	roots := []*Category{}
	for _, doc := range docs {
		node := nodes[doc.ID()]
		if node.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[node.ParentID]; ok {
			parent.SubCategories = append(parent.SubCategories, node)
		}
	}
	return roots
}

// FindCategory searches the tree depth-first for a category by name or id
func FindCategory(tree []*Category, nameOrID string) (*Category, bool) {
	for _, c := range tree {
		if c.Name == nameOrID || c.ID == nameOrID {
			return c, true
		}
		if found, ok := FindCategory(c.SubCategories, nameOrID); ok {
			return found, true
		}
	}
	return nil, false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
