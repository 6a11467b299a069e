package store

import (
	"context"
	"errors"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrRecordNotFound     = errors.New("approval record not found")
)

// DocumentStoreInterface defines the remote document database the
// order workflow reads from and writes to
type DocumentStoreInterface interface {
	// GetDocuments returns every document of a collection. A collection
	// that does not exist yields an empty list.
	GetDocuments(ctx context.Context, collection string) ([]Document, error)

	// AddDocument appends a document under a generated id and returns it
	// with the id set. Returns ErrCollectionNotFound when the store
	// requires collections to exist before appending.
	AddDocument(ctx context.Context, collection string, data Document) (Document, error)

	// UpdateDocument merges the given fields into an existing document
	UpdateDocument(ctx context.Context, collection, id string, data Document) error

	// SetDocument creates or replaces the document with the given id,
	// creating the collection if needed
	SetDocument(ctx context.Context, collection, id string, data Document) error
}

// KeyValueStoreInterface is a small string cache
type KeyValueStoreInterface interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ApprovalLedgerInterface persists the progress of order approvals
type ApprovalLedgerInterface interface {
	// Get returns the record for an order or ErrRecordNotFound
	Get(ctx context.Context, orderID string) (*ApprovalRecord, error)

	// Save creates or replaces the record for record.OrderID
	Save(ctx context.Context, record *ApprovalRecord) error
}
