package mocks

import (
	"context"
	"sync"

	"github.com/example/vendor-ops/internal/infrastructure/store"
)

// MockDocumentStore is a mock implementation of DocumentStoreInterface for testing.
// It keeps data in a MemoryDocumentStore and records every call.
type MockDocumentStore struct {
	mu      sync.Mutex
	backing *store.MemoryDocumentStore

	// For tracking calls in tests
	GetCalls    []GetCall
	AddCalls    []AddCall
	UpdateCalls []UpdateCall
	SetCalls    []SetCall

	// Error injection. GetErr and UpdateErr are keyed by collection.
	// AddErrs holds a queue of errors per collection, consumed one per
	// call; a nil entry lets the call through.
	GetErr    map[string]error
	UpdateErr map[string]error
	AddErrs   map[string][]error
	SetErr    error
}

// GetCall records parameters passed to GetDocuments
type GetCall struct {
	Collection string
}

// AddCall records parameters passed to AddDocument
type AddCall struct {
	Collection string
	Data       store.Document
}

// UpdateCall records parameters passed to UpdateDocument
type UpdateCall struct {
	Collection string
	ID         string
	Data       store.Document
}

// SetCall records parameters passed to SetDocument
type SetCall struct {
	Collection string
	ID         string
	Data       store.Document
}

// NewMockDocumentStore creates a new MockDocumentStore. With strict
// collections, appends to collections that hold no documents fail with
// store.ErrCollectionNotFound.
func NewMockDocumentStore(strictCollections bool) *MockDocumentStore {
	return &MockDocumentStore{
		backing:   store.NewMemoryDocumentStore(strictCollections),
		GetErr:    make(map[string]error),
		UpdateErr: make(map[string]error),
		AddErrs:   make(map[string][]error),
	}
}

func (m *MockDocumentStore) GetDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, GetCall{Collection: collection})
	err := m.GetErr[collection]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.backing.GetDocuments(ctx, collection)
}

func (m *MockDocumentStore) AddDocument(ctx context.Context, collection string, data store.Document) (store.Document, error) {
	m.mu.Lock()
	m.AddCalls = append(m.AddCalls, AddCall{Collection: collection, Data: data})
	var err error
	if queue := m.AddErrs[collection]; len(queue) > 0 {
		err = queue[0]
		m.AddErrs[collection] = queue[1:]
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.backing.AddDocument(ctx, collection, data)
}

func (m *MockDocumentStore) UpdateDocument(ctx context.Context, collection, id string, data store.Document) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{Collection: collection, ID: id, Data: data})
	err := m.UpdateErr[collection]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.backing.UpdateDocument(ctx, collection, id, data)
}

func (m *MockDocumentStore) SetDocument(ctx context.Context, collection, id string, data store.Document) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, SetCall{Collection: collection, ID: id, Data: data})
	err := m.SetErr
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.backing.SetDocument(ctx, collection, id, data)
}

// Seed stores documents directly without recording calls
func (m *MockDocumentStore) Seed(collection string, docs ...store.Document) {
	for _, doc := range docs {
		_ = m.backing.SetDocument(context.Background(), collection, doc.ID(), doc)
	}
}

// Documents returns the stored documents of a collection without recording the call
func (m *MockDocumentStore) Documents(collection string) []store.Document {
	docs, _ := m.backing.GetDocuments(context.Background(), collection)
	return docs
}

// Document returns one stored document by id without recording the call
func (m *MockDocumentStore) Document(collection, id string) (store.Document, bool) {
	for _, doc := range m.Documents(collection) {
		if doc.ID() == id {
			return doc, true
		}
	}
	return nil, false
}

// UpdatesTo returns the recorded updates for a collection
func (m *MockDocumentStore) UpdatesTo(collection string) []UpdateCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []UpdateCall
	for _, c := range m.UpdateCalls {
		if c.Collection == collection {
			calls = append(calls, c)
		}
	}
	return calls
}

// AddsTo returns the recorded appends for a collection
func (m *MockDocumentStore) AddsTo(collection string) []AddCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []AddCall
	for _, c := range m.AddCalls {
		if c.Collection == collection {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset clears recorded calls and injected errors
func (m *MockDocumentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = nil
	m.AddCalls = nil
	m.UpdateCalls = nil
	m.SetCalls = nil
	m.GetErr = make(map[string]error)
	m.UpdateErr = make(map[string]error)
	m.AddErrs = make(map[string][]error)
	m.SetErr = nil
}
