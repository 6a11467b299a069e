package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryDocumentStore is an in-memory document store. With strict
// collections enabled it behaves like a backend that refuses appends to
// collections that were never created.
type MemoryDocumentStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]Document // collection -> id -> document
	order  map[string][]string            // collection -> ids in insertion order
	strict bool
}

func NewMemoryDocumentStore(strictCollections bool) *MemoryDocumentStore {
	return &MemoryDocumentStore{
		data:   make(map[string]map[string]Document),
		order:  make(map[string][]string),
		strict: strictCollections,
	}
}

// GetDocuments returns copies of all documents in insertion order
func (s *MemoryDocumentStore) GetDocuments(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.order[collection]))
	for _, id := range s.order[collection] {
		doc := s.data[collection][id].Clone()
		doc["id"] = id
		docs = append(docs, doc)
	}
	return docs, nil
}

// AddDocument stores data under a new uuid
func (s *MemoryDocumentStore) AddDocument(ctx context.Context, collection string, data Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strict && s.data[collection] == nil {
		return nil, ErrCollectionNotFound
	}

	id := uuid.New().String()
	s.put(collection, id, data)

	created := data.Clone()
	created["id"] = id
	return created, nil
}

// UpdateDocument merges fields into an existing document
func (s *MemoryDocumentStore) UpdateDocument(ctx context.Context, collection, id string, data Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[collection][id]
	if !ok {
		return ErrDocumentNotFound
	}
	for k, v := range data {
		if k == "id" {
			continue
		}
		current[k] = v
	}
	return nil
}

// SetDocument creates or replaces a document
func (s *MemoryDocumentStore) SetDocument(ctx context.Context, collection, id string, data Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(collection, id, data)
	return nil
}

// Collections lists the collections that currently exist
func (s *MemoryDocumentStore) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// put must be called with the lock held
func (s *MemoryDocumentStore) put(collection, id string, data Document) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]Document)
	}
	if _, exists := s.data[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	doc := data.Clone()
	delete(doc, "id")
	s.data[collection][id] = doc
}
