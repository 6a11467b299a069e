package query

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/infrastructure/store"
)

// Aggregator joins transactions with their users and products into order views
type Aggregator struct {
	docs store.DocumentStoreInterface
	now  func() time.Time
}

func NewAggregator(docs store.DocumentStoreInterface) *Aggregator {
	return &Aggregator{
		docs: docs,
		now:  time.Now,
	}
}

// WithClock replaces the time source used for missing timestamps
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Load returns the orders of a vendor, in stored transaction order.
// Any fetch failure fails the whole load.
func (a *Aggregator) Load(ctx context.Context, vendorID string) ([]order.Order, error) {
	txDocs, err := a.docs.GetDocuments(ctx, order.CollectionTransactions)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	userDocs, err := a.docs.GetDocuments(ctx, order.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	productDocs, err := a.docs.GetDocuments(ctx, order.CollectionProducts)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	users := make(map[string]order.User, len(userDocs))
	for _, doc := range userDocs {
		u := order.UserFromDocument(doc)
		users[u.ID] = u
	}
	products := make(map[string]order.Product, len(productDocs))
	for _, doc := range productDocs {
		p := order.ProductFromDocument(doc)
		products[p.ID] = p
	}

	var txs []order.Transaction
	for _, doc := range txDocs {
		if doc.String("storeName") != vendorID {
			continue
		}
		txs = append(txs, order.TransactionFromDocument(doc))
	}

	now := a.now()
	orders := make([]order.Order, len(txs))

	var wg sync.WaitGroup
	for i, tx := range txs {
		wg.Add(1)
		go func(i int, tx order.Transaction) {
			defer wg.Done()
			var user *order.User
			if u, ok := users[tx.UserID]; ok {
				user = &u
			}
			orders[i] = order.FromTransaction(tx, user, products, now)
		}(i, tx)
	}
	wg.Wait()

	log.Printf("[Aggregator] Loaded %d orders for vendor %s (%d transactions scanned)", len(orders), vendorID, len(txDocs))
	return orders, nil
}

// Get loads a single order of a vendor
func (a *Aggregator) Get(ctx context.Context, vendorID, orderID string) (order.Order, bool, error) {
	orders, err := a.Load(ctx, vendorID)
	if err != nil {
		return order.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, true, nil
		}
	}
	return order.Order{}, false, nil
}
