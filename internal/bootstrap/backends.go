// Package bootstrap opens the storage and messaging backends selected by
// configuration. Empty settings fall back to in-process implementations.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/example/vendor-ops/internal/config"
	"github.com/example/vendor-ops/internal/fulfillment"
	"github.com/example/vendor-ops/internal/infrastructure/kafka"
	"github.com/example/vendor-ops/internal/infrastructure/store"
)

type Backends struct {
	Docs      store.DocumentStoreInterface
	KV        store.KeyValueStoreInterface
	Ledger    store.ApprovalLedgerInterface
	Publisher fulfillment.EventPublisher

	closers []func() error
}

// Open connects every backend. On error, anything already opened is closed.
func Open(ctx context.Context, cfg *config.Config, component string) (*Backends, error) {
	b := &Backends{}
	if err := b.open(ctx, cfg, component); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backends) open(ctx context.Context, cfg *config.Config, component string) error {
	if cfg.Mongo.URI != "" {
		docs, err := store.NewMongoDocumentStore(ctx, cfg.Mongo.URI, cfg.Mongo.DB, cfg.Mongo.StrictCollections)
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		b.Docs = docs
		b.closers = append(b.closers, docs.Close)
		log.Printf("[%s] Document store: MongoDB (%s)", component, cfg.Mongo.DB)
	} else {
		b.Docs = store.NewMemoryDocumentStore(cfg.Mongo.StrictCollections)
		log.Printf("[%s] Document store: in-memory", component)
	}

	if cfg.Dynamo.Table != "" {
		client, err := store.NewDynamoClient(ctx, cfg.Dynamo.Region, cfg.Dynamo.Endpoint)
		if err != nil {
			return fmt.Errorf("create DynamoDB client: %w", err)
		}
		b.KV = store.NewDynamoKeyValueStore(client, cfg.Dynamo.Table)
		log.Printf("[%s] Vendor cache: DynamoDB (%s)", component, cfg.Dynamo.Table)
	} else {
		b.KV = store.NewMemoryKeyValueStore()
		log.Printf("[%s] Vendor cache: in-memory", component)
	}

	if cfg.Postgres.URL != "" {
		db, err := store.ConnectPostgres(cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		ledger := store.NewPostgresApprovalLedger(db)
		if err := ledger.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("create approval ledger schema: %w", err)
		}
		b.Ledger = ledger
		log.Printf("[%s] Approval ledger: PostgreSQL", component)
	} else {
		b.Ledger = store.NewMemoryApprovalLedger()
		log.Printf("[%s] Approval ledger: in-memory", component)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		b.Publisher = producer
		b.closers = append(b.closers, producer.Close)
		log.Printf("[%s] Kafka: %v (topic %s)", component, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		log.Printf("[%s] Kafka: disabled", component)
	}
	return nil
}

// DispatcherOptions returns the options that wire the publisher, if any
func (b *Backends) DispatcherOptions() []fulfillment.Option {
	if b.Publisher == nil {
		return nil
	}
	return []fulfillment.Option{fulfillment.WithPublisher(b.Publisher)}
}

// Close releases backends in reverse order of opening
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Printf("[Bootstrap] Close error: %v", err)
		}
	}
	b.closers = nil
}
