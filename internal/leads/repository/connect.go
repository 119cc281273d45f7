package repository

import (
	"context"
	"fmt"
	"time"

	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
	"crm_backend/platform/mongodb"
)

// Connection is an opened document store.
type Connection struct {
	Stores Stores
	// Health is nil for the in-memory driver.
	Health HealthChecker
	close  func()
}

// Close releases the underlying database connection.
func (c *Connection) Close() {
	if c != nil && c.close != nil {
		c.close()
	}
}

// Connect opens the store selected by STORE_DRIVER and prepares its schema:
// indices for mongo, migrations for postgres.
func Connect(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*Connection, error) {
	switch cfg.GetStoreDriver() {
	case config.StoreDriverMongo:
		client, err := mongodb.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client.Database())
		if err := store.EnsureIndices(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info("mongodb store ready", "database", cfg.GetMongoDatabase())
		return &Connection{
			Stores: store.Stores(),
			Health: client,
			close: func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(shutdownCtx)
			},
		}, nil

	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("postgres store ready")
		store := NewPostgresStore(pool)
		return &Connection{Stores: store.Stores(), Health: store, close: pool.Close}, nil

	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return &Connection{Stores: NewMemoryStore().Stores()}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.GetStoreDriver())
	}
}
