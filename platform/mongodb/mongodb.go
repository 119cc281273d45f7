// Package mongodb provides MongoDB connection infrastructure.
// This is part of the platform layer and contains no business logic.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"crm_backend/platform/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps a connected MongoDB client and its application database.
type Client struct {
	mc *mongo.Client
	db *mongo.Database
}

// Connect opens a connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetServerSelectionTimeout(10 * time.Second)

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return &Client{mc: mc, db: mc.Database(cfg.GetMongoDatabase())}, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping checks connectivity for GET /api/health.
func (c *Client) Ping(ctx context.Context) error {
	return c.mc.Ping(ctx, nil)
}

// Disconnect cleanly closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}
