// Package mongodb provides the MongoDB storage backend. Document items are
// embedded in their document, so a document is stored with a single write.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"inventory/pkg/logger"
)

const (
	counterCollection  = "counters"
	productCollection  = "products"
	documentCollection = "documents"
)

// Unique index names, matched against duplicate key errors.
const (
	counterNameIndex       = "counters_name_key"
	productCodeIndex       = "products_code_key"
	documentReferenceIndex = "documents_reference_key"
	documentSequenceIndex  = "documents_concept_consecutive_key"
)

// Config holds connection settings.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DefaultConfig returns defaults for a local server.
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		Database:       "inventory",
		ConnectTimeout: 10 * time.Second,
	}
}

// Client wraps the driver client and the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials the server, pings it and ensures the indexes exist.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("inventory")
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	c := &Client{client: client, db: client.Database(cfg.Database)}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info(ctx, "connected to mongodb", "database", cfg.Database)
	return c, nil
}

// Ping checks the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// indexSpecs lists the unique indexes the repositories rely on.
func indexSpecs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		counterCollection: {{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(counterNameIndex),
		}},
		productCollection: {{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(productCodeIndex),
		}},
		documentCollection: {
			{
				Keys:    bson.D{{Key: "reference", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(documentReferenceIndex),
			},
			{
				Keys:    bson.D{{Key: "concept", Value: 1}, {Key: "consecutive", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(documentSequenceIndex),
			},
			{
				Keys:    bson.D{{Key: "concept", Value: 1}, {Key: "datetime", Value: -1}},
				Options: options.Index().SetName("documents_concept_datetime_idx"),
			},
		},
	}
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	for coll, models := range indexSpecs() {
		if _, err := c.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
