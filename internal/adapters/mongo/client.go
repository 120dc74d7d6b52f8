package mongoadapter

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client holds a MongoDB connection and the skylog database handle.
type Client struct {
	DB *mongo.Database
	c  *mongo.Client
}

// NewClient connects to uri and verifies the primary is reachable.
func NewClient(ctx context.Context, uri, db string) (*Client, error) {
	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("skylog"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{DB: cl.Database(db), c: cl}, nil
}

// Ping checks connectivity for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	return c.c.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) { _ = c.c.Disconnect(ctx) }
