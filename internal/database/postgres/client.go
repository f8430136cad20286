package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
)

const storeName = "postgres"

// Client is the PostgreSQL document store
type Client struct {
	pool *pgxpool.Pool
}

// NewClient wraps an already connected pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Name identifies the store in logs and metrics
func (c *Client) Name() string {
	return storeName
}

// Close closes the connection pool
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
		logger.Info("PostgreSQL connection pool closed")
	}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Stats returns connection pool statistics
func (c *Client) Stats() *pgxpool.Stat {
	return c.pool.Stat()
}

func recordMetrics(operation, status string, duration float64) {
	metrics.RecordStoreOperation(storeName, operation, status, duration)
}
