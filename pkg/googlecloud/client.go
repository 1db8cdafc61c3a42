package googlecloud

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/taskboard/internal/logger"
)

// Client wraps the Google Cloud Datastore client to provide board operations.
type Client struct {
	ds *datastore.Client
}

// NewClient creates a new Google Cloud Datastore client.
// The official client picks up DATASTORE_EMULATOR_HOST automatically.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		logger.InfoLog(ctx, "Initializing Datastore client against emulator at %s", emulatorHost)
	}

	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}

	return &Client{ds: ds}, nil
}

// Ping runs a keys-only query to check connectivity.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ds.GetAll(ctx, datastore.NewQuery(KindCollection).KeysOnly().Limit(1), nil)
	return err
}

// Close closes the underlying datastore client.
func (c *Client) Close() error {
	return c.ds.Close()
}
