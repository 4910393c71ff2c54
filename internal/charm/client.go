// ABOUTME: Charm KV client wrapper for cloud backup of the pillars store.
// ABOUTME: Provides thread-safe initialization and read-only detection.
package charm

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

const (
	dbName    = "pillars"
	charmHost = "charm.2389.dev"
)

// Client wraps the Charm KV store used for cloud backup.
type Client struct {
	kv *kv.KV
	mu sync.RWMutex
}

// NewClient opens the Charm KV database, pulling remote state on startup
// unless another process holds the write lock.
func NewClient() (*Client, error) {
	// Set server before opening KV
	if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
		return nil, err
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Client{kv: db}

	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode
// because another process holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// UserID returns the authenticated Charm account ID. The backup document
// is keyed by it.
func (c *Client) UserID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// set stores a value and pushes it to Charm Cloud.
func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: database is locked by another process")
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	return c.kv.Sync()
}

// get pulls remote state and returns the value for key.
func (c *Client) get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.kv.IsReadOnly() {
		if err := c.kv.Sync(); err != nil {
			return nil, fmt.Errorf("sync charm kv: %w", err)
		}
	}
	return c.kv.Get([]byte(key))
}
