// Package valkey caches directions responses in Valkey.
package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// keyPrefix namespaces every key written by this service.
const keyPrefix = "saferoute:"

// Cache implements ports.CacheService on a Valkey (Redis-compatible) server.
type Cache struct {
	client valkey.Client
}

// New connects to the Valkey server at addr.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

// Get returns the cached value, or nil without error when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(keyPrefix+key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return b, nil
}

// Set stores value under key for ttlSeconds. A non-positive TTL is a no-op.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if ttlSeconds <= 0 {
		return nil
	}
	cmd := c.client.B().Set().Key(keyPrefix + key).Value(valkey.BinaryString(value)).
		Ex(time.Duration(ttlSeconds) * time.Second).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(keyPrefix+key).Build()).Error()
}

// Ping checks the server is reachable, for the readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
