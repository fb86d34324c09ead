package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

const defaultCacheTTL = time.Minute

// PrincipalCache is a short-TTL lookaside cache for the identity
// filter's per-request role re-derivation. Entries expire quickly so a
// role change propagates within the TTL window without re-login.
// Key format: principal:<username>
type PrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPrincipalCache wraps the given Redis client. A non-positive ttl
// falls back to one minute.
func NewPrincipalCache(client *redis.Client, ttl time.Duration) *PrincipalCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &PrincipalCache{client: client, ttl: ttl}
}

// Get returns the cached principal for username, if present.
func (c *PrincipalCache) Get(ctx context.Context, username string) (*domain.Principal, bool, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("principal cache get: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("principal cache decode: %w", err)
	}
	return &p, true, nil
}

// Set stores the principal snapshot (expires after the cache TTL).
func (c *PrincipalCache) Set(ctx context.Context, p *domain.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("principal cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(p.Username), raw, c.ttl).Err()
}

func (c *PrincipalCache) key(username string) string {
	return "principal:" + username
}
