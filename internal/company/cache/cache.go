// Package cache provides a Redis read-through cache in front of a company
// store. Company data changes rarely; a short TTL keeps the mapper's repeated
// lookups off the database during declaration runs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"wastetrack/internal/company"
	platformredis "wastetrack/internal/platform/redis"
	id "wastetrack/pkg/domain"
)

// Cache wraps a company.Store with Redis caching. Cache failures degrade to
// the underlying store; they are logged, never surfaced.
type Cache struct {
	next   company.Store
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(next company.Store, client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *Cache) FindByID(ctx context.Context, companyID id.CompanyID) (*company.Company, error) {
	return c.lookup(ctx, "company:id:"+companyID.String(), func() (*company.Company, error) {
		return c.next.FindByID(ctx, companyID)
	})
}

func (c *Cache) FindByChamberOfCommerceID(ctx context.Context, cocID string) (*company.Company, error) {
	return c.lookup(ctx, "company:coc:"+cocID, func() (*company.Company, error) {
		return c.next.FindByChamberOfCommerceID(ctx, cocID)
	})
}

func (c *Cache) lookup(ctx context.Context, key string, miss func() (*company.Company, error)) (*company.Company, error) {
	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var found company.Company
		if err := json.Unmarshal([]byte(cached), &found); err == nil {
			return &found, nil
		}
		// Corrupt entry: fall through to the store and overwrite.
	} else if !errors.Is(err, goredis.Nil) {
		c.logger.Warn("company cache read failed", "key", key, "error", err)
	}

	found, err := miss()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(found); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("company cache write failed", "key", key, "error", err)
		}
	}
	return found, nil
}

var _ company.Store = (*Cache)(nil)

// Invalidate drops both cache keys for a company after a directory update.
func (c *Cache) Invalidate(ctx context.Context, found *company.Company) error {
	keys := []string{
		"company:id:" + found.ID.String(),
		"company:coc:" + found.ChamberOfCommerceID,
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate company cache: %w", err)
	}
	return nil
}
