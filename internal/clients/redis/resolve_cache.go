package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/utils"
)

const keyPrefix = "registry:contact:email:"

// ResolveCache keeps email -> contact UUID mappings so repeated guardians in
// a large batch skip the exact-match DB lookup. It is purely an accelerator:
// every cache error degrades to a miss.
type ResolveCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewResolveCache connects to REDIS_ADDR. Callers treat a construction error
// as "run without cache"; the batch works the same either way.
func NewResolveCache(log *logger.Logger) (*ResolveCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlMinutes := utils.GetEnvAsInt("RESOLVE_CACHE_TTL_MINUTES", 60, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ResolveCache{
		log: log.With("client", "ResolveCache"),
		rdb: rdb,
		ttl: time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func (c *ResolveCache) GetContactUUID(ctx context.Context, email string) (uuid.UUID, bool) {
	val, err := c.rdb.Get(ctx, keyPrefix+email).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache get failed, treating as miss", "error", err)
		}
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		c.log.Warn("Cache held unparsable uuid, treating as miss", "error", err)
		return uuid.Nil, false
	}
	return id, true
}

func (c *ResolveCache) SetContactUUID(ctx context.Context, email string, contactUUID uuid.UUID) {
	if err := c.rdb.Set(ctx, keyPrefix+email, contactUUID.String(), c.ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", "error", err)
	}
}

func (c *ResolveCache) InvalidateContact(ctx context.Context, email string) {
	if err := c.rdb.Del(ctx, keyPrefix+email).Err(); err != nil {
		c.log.Warn("Cache invalidate failed", "error", err)
	}
}

func (c *ResolveCache) Close() error {
	return c.rdb.Close()
}
