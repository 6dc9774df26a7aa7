package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
)

const keyNamespace = "gym"

// DashboardScope is the key prefix of cached dashboards. Writes that change dashboard
// figures drop everything under it.
const DashboardScope = "dashboard"

const scanBatch = 100

// Cache is a JSON cache over redis. A nil *Cache is valid and behaves as an always-empty
// cache, which is what the app gets when redis.addr is not configured.
type Cache struct {
	db *redis.Client
}

// New connects to redis and pings it. It returns a nil cache when no address is set.
func New(ctx context.Context, cfg cfgpkg.RedisConfig) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	db := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Key namespaces parts under the service prefix, e.g. Key("dashboard", "today") = "gym:dashboard:today".
func Key(parts ...string) string {
	k := keyNamespace
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Get decodes the value stored at key into result. found is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.db.Set(ctx, key, data, ttl).Err()
}

// InvalidatePrefix deletes every key under Key(parts...).
func (c *Cache) InvalidatePrefix(ctx context.Context, parts ...string) error {
	if !c.Enabled() {
		return nil
	}
	pattern := Key(parts...) + ":*"
	iter := c.db.Scan(ctx, 0, pattern, scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.db.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache invalidate %s: %w", pattern, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.db.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", pattern, err)
	}
	return nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.db.Close()
}

func provide(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *cfgpkg.Config) (*Cache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if !c.Enabled() {
		l.Infow("redis not configured, dashboard cache disabled")
		return nil, nil
	}
	l.Infow("connected to redis", "addr", cfg.Redis.Addr)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}

var Module = fx.Options(
	fx.Provide(provide),
)
