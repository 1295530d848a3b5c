package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sustainai/hazard-risk/internal/config"
	"github.com/sustainai/hazard-risk/internal/models"
)

var ErrNoSnapshot = errors.New("no cached snapshot")

// RedisSnapshotCache keeps the latest committed snapshot under a single key
// so other processes can read it without running a refresh.
type RedisSnapshotCache struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisSnapshotCache(client *goredis.Client, key string, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Store(ctx context.Context, snap models.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	return nil
}

// Latest returns the cached snapshot or ErrNoSnapshot when the key is
// missing or expired.
func (c *RedisSnapshotCache) Latest(ctx context.Context) (models.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return models.Snapshot{}, ErrNoSnapshot
		}
		return models.Snapshot{}, fmt.Errorf("read cached snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snap, nil
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}
