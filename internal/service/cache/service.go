package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

const (
	recordKeyPrefix = "lw:lawyer:"
	recordIndexKey  = "lw:lawyers"
)

// CacheService mirrors exported records into Redis: one JSON value per
// profile URL plus a set indexing every stored key.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

func NewCacheService(ctx context.Context, cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewSinkError("failed to connect to Redis", "redis", "ping", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (c *CacheService) Name() string {
	return "redis"
}

// Write stores every record of the bundle in a single transaction pipeline.
func (c *CacheService) Write(ctx context.Context, bundle domain.ExportBundle) error {
	if len(bundle.Records) == 0 {
		return nil
	}

	keys := make([]any, 0, len(bundle.Records))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, record := range bundle.Records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("marshal record %d: %w", i, err)
			}
			key := RecordKey(record, i)
			pipe.Set(ctx, key, data, c.ttl)
			keys = append(keys, key)
		}
		pipe.SAdd(ctx, recordIndexKey, keys...)
		if c.ttl > 0 {
			pipe.Expire(ctx, recordIndexKey, c.ttl)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Cache write failed", zap.Int("records", len(bundle.Records)), zap.Error(err))
		return errors.NewSinkError("pipeline failed", c.Name(), "set", err)
	}

	c.logger.Info("Records cached",
		zap.Int("records", len(bundle.Records)),
		zap.Duration("ttl", c.ttl))
	return nil
}

func (c *CacheService) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecordKey returns the Redis key for record, keyed by its profile URL. A
// record without a URL falls back to its position in the bundle.
func RecordKey(record domain.Record, index int) string {
	if url, ok := record.Value(domain.FieldWebpageURL); ok && url != "" {
		return recordKeyPrefix + url
	}
	return recordKeyPrefix + "index:" + strconv.Itoa(index)
}
