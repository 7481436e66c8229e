package tracestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/config"
	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// RedisStore stores traces as JSON strings with a sorted-set index keyed by start time.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisStore wraps an existing client. keyPrefix defaults to "swarmdfs:trace:".
func NewRedisStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "swarmdfs:trace:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger.With(zap.String("component", "trace_store"), zap.String("backend", TypeRedis)),
	}
}

// NewRedisStoreFromConfig dials Redis and checks the connection.
func NewRedisStoreFromConfig(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to connect to redis").
			WithCause(err).WithRetryable(true)
	}

	return NewRedisStore(client, cfg.KeyPrefix, cfg.TTL, logger), nil
}

func (s *RedisStore) dataKey(runID string) string {
	return s.keyPrefix + "data:" + runID
}

func (s *RedisStore) indexKey() string {
	return s.keyPrefix + "index"
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, t *swarm.Trace) error {
	if err := validate(t); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.dataKey(t.RunID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(t.StartedAt.UnixNano()), Member: t.RunID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save trace %s: %w", t.RunID, err)
	}

	s.logger.Debug("trace saved", zap.String("run_id", t.RunID), zap.Int("records", t.Len()))
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, runID string) (*swarm.Trace, error) {
	data, err := s.client.Get(ctx, s.dataKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(runID)
	}
	if err != nil {
		return nil, err
	}

	var t swarm.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace %s: %w", runID, err)
	}
	return &t, nil
}

// List implements Store. Index entries whose data has expired are pruned.
func (s *RedisStore) List(ctx context.Context, limit int) ([]Summary, error) {
	limit = listLimit(limit)
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.dataKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(ids))
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var t swarm.Trace
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			s.logger.Warn("skipping corrupt trace", zap.String("run_id", ids[i]), zap.Error(err))
			continue
		}
		out = append(out, Summarize(&t))
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			s.logger.Warn("failed to prune trace index", zap.Error(err))
		}
	}
	return out, nil
}

// Ping checks if the store is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
