// Package redissink counts keys into a Redis hash from a reduction.
package redissink

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/transduce"
)

// Counter increments one hash field per counted key with HINCRBY.
// The reduction state is the number of increments applied.
type Counter struct {
	rdb goredis.Cmdable
	key string
	ttl time.Duration
	log *logger.Logger
}

// Option configures a Counter.
type Option func(*Counter)

// WithTTL expires the hash ttl after each completed reduction.
func WithTTL(ttl time.Duration) Option {
	return func(c *Counter) { c.ttl = ttl }
}

// WithLogger sets the logger used for flush events.
func WithLogger(log *logger.Logger) Option {
	return func(c *Counter) {
		if log != nil {
			c.log = log.WithComponent(logger.ComponentRedis)
		}
	}
}

// NewCounter creates a Counter writing into the hash at key.
func NewCounter(rdb goredis.Cmdable, key string, opts ...Option) *Counter {
	c := &Counter{rdb: rdb, key: key, log: logger.Get(logger.ComponentRedis)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCounterFromConfig creates a Counter using cfg.Key and cfg.TTL.
func NewCounterFromConfig(rdb goredis.Cmdable, cfg Config, log *logger.Logger) *Counter {
	cfg.ApplyDefaults()
	return NewCounter(rdb, cfg.Key, WithTTL(parseDuration(cfg.TTL)), WithLogger(log))
}

// Key returns the hash key.
func (c *Counter) Key() string { return c.key }

// Sink binds the counter to ctx for one reduction.
func (c *Counter) Sink(ctx context.Context) transduce.Sink[int64, string] {
	return counterSink{c: c, ctx: ctx}
}

// Reducer is transduce.Into(c.Sink(ctx)).
func (c *Counter) Reducer(ctx context.Context) transduce.Reducer[int64, string] {
	return transduce.Into(c.Sink(ctx))
}

// Counts reads the whole hash.
func (c *Counter) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, redisError(err)
	}
	counts := make(map[string]int64, len(raw))
	for field, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis hash %s field %q: %w", c.key, field, err)
		}
		counts[field] = n
	}
	return counts, nil
}

// Reset deletes the hash.
func (c *Counter) Reset(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return redisError(err)
	}
	return nil
}

type counterSink struct {
	c   *Counter
	ctx context.Context
}

func (s counterSink) Add(applied int64, member string) (int64, error) {
	if err := s.c.rdb.HIncrBy(s.ctx, s.c.key, member, 1).Err(); err != nil {
		return applied, redisError(err)
	}
	return applied + 1, nil
}

func (s counterSink) Flush(applied int64) (_ int64, err error) {
	ctx, span := observability.StartSinkFlush(s.ctx, "redis")
	defer func() { observability.EndSpan(span, err) }()

	if s.c.ttl > 0 && applied > 0 {
		if err := s.c.rdb.Expire(ctx, s.c.key, s.c.ttl).Err(); err != nil {
			return applied, redisError(err)
		}
	}
	s.c.log.Debug("redis counter flushed", map[string]interface{}{
		logger.FieldSteps: applied,
		logger.FieldSink:  s.c.key,
	})
	return applied, nil
}

// redisError maps a closed client to transduce.ErrSinkClosed so the
// reduction stops; other failures are external service errors.
func redisError(err error) error {
	if stderrors.Is(err, goredis.ErrClosed) {
		return transduce.ErrSinkClosed
	}
	return errors.ExternalServiceError("redis", err)
}
