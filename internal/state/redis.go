package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Redis stores each key as a plain string value with a sliding TTL. Save runs
// inside MULTI/EXEC so one flush is applied atomically.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration, tracer trace.Tracer) *Redis {
	if client == nil {
		panic("state: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("returns.internal.state.redis")
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, tracer: tracer}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	ctx, span := r.tracer.Start(ctx, "state.redis.load", trace.WithAttributes(attribute.Int("keys", len(keys))))
	defer span.End()

	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	values, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("state: redis load: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[keys[i]] = []byte(s)
	}
	return out, nil
}

func (r *Redis) Save(ctx context.Context, entries map[string][]byte) error {
	ctx, span := r.tracer.Start(ctx, "state.redis.save", trace.WithAttributes(attribute.Int("keys", len(entries))))
	defer span.End()

	if len(entries) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			if v == nil {
				pipe.Del(ctx, r.key(k))
				continue
			}
			pipe.Set(ctx, r.key(k), v, r.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("state: redis save: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys []string) error {
	ctx, span := r.tracer.Start(ctx, "state.redis.delete")
	defer span.End()

	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("state: redis delete: %w", err)
	}
	return nil
}
