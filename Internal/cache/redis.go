package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/fazecat/dexsignals/Internal/types"
	redis "github.com/redis/go-redis/v9"
)

// Redis keeps the single slot under one Redis key so every replica behind a
// load balancer shares the same snapshot. Redis failures degrade to a cache
// miss (read) or a logged no-op (write).
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	now    Clock
}

func NewRedis(client *redis.Client, key string, ttl time.Duration, now Clock) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Redis{client: client, key: key, ttl: ttl, now: now}
}

func (r *Redis) Get(ctx context.Context) (*Entry, bool) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("redis GET %s: %v", r.key, err)
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Printf("redis GET %s: decode snapshot: %v", r.key, err)
		return nil, false
	}
	// PX expiry is coarse across replicas; the stamp is authoritative
	if !e.Fresh(r.now(), r.ttl) {
		return nil, false
	}
	return &e, true
}

func (r *Redis) Put(ctx context.Context, signals []types.Signal, meta types.ScanMeta) *Entry {
	e := &Entry{Signals: signals, ProducedAt: r.now(), Meta: meta}
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("redis SET %s: encode snapshot: %v", r.key, err)
		return e
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		log.Printf("redis SET %s: %v", r.key, err)
	}
	return e
}

// Ping checks connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
