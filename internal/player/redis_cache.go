package player

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TrackCache shares search results across processes through Redis. It is an
// optional second cache tier behind the in-process one; every operation is
// best-effort and a Redis failure is just a miss.
type TrackCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTrackCache creates a Redis-backed track cache
func NewTrackCache(addr, password string, ttl time.Duration, logger *zap.Logger) (*TrackCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// Test connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TrackCache{
		client: rdb,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (r *TrackCache) Close() error {
	return r.client.Close()
}

// GetTracks retrieves cached tracks for a query
func (r *TrackCache) GetTracks(ctx context.Context, kind, query string) ([]Track, bool) {
	key := r.cacheKey(kind, query)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("Redis get failed", zap.Error(err))
		return nil, false
	}

	var tracks []Track
	if err := json.Unmarshal([]byte(val), &tracks); err != nil {
		r.logger.Warn("Failed to decode cached tracks", zap.Error(err))
		return nil, false
	}

	return tracks, true
}

// SetTracks caches tracks for a query
func (r *TrackCache) SetTracks(ctx context.Context, kind, query string, tracks []Track) {
	key := r.cacheKey(kind, query)

	data, err := json.Marshal(tracks)
	if err != nil {
		r.logger.Warn("Failed to encode tracks", zap.Error(err))
		return
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis set failed", zap.Error(err))
	}
}

// cacheKey generates a cache key from the query
func (r *TrackCache) cacheKey(kind, query string) string {
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("tracks:%s:%s", kind, hex.EncodeToString(hash[:]))
}
