package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/users-api/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	// CheckRateLimit returns isAllowed, seconds to wait, error
	CheckRateLimit(ctx context.Context, clientKey string) (bool, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

// NewRateLimitRepoWithClock is NewRateLimitRepo with a fixed time source.
func NewRateLimitRepoWithClock(client *redis.Client, cfg config.RateConfig, now func() time.Time) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: now}
}

func RateLimitKey(clientKey string) string {
	return "rate_limit:" + clientKey
}

// Sliding window over a sorted set: one member per request, scored by its
// unix time in milliseconds.
func (r *redisRepository) CheckRateLimit(ctx context.Context, clientKey string) (bool, int, error) {

	key := RateLimitKey(clientKey)

	now := r.now().UnixMilli()
	windowStart := now - r.cfg.WindowSize.Milliseconds()

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	if count.Val() <= r.cfg.MaxRequests {
		return true, 0, nil
	}

	scores, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(scores) == 0 {
		return false, int(r.cfg.WindowSize.Seconds()), fmt.Errorf("failed to get oldest request time: %w", err)
	}

	oldest := int64(scores[0].Score)
	retryAfterMs := max(oldest+r.cfg.WindowSize.Milliseconds()-now, 0)

	// round up so clients never retry early
	retryAfter := int((retryAfterMs + 999) / 1000)

	return false, retryAfter, nil
}
