package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// RedisDriver is a durable driver backed by Redis.
// Immediate jobs use LPUSH/BRPOP on a list.
// Delayed jobs use a sorted set scored by Unix timestamp.
type RedisDriver struct {
	rdb        *redis.Client
	queueKey   string
	delayedKey string
	stop       context.CancelFunc
}

// NewRedisDriver creates a Redis-backed driver under prefix
// (e.g. "storefront:"). Close stops the delayed-job promoter.
func NewRedisDriver(rdb *redis.Client, prefix string) *RedisDriver {
	ctx, cancel := context.WithCancel(context.Background())
	d := &RedisDriver{
		rdb:        rdb,
		queueKey:   prefix + "queue:jobs",
		delayedKey: prefix + "queue:delayed",
		stop:       cancel,
	}
	go d.promoteDelayedJobs(ctx)
	return d
}

func (d *RedisDriver) Push(ctx context.Context, payload []byte) error {
	if err := d.rdb.LPush(ctx, d.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks for up to 5s waiting for a job.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, 5*time.Second, d.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

// PushDelayed schedules payload to be promoted to the queue after delay.
func (d *RedisDriver) PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error {
	runAt := float64(time.Now().Add(delay).Unix())
	if err := d.rdb.ZAdd(ctx, d.delayedKey, redis.Z{Score: runAt, Member: string(payload)}).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// Close stops the background promoter. The client is left open.
func (d *RedisDriver) Close() { d.stop() }

func (d *RedisDriver) promoteDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := strconv.FormatInt(time.Now().Unix(), 10)
		jobs, err := d.rdb.ZRangeByScore(ctx, d.delayedKey, &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
		if err != nil || len(jobs) == 0 {
			continue
		}
		for _, job := range jobs {
			// ZRem first so two promoters never both enqueue the same job.
			n, err := d.rdb.ZRem(ctx, d.delayedKey, job).Result()
			if err != nil || n == 0 {
				continue
			}
			if err := d.rdb.LPush(ctx, d.queueKey, job).Err(); err != nil {
				logger.Error("queue/redis: promote delayed job", "error", err)
			}
		}
	}
}
