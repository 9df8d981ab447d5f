package allocator

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/circuitbreaker"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

const counterKeyPrefix = "hms:ids:"

// nextIDScript lifts the counter to the store's current max when it lags
// behind (first use, or records inserted around the counter) and then
// increments it. Running both steps in one script keeps them atomic.
var nextIDScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local floor = tonumber(ARGV[1])
	if current < floor then
		redis.call('SET', KEYS[1], floor)
	end
	return redis.call('INCR', KEYS[1])
`)

// RedisCounter allocates ids from one atomic Redis counter per collection.
// Ids from the counter are never handed out twice, even after deletes.
type RedisCounter struct {
	client  redis.Scripter
	stats   repository.CollectionStats
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func NewRedisCounter(client redis.Scripter, stats repository.CollectionStats, m *metrics.Metrics) *RedisCounter {
	return &RedisCounter{
		client: client,
		stats:  stats,
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "id-allocator",
			MaxFailures: 5,
			Interval:    10 * time.Second,
			Timeout:     5 * time.Second,
		}),
		metrics: m,
	}
}

func (a *RedisCounter) NextID(ctx context.Context, collection model.Collection) (int64, error) {
	highest, err := a.stats.MaxID(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", collection, err)
	}

	var id int64
	err = a.cb.Execute(func() error {
		var runErr error
		id, runErr = nextIDScript.Run(ctx, a.client, []string{CounterKey(collection)}, highest).Int64()
		return runErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s id counter: %w", collection, err)
	}

	a.metrics.AllocatedID(collection.String(), a.Strategy())
	return id, nil
}

func (a *RedisCounter) Strategy() string {
	return "redis"
}

// CounterKey is the Redis key holding the last id issued for collection.
func CounterKey(collection model.Collection) string {
	return counterKeyPrefix + collection.String()
}

// NewRedisClient connects to url and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
