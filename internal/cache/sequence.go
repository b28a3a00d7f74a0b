package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/facilityhub/helpdesk/internal/repository"
)

const sequenceKey = "helpdesk:ticket:sequence"

// FallbackFloor is the value the database sequence is seeded with
// (migrations/001_init.sql). Keeping the fallback range disjoint from the
// Redis-issued range is what makes the two counters collision-free.
const FallbackFloor = 5000000

// SequenceAllocator hands out human-facing ticket sequence numbers. Redis
// INCR is the fast path; the database sequence is the fallback so ticket
// creation keeps working through a Redis outage. Redis counts up from 1,
// the database sequence from FallbackFloor, so the formatted values never
// collide.
type SequenceAllocator struct {
	client   *redis.Client
	fallback repository.SequenceRepository
	logger   *zap.Logger
}

// NewSequenceAllocator constructs the allocator.
func NewSequenceAllocator(client *redis.Client, fallback repository.SequenceRepository, logger *zap.Logger) *SequenceAllocator {
	return &SequenceAllocator{client: client, fallback: fallback, logger: logger}
}

// Next returns the next formatted ticket sequence, e.g. "FMT-000042".
func (a *SequenceAllocator) Next(ctx context.Context) (string, error) {
	if a.client != nil {
		n, err := a.client.Incr(ctx, sequenceKey).Result()
		if err == nil {
			return FormatSequence(n), nil
		}
		a.logger.Warn("redis sequence unavailable, using database fallback", zap.Error(err))
	}
	if a.fallback == nil {
		return "", fmt.Errorf("no sequence source available")
	}
	n, err := a.fallback.Next(ctx)
	if err != nil {
		return "", err
	}
	return FormatSequence(n), nil
}

// FormatSequence renders a counter value as the human-facing ticket number.
func FormatSequence(n int64) string {
	return fmt.Sprintf("FMT-%06d", n)
}
