package ratelimit

import "context"

// RateLimiter bounds outbound webhook delivery throughput per department.
type RateLimiter interface {
	Allow(ctx context.Context, department string) (bool, error)
	Wait(ctx context.Context, department string) error
}
