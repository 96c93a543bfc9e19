package client

import (
	"math/rand"
	"time"
)

// RetryPolicy is a bounded exponential backoff. Delay for attempt n
// (0-based) is BaseDelay << n, plus up to Jitter of randomness.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Jitter     time.Duration
}

// StandardRetry applies to network errors and 5xx responses: two retries at
// 1s and 2s.
var StandardRetry = RetryPolicy{
	MaxRetries: 2,
	BaseDelay:  time.Second,
}

// RateLimitRetry applies only to 429 responses, and only for calls that opt
// in: three retries at roughly 2s, 4s, 8s with up to 1s of jitter to spread
// out competing clients.
var RateLimitRetry = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  2 * time.Second,
	Jitter:     time.Second,
}

func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return d
}
