// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
)

// RateLimitPolicy is a token bucket applied per client IP.
type RateLimitPolicy struct {
	RPS      float64
	Burst    int
	IdleTTL  time.Duration
	Sweeping time.Duration
}

// DefaultRateLimitPolicy leaves room for the activity batches a busy portal
// tab sends alongside its normal API calls.
var DefaultRateLimitPolicy = RateLimitPolicy{
	RPS:      constants.DefaultRateLimitRPS,
	Burst:    constants.DefaultRateLimitBurst,
	IdleTTL:  constants.RateLimitClientTTL,
	Sweeping: constants.RateLimitCleanupInterval,
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	policy   RateLimitPolicy
	mu       sync.Mutex
	visitors map[string]*visitor
}

// RateLimit applies [DefaultRateLimitPolicy]. The sweeper stops with ctx.
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	return RateLimitWith(ctx, DefaultRateLimitPolicy)
}

// RateLimitWith rejects requests beyond policy with 429 RATE_LIMITED and a
// Retry-After header. Each call owns its own visitor table.
func RateLimitWith(ctx context.Context, policy RateLimitPolicy) func(http.Handler) http.Handler {
	limiter := &ipLimiter{policy: policy, visitors: make(map[string]*visitor)}
	if policy.Sweeping > 0 {
		go limiter.sweep(ctx)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			reservation := limiter.reserve(RealIP(request))
			if reservation > 0 {
				seconds := int(math.Ceil(reservation.Seconds()))
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// reserve returns zero when the request may proceed, or the wait until the
// next token otherwise.
func (limiter *ipLimiter) reserve(ip string) time.Duration {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := time.Now()
	entry, found := limiter.visitors[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(rate.Limit(limiter.policy.RPS), limiter.policy.Burst)}
		limiter.visitors[ip] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return 0
	}

	wait := time.Duration(float64(time.Second) / limiter.policy.RPS)
	if wait <= 0 {
		wait = time.Second
	}
	return wait
}

func (limiter *ipLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(limiter.policy.Sweeping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.mu.Lock()
			for ip, entry := range limiter.visitors {
				if time.Since(entry.lastSeen) > limiter.policy.IdleTTL {
					delete(limiter.visitors, ip)
				}
			}
			limiter.mu.Unlock()
		}
	}
}
