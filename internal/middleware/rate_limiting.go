package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/notesbox/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit limits requests per client IP, under the given router name key
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := routerName + ":" + clientIP(r)
			res, err := rateLimiter.Allow(
				r.Context(),
				key,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", key, err)
				http.Error(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(
				w,
				fmt.Sprintf("retry after %d seconds", retryAfter),
				http.StatusTooManyRequests,
			)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

var _ RequestRateLimiter = (*redis_rate.Limiter)(nil)
var _ RequestRateLimiter = (*LocalRateLimiter)(nil)

// LocalRateLimiter is the in process counterpart of redis_rate.Limiter, used when no redis is configured
type LocalRateLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
	now      func() time.Time
}

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid limit for key [%s]: %s", key, limit)
	}

	l.mutex.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		every := rate.Every(limit.Period / time.Duration(limit.Rate))
		limiter = rate.NewLimiter(every, limit.Burst)
		l.limiters[key] = limiter
	}
	l.mutex.Unlock()

	now := l.now()
	reservation := limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		return &redis_rate.Result{
			Limit:      limit,
			Allowed:    0,
			Remaining:  0,
			RetryAfter: delay,
			ResetAfter: delay,
		}, nil
	}

	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    1,
		Remaining:  int(limiter.TokensAt(now)),
		RetryAfter: -1,
		ResetAfter: 0,
	}, nil
}
