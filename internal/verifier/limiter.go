package verifier

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a host's bucket is kept after its last use.
const DefaultLimiterIdle = 10 * time.Minute

// HostLimiter keeps one token bucket per source host so a burst of
// submissions cannot turn the receiver into a load generator against a
// single site. Buckets of hosts not contacted for the idle period are
// evicted, since sources are arbitrary.
type HostLimiter struct {
	// mu makes get-or-create atomic; the cache is safe on its own.
	mu       sync.Mutex
	limiters *gocache.Cache
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

// NewHostLimiter allows perSecond requests per host with the given burst.
// A bucket unused for idle is dropped; zero picks DefaultLimiterIdle, raised
// to the time a drained bucket needs to refill.
func NewHostLimiter(perSecond float64, burst int, idle time.Duration) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idle <= 0 {
		idle = DefaultLimiterIdle
		if perSecond > 0 {
			if refill := time.Duration(float64(burst) / perSecond * float64(time.Second)); refill > idle {
				idle = refill
			}
		}
	}

	return &HostLimiter{
		limiters: gocache.New(idle, idle),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		idle:     idle,
	}
}

// Wait blocks until host may be contacted or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx) //nolint: wrapcheck
}

// Allow reports whether host may be contacted now, consuming a token if so.
func (l *HostLimiter) Allow(host string) bool {
	return l.get(host).Allow()
}

// Len is the number of hosts currently tracked.
func (l *HostLimiter) Len() int {
	l.limiters.DeleteExpired()

	return l.limiters.ItemCount()
}

func (l *HostLimiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lim *rate.Limiter
	if v, found := l.limiters.Get(host); found {
		lim = v.(*rate.Limiter) //nolint: forcetypeassert
	} else {
		lim = rate.NewLimiter(l.rate, l.burst)
	}
	// refresh the expiry on every use
	l.limiters.Set(host, lim, l.idle)

	return lim
}
