package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 20
	burst            = 40
)

// SetLimits changes the rate given to visitors seen from now on.
func SetLimits(rps float64, b int) {
	mu.Lock()
	limit = rate.Limit(rps)
	burst = b
	mu.Unlock()
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop forgets visitors idle for more than idle, checking every minute,
// until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupIdleVisitors(idle)
		}
	}
}

func cleanupIdleVisitors(idle time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > idle {
			delete(visitors, ip)
		}
	}
}

func CleanupAllVisitors() {
	mu.Lock()
	visitors = make(map[string]*clientLimiter)
	mu.Unlock()
}
