package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/http/ban"
	rl "github.com/rogerio-castellano/devstore-web/internal/http/rate_limiter"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

// BanTracker is the part of ban.Tracker the rate limiter uses.
type BanTracker interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	Strike(ctx context.Context, target, route string) (bool, error)
}

var banTracker BanTracker

func SetBanTracker(t BanTracker) {
	banTracker = t
}

var _ BanTracker = (*ban.Tracker)(nil)

// RateLimit throttles each visitor with its own token bucket. Visitors that keep
// hitting the limit are handed to the ban tracker, when one is set.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ctx := r.Context()

		if banTracker != nil {
			banned, err := banTracker.IsBanned(ctx, ip)
			if err != nil {
				obs.Logger.Warn("ban_check_failed", "ip", ip, "error", err)
			}
			if banned {
				http.Error(w, "Too many requests. You are temporarily banned.", http.StatusForbidden)
				return
			}
		}

		limiter := rl.GetVisitor(ip)
		res := limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			if banTracker != nil {
				if _, err := banTracker.Strike(ctx, ip, r.URL.Path); err != nil {
					obs.Logger.Warn("ban_strike_failed", "ip", ip, "error", err)
				}
			}
			w.Header().Set("Retry-After", retryAfterSeconds(delay))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
