package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

const (
	strikesKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix     = "ratelimit:ban:"
	// DailyBanLogKey collects ban events for operators; it is trimmed to banLogMax entries.
	DailyBanLogKey = "ratelimit:banlog:daily"
	banLogMax      = 1000
)

// Tracker counts rate-limit strikes per visitor and bans visitors that collect
// maxStrikes within window. With a nil Redis client it keeps state in memory.
type Tracker struct {
	rdb        *redis.Client
	maxStrikes int
	window     time.Duration
	banFor     time.Duration
	now        func() time.Time

	mu      sync.Mutex
	strikes map[string]strikeCount
	bans    map[string]time.Time
}

type strikeCount struct {
	n     int
	since time.Time
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func NewTracker(rdb *redis.Client, maxStrikes int, window, banFor time.Duration) *Tracker {
	return &Tracker{
		rdb:        rdb,
		maxStrikes: maxStrikes,
		window:     window,
		banFor:     banFor,
		now:        time.Now,
		strikes:    make(map[string]strikeCount),
		bans:       make(map[string]time.Time),
	}
}

// IsBanned reports whether target is currently banned.
func (t *Tracker) IsBanned(ctx context.Context, target string) (bool, error) {
	if t.rdb != nil {
		n, err := t.rdb.Exists(ctx, banKeyPrefix+target).Result()
		if err != nil {
			return false, fmt.Errorf("check ban: %w", err)
		}
		return n > 0, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.bans[target]
	if !ok {
		return false, nil
	}
	if !t.now().Before(until) {
		delete(t.bans, target)
		return false, nil
	}
	return true, nil
}

// Strike records a rate-limit violation on route and reports whether it caused a ban.
func (t *Tracker) Strike(ctx context.Context, target, route string) (bool, error) {
	if t.maxStrikes <= 0 {
		return false, nil
	}

	var strikes int
	var err error
	if t.rdb != nil {
		strikes, err = t.strikeRedis(ctx, target)
	} else {
		strikes = t.strikeMemory(target)
	}
	if err != nil || strikes < t.maxStrikes {
		return false, err
	}

	if err := t.ban(ctx, target); err != nil {
		return false, err
	}
	obs.Logger.Warn("visitor_banned", "target", target, "route", route, "strikes", strikes, "ban_for", t.banFor.String())
	t.logBanEvent(ctx, target, route, strikes)
	return true, nil
}

func (t *Tracker) strikeRedis(ctx context.Context, target string) (int, error) {
	key := strikesKeyPrefix + target
	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count strike: %w", err)
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, key, t.window).Err(); err != nil {
			return 0, fmt.Errorf("expire strikes: %w", err)
		}
	}
	return int(n), nil
}

func (t *Tracker) strikeMemory(target string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	sc, ok := t.strikes[target]
	if !ok || now.Sub(sc.since) > t.window {
		sc = strikeCount{since: now}
	}
	sc.n++
	t.strikes[target] = sc
	return sc.n
}

func (t *Tracker) ban(ctx context.Context, target string) error {
	if t.rdb != nil {
		pipe := t.rdb.TxPipeline()
		pipe.Set(ctx, banKeyPrefix+target, 1, t.banFor)
		pipe.Del(ctx, strikesKeyPrefix+target)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("ban %s: %w", target, err)
		}
		return nil
	}

	t.mu.Lock()
	t.bans[target] = t.now().Add(t.banFor)
	delete(t.strikes, target)
	t.mu.Unlock()
	return nil
}

func (t *Tracker) logBanEvent(ctx context.Context, target, route string, strikes int) {
	if t.rdb == nil {
		return
	}
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    t.now(),
	}
	data, _ := json.Marshal(entry)
	pipe := t.rdb.Pipeline()
	pipe.RPush(ctx, DailyBanLogKey, data)
	pipe.LTrim(ctx, DailyBanLogKey, -banLogMax, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, context.Canceled) {
		obs.Logger.Warn("ban_log_failed", "error", err)
	}
}
