package rateguard

import (
	"context"
	"fmt"
	"time"

	"github.com/loyaltap/backend/pkg/dateutil"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/loyaltap/backend/pkg/xredis"
)

type Mode int

const (
	// Calendar windows share one counter per calendar bucket; the counter
	// expires at the bucket boundary.
	Calendar Mode = iota

	// Rolling windows start at the first increment and expire Window later.
	Rolling
)

// Scope is one quota dimension of a request, e.g. the requesting user, the
// targeted resource, or the client address.
type Scope struct {
	Name   string
	Key    string
	Limit  int64
	Window time.Duration
	Mode   Mode
}

func (s Scope) redisKey(now time.Time) string {
	if s.Mode == Calendar {
		return fmt.Sprintf("ratelimit:%s:%s:%s", s.Name, s.Key, dateutil.DayBucket(now))
	}

	return fmt.Sprintf("ratelimit:%s:%s", s.Name, s.Key)
}

func (s Scope) ttl(now time.Time) time.Duration {
	if s.Mode == Calendar {
		return dateutil.UntilEndOfDay(now)
	}

	return s.Window
}

type Guard struct {
	redisClient xredis.Client
}

func New(redisClient xredis.Client) *Guard {
	return &Guard{redisClient: redisClient}
}

// CheckAndConsume consumes one unit from every scope, or none at all. Every
// scope is pre-checked before any counter moves, then each counter is bumped
// through a scripted increment that re-verifies its limit, so concurrent
// callers can neither lose updates nor get counted after a rejection.
func (g *Guard) CheckAndConsume(ctx context.Context, scopes ...Scope) error {
	now := time.Now()

	for _, scope := range scopes {
		if scope.Limit <= 0 {
			continue
		}

		current, err := g.redisClient.GetInt(ctx, scope.redisKey(now))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot read rate counter of %s: %v", scope.Name, err)
			return errorx.Unknown
		}

		if current >= scope.Limit {
			return errorx.New(errorx.TooManyRequests, "Rate limit of %s exceeded", scope.Name)
		}
	}

	var consumed []string
	for _, scope := range scopes {
		if scope.Limit <= 0 {
			continue
		}

		key := scope.redisKey(now)
		value, err := g.redisClient.IncrLimit(ctx, key, scope.Limit, scope.ttl(now))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot consume rate counter of %s: %v", scope.Name, err)
			g.release(ctx, consumed)
			return errorx.Unknown
		}

		if value < 0 {
			// Lost a race with another caller between check and consume.
			// Give back the units the earlier scopes already took.
			g.release(ctx, consumed)
			return errorx.New(errorx.TooManyRequests, "Rate limit of %s exceeded", scope.Name)
		}

		consumed = append(consumed, key)
	}

	return nil
}

func (g *Guard) release(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := g.redisClient.Decr(ctx, key); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release rate counter %s: %v", key, err)
		}
	}
}

// CheckCooldown fails while the key exists, reporting the remaining seconds.
func (g *Guard) CheckCooldown(ctx context.Context, key string) error {
	ok, err := g.redisClient.Exist(ctx, cooldownKey(key))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read cooldown key: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return nil
	}

	remaining, err := g.redisClient.TTL(ctx, cooldownKey(key))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read cooldown ttl: %v", err)
		return errorx.Unknown
	}

	seconds := int64(remaining / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	return errorx.New(errorx.CooldownActive, "Cooldown active, try again in %d seconds", seconds)
}

// SetCooldown arms the cooldown after a successful action. When two actions
// race, the first writer wins and its expiry stands.
func (g *Guard) SetCooldown(ctx context.Context, key string, duration time.Duration) error {
	_, err := g.redisClient.SetNX(ctx, cooldownKey(key), "1", duration)
	return err
}

func cooldownKey(key string) string {
	return fmt.Sprintf("cooldown:%s", key)
}
