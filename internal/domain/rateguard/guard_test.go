package rateguard

import (
	"context"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestGuardConsumesUpToLimit(t *testing.T) {
	ctx := testutil.MockContext()
	guard := New(testutil.NewInMemoryRedis())

	scope := Scope{Name: "scan-user", Key: "user1", Limit: 3, Mode: Calendar}

	for i := 0; i < 3; i++ {
		require.NoError(t, guard.CheckAndConsume(ctx, scope))
	}

	err := guard.CheckAndConsume(ctx, scope)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TooManyRequests, errx.Code)
}

func TestGuardAllOrNothing(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewInMemoryRedis()
	guard := New(redisClient)

	narrow := Scope{Name: "narrow", Key: "k", Limit: 1, Mode: Calendar}
	wide := Scope{Name: "wide", Key: "k", Limit: 100, Mode: Calendar}

	require.NoError(t, guard.CheckAndConsume(ctx, narrow, wide))

	// The second call fails on the narrow scope; the wide counter must not
	// move.
	require.Error(t, guard.CheckAndConsume(ctx, narrow, wide))

	count, err := redisClient.GetInt(ctx, wide.redisKey(time.Now()))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestGuardCalendarWindowResets(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewInMemoryRedis()
	guard := New(redisClient)

	scope := Scope{Name: "scan-user", Key: "user1", Limit: 1, Mode: Calendar}

	require.NoError(t, guard.CheckAndConsume(ctx, scope))
	require.Error(t, guard.CheckAndConsume(ctx, scope))

	// The counter expires at the day boundary.
	redisClient.Advance(25 * time.Hour)
	require.NoError(t, guard.CheckAndConsume(ctx, scope))
}

func TestGuardRollingWindow(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewInMemoryRedis()
	guard := New(redisClient)

	scope := Scope{Name: "burst", Key: "user1", Limit: 2, Window: time.Hour, Mode: Rolling}

	require.NoError(t, guard.CheckAndConsume(ctx, scope))
	require.NoError(t, guard.CheckAndConsume(ctx, scope))

	err := guard.CheckAndConsume(ctx, scope)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TooManyRequests, errx.Code)

	// The window rolls from the first consume, not from a calendar boundary.
	redisClient.Advance(30 * time.Minute)
	require.Error(t, guard.CheckAndConsume(ctx, scope))

	redisClient.Advance(31 * time.Minute)
	require.NoError(t, guard.CheckAndConsume(ctx, scope))
}

// exhaustedKeyRedis reports one key as already at its limit during consume,
// the way another instance racing between the pre-check and the scripted
// increment would.
type exhaustedKeyRedis struct {
	*testutil.InMemoryRedis
	key string
}

func (r *exhaustedKeyRedis) IncrLimit(
	ctx context.Context, key string, limit int64, ttl time.Duration,
) (int64, error) {
	if key == r.key {
		return -1, nil
	}

	return r.InMemoryRedis.IncrLimit(ctx, key, limit, ttl)
}

func TestGuardReleasesConsumedScopesOnRace(t *testing.T) {
	ctx := testutil.MockContext()

	first := Scope{Name: "first", Key: "k", Limit: 10, Mode: Calendar}
	second := Scope{Name: "second", Key: "k", Limit: 10, Mode: Calendar}

	inner := testutil.NewInMemoryRedis()
	guard := New(&exhaustedKeyRedis{
		InMemoryRedis: inner,
		key:           second.redisKey(time.Now()),
	})

	err := guard.CheckAndConsume(ctx, first, second)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TooManyRequests, errx.Code)

	// The unit taken from the first scope must be given back.
	count, err := inner.GetInt(ctx, first.redisKey(time.Now()))
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestGuardZeroLimitScopeIsIgnored(t *testing.T) {
	ctx := testutil.MockContext()
	guard := New(testutil.NewInMemoryRedis())

	scope := Scope{Name: "unlimited", Key: "k", Limit: 0, Mode: Calendar}
	for i := 0; i < 10; i++ {
		require.NoError(t, guard.CheckAndConsume(ctx, scope))
	}
}

func TestGuardConcurrentConsume(t *testing.T) {
	ctx := testutil.MockContext()
	guard := New(testutil.NewInMemoryRedis())

	scope := Scope{Name: "scan-user", Key: "user1", Limit: 5, Mode: Calendar}

	var wg sync.WaitGroup
	var mutex sync.Mutex
	succeeded := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := guard.CheckAndConsume(ctx, scope); err == nil {
				mutex.Lock()
				succeeded++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, succeeded)
}

func TestGuardCooldown(t *testing.T) {
	ctx := testutil.MockContext()
	guard := New(testutil.NewInMemoryRedis())

	require.NoError(t, guard.CheckCooldown(ctx, "scan:user1:tag1"))

	require.NoError(t, guard.SetCooldown(ctx, "scan:user1:tag1", 5*time.Minute))

	err := guard.CheckCooldown(ctx, "scan:user1:tag1")
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.CooldownActive, errx.Code)

	// The message names the remaining seconds.
	matches := regexp.MustCompile(`(\d+) seconds`).FindStringSubmatch(errx.Message)
	require.Len(t, matches, 2)
	remaining, err := strconv.Atoi(matches[1])
	require.NoError(t, err)
	require.Greater(t, remaining, 0)
	require.LessOrEqual(t, remaining, 300)

	// Another key is unaffected.
	require.NoError(t, guard.CheckCooldown(ctx, "scan:user1:tag2"))
}

func TestGuardSetCooldownKeepsEarlierExpiry(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewInMemoryRedis()
	guard := New(redisClient)

	require.NoError(t, guard.SetCooldown(ctx, "scan:user1:tag1", 5*time.Minute))
	redisClient.Advance(4 * time.Minute)

	// A racing writer must not extend an armed cooldown.
	require.NoError(t, guard.SetCooldown(ctx, "scan:user1:tag1", 5*time.Minute))

	redisClient.Advance(90 * time.Second)
	require.NoError(t, guard.CheckCooldown(ctx, "scan:user1:tag1"))
}

func TestGuardCooldownExpires(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewInMemoryRedis()
	guard := New(redisClient)

	require.NoError(t, guard.SetCooldown(ctx, "scan:user1:tag1", time.Minute))
	require.Error(t, guard.CheckCooldown(ctx, "scan:user1:tag1"))

	redisClient.Advance(2 * time.Minute)
	require.NoError(t, guard.CheckCooldown(ctx, "scan:user1:tag1"))
}
