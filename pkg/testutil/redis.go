package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryRedis is a functional stand-in for xredis.Client covering the
// commands the codebase uses: plain keys with expiry, counters with a limit,
// and sorted sets. Time can be shifted forward with Advance to test expiries.
type InMemoryRedis struct {
	mutex  sync.Mutex
	values map[string]memoryValue
	zsets  map[string]map[string]float64
	offset time.Duration
}

type memoryValue struct {
	value    string
	expireAt time.Time
}

func NewInMemoryRedis() *InMemoryRedis {
	return &InMemoryRedis{
		values: map[string]memoryValue{},
		zsets:  map[string]map[string]float64{},
	}
}

// Advance shifts the clock of the store forward, expiring keys on the way.
func (r *InMemoryRedis) Advance(d time.Duration) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.offset += d
}

func (r *InMemoryRedis) now() time.Time {
	return time.Now().Add(r.offset)
}

func (r *InMemoryRedis) get(key string) (memoryValue, bool) {
	v, ok := r.values[key]
	if !ok {
		return memoryValue{}, false
	}

	if !v.expireAt.IsZero() && !r.now().Before(v.expireAt) {
		delete(r.values, key)
		return memoryValue{}, false
	}

	return v, true
}

func (r *InMemoryRedis) Exist(ctx context.Context, key string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.get(key); ok {
		return true, nil
	}

	_, ok := r.zsets[key]
	return ok, nil
}

func (r *InMemoryRedis) Del(ctx context.Context, key ...string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, k := range key {
		delete(r.values, k)
		delete(r.zsets, k)
	}

	return nil
}

func (r *InMemoryRedis) Get(ctx context.Context, key string) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v, _ := r.get(key)
	return v.value, nil
}

func (r *InMemoryRedis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.values[key] = memoryValue{value: value, expireAt: r.expiry(ttl)}
	return nil
}

func (r *InMemoryRedis) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.get(key); ok {
		return false, nil
	}

	r.values[key] = memoryValue{value: value, expireAt: r.expiry(ttl)}
	return true, nil
}

func (r *InMemoryRedis) TTL(ctx context.Context, key string) (time.Duration, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v, ok := r.get(key)
	if !ok {
		return -2 * time.Second, nil
	}

	if v.expireAt.IsZero() {
		return -1 * time.Second, nil
	}

	return v.expireAt.Sub(r.now()), nil
}

func (r *InMemoryRedis) GetInt(ctx context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v, ok := r.get(key)
	if !ok {
		return 0, nil
	}

	return strconv.ParseInt(v.value, 10, 64)
}

func (r *InMemoryRedis) IncrLimit(ctx context.Context, key string, limit int64, ttl time.Duration) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var current int64
	v, ok := r.get(key)
	if ok {
		parsed, err := strconv.ParseInt(v.value, 10, 64)
		if err != nil {
			return 0, err
		}
		current = parsed
	}

	if current >= limit {
		return -1, nil
	}

	current++
	expireAt := v.expireAt
	if current == 1 {
		expireAt = r.expiry(ttl)
	}

	r.values[key] = memoryValue{value: strconv.FormatInt(current, 10), expireAt: expireAt}
	return current, nil
}

func (r *InMemoryRedis) Decr(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var current int64
	v, ok := r.get(key)
	if ok {
		parsed, err := strconv.ParseInt(v.value, 10, 64)
		if err != nil {
			return err
		}
		current = parsed
	}

	current--
	r.values[key] = memoryValue{value: strconv.FormatInt(current, 10), expireAt: v.expireAt}
	return nil
}

func (r *InMemoryRedis) ZAdd(ctx context.Context, key string, z redis.Z) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.zsets[key]; !ok {
		r.zsets[key] = map[string]float64{}
	}

	r.zsets[key][z.Member.(string)] = z.Score
	return nil
}

func (r *InMemoryRedis) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.zsets[key]; !ok {
		r.zsets[key] = map[string]float64{}
	}

	r.zsets[key][member] += float64(incr)
	return nil
}

func (r *InMemoryRedis) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ordered := r.revOrder(key)
	if offset >= len(ordered) {
		return nil, nil
	}

	end := offset + limit
	if limit <= 0 || end > len(ordered) {
		end = len(ordered)
	}

	return ordered[offset:end], nil
}

func (r *InMemoryRedis) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, z := range r.revOrder(key) {
		if z.Member == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

func (r *InMemoryRedis) revOrder(key string) []redis.Z {
	var ordered []redis.Z
	for member, score := range r.zsets[key] {
		ordered = append(ordered, redis.Z{Member: member, Score: score})
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}

		return ordered[i].Member.(string) > ordered[j].Member.(string)
	})

	return ordered
}

func (r *InMemoryRedis) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}

	return r.now().Add(ttl)
}
