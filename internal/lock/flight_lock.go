// Package lock serializes the read-compute-write sequence of booking
// operations per flight.  Without it two concurrent bookings against the
// same flight can read the same availability snapshot and overwrite each
// other's seat document (a lost update).
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when the per-flight lock could not be
// acquired within the configured wait window.
var ErrLockTimeout = errors.New("flight lock timeout")

const (
	lockPrefix   = "flightlock:"
	lockTTL      = 10 * time.Second
	acquireWait  = 5 * time.Second
	acquireRetry = 50 * time.Millisecond
)

// releaseScript deletes the lock key only while it still holds this
// acquisition's token.  A critical section that outlives lockTTL loses
// the lock to the next acquirer; its late release must not remove the
// new owner's key.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// FlightLocks hands out one lock per flight ID.  When a Redis client is
// configured the lock is a SETNX key with expiry so it also covers
// multiple server instances; without Redis it degrades to an in-process
// mutex per flight, which is enough for a single instance.
type FlightLocks struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]*sync.Mutex
}

// New builds a FlightLocks.  rdb may be nil.
func New(rdb *redis.Client) *FlightLocks {
	return &FlightLocks{rdb: rdb, local: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the flight's lock is held, the wait window runs
// out, or ctx is cancelled.  The returned release function must be
// called exactly once.
func (l *FlightLocks) Acquire(ctx context.Context, flightID string) (func(), error) {
	if l.rdb == nil {
		m := l.localMutex(flightID)
		m.Lock()
		return m.Unlock, nil
	}

	key := lockPrefix + flightID
	token := uuid.NewString()
	deadline := time.Now().Add(acquireWait)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			// Redis trouble: fall back to the local mutex rather
			// than failing the booking outright.
			m := l.localMutex(flightID)
			m.Lock()
			return m.Unlock, nil
		}
		if ok {
			return func() {
				_ = releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acquireRetry):
		}
	}
}

func (l *FlightLocks) localMutex(flightID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.local[flightID]
	if !ok {
		m = &sync.Mutex{}
		l.local[flightID] = m
	}
	return m
}
