package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockSerializesPerFlight(t *testing.T) {
	locks := New(nil)

	const workers = 8
	const iterations = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				release, err := locks.Acquire(context.Background(), "flight-1")
				if !assert.NoError(t, err) {
					return
				}
				counter++
				release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestDifferentFlightsUseDifferentLocks(t *testing.T) {
	locks := New(nil)

	releaseA, err := locks.Acquire(context.Background(), "flight-a")
	require.NoError(t, err)
	defer releaseA()

	// Holding flight-a must not block flight-b.
	releaseB, err := locks.Acquire(context.Background(), "flight-b")
	require.NoError(t, err)
	releaseB()
}

func TestRedisLockReleaseRemovesKey(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	locks := New(rdb)

	release, err := locks.Acquire(context.Background(), "flight-1")
	require.NoError(t, err)
	assert.True(t, srv.Exists("flightlock:flight-1"))

	release()
	assert.False(t, srv.Exists("flightlock:flight-1"))
}

func TestRedisLockStaleReleaseKeepsNewOwnersLock(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	locks := New(rdb)

	staleRelease, err := locks.Acquire(context.Background(), "flight-1")
	require.NoError(t, err)

	// Let the first holder's key expire, then hand the lock to a
	// second request.
	srv.FastForward(lockTTL + time.Second)
	newRelease, err := locks.Acquire(context.Background(), "flight-1")
	require.NoError(t, err)

	// The first holder's late release must not delete the key the
	// second holder owns.
	staleRelease()
	assert.True(t, srv.Exists("flightlock:flight-1"))

	newRelease()
	assert.False(t, srv.Exists("flightlock:flight-1"))
}
