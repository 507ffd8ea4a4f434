package socket

import (
	"net"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	millis int64
}

func (f *fakeClock) NowMillis() int64 { return atomic.LoadInt64(&f.millis) }
func (f *fakeClock) advance(d time.Duration) {
	atomic.AddInt64(&f.millis, d.Milliseconds())
}

func TestWatchdogAbortsStaleSession(t *testing.T) {
	server, peer := net.Pipe()
	defer peer.Close()

	clock := &fakeClock{millis: 1000}
	// built directly so no read loop is running to keep refreshing the
	// liveness timers; this isolates the watchdog's own staleness check
	session := NewSession(server, nil, 10*time.Millisecond, 64, clock, NewStdLogger(false), "test")

	done := make(chan struct{})
	aborted := make(chan struct{})
	go watchdog(session, done, func() { close(aborted) })

	clock.advance(3 * time.Second)

	select {
	case <-aborted:
	case <-time.After(3 * time.Second):
		t.Fatal("watchdog did not abort a stale session")
	}
	close(done)
}

func TestWatchdogIgnoresOnceWhenFlagged(t *testing.T) {
	server, peer := net.Pipe()
	defer peer.Close()
	defer server.Close()

	clock := &fakeClock{millis: 1000}
	session := NewSession(server, nil, 10*time.Millisecond, 64, clock, NewStdLogger(false), "test")
	session.IgnoreNextWatchdogTick()

	done := make(chan struct{})
	var aborted int32
	go watchdog(session, done, func() { atomic.StoreInt32(&aborted, 1) })

	clock.advance(3 * time.Second)
	// give the first tick a chance to fire and be suppressed
	time.Sleep(1500 * time.Millisecond)
	close(done)

	if atomic.LoadInt32(&aborted) != 0 {
		t.Fatal("watchdog aborted despite IgnoreNextWatchdogTick")
	}
}
