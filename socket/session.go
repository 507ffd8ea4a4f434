// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package socket implements the managed half of cbsk: a per-connection read
// loop paired with a liveness watchdog, a mutex-guarded send path, and the
// configuration and collaborator types (Logger, Clock) shared by the client
// and server endpoints built on top of it.
package socket

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/tcpframe/cbsk/frame"
)

// Session drives one accepted or dialed net.Conn: it reads with a deadline,
// feeds bytes to a frame.Parser, dispatches the resulting events, and runs
// a watchdog alongside the read loop to catch connections that have gone
// quiet without returning a socket error.
type Session struct {
	conn        net.Conn
	parser      *frame.Parser
	Sender      *Sender
	readTimeout time.Duration
	bufLen      int
	clock       Clock
	logger      Logger
	logHead     string

	recvTime    *atomicTime
	timeoutTime *atomicTime
	waiting     int32
	ignoreOnce  int32
}

// NewSession wraps conn for framed reads and writes. header selects the
// cbsk header to scan for; a nil header falls back to frame.DefaultHeader.
func NewSession(conn net.Conn, header []byte, readTimeout time.Duration, bufLen int, clock Clock, logger Logger, logHead string) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.NowMillis()

	parser := frame.NewParser(header)
	parser.SetMinCapacity(bufLen)

	s := &Session{
		conn:        conn,
		parser:      parser,
		readTimeout: readTimeout,
		bufLen:      bufLen,
		clock:       clock,
		logger:      logger,
		logHead:     logHead,
		recvTime:    newAtomicTime(now),
		timeoutTime: newAtomicTime(now),
	}
	s.Sender = newSender(headerOrDefault(header), logger, logHead)
	s.Sender.setConn(conn)
	return s
}

func headerOrDefault(header []byte) []byte {
	if len(header) == 0 {
		return frame.DefaultHeader
	}
	return header
}

// GetRecvTime returns the millisecond timestamp of the last successful
// read, per the Clock in use.
func (s *Session) GetRecvTime() int64 { return s.recvTime.get() }

// IgnoreNextWatchdogTick tells the watchdog to skip its very next abort
// check, for callers about to run a long synchronous callback that would
// otherwise make the liveness timers look stale.
func (s *Session) IgnoreNextWatchdogTick() { atomic.StoreInt32(&s.ignoreOnce, 1) }

func (s *Session) takeIgnoreOnce() bool {
	return atomic.CompareAndSwapInt32(&s.ignoreOnce, 1, 0)
}

func (s *Session) isWaitingCallback() bool {
	return atomic.LoadInt32(&s.waiting) == 1
}

func (s *Session) setWaitingCallback(v bool) {
	n := int32(0)
	if v {
		n = 1
	}
	atomic.StoreInt32(&s.waiting, n)
}

// Run reads conn until it closes or goes silent for too long, invoking
// dispatch for every frame.Event the parser produces. It returns once the
// read loop exits; the caller is responsible for closing conn afterward.
func (s *Session) Run(dispatch func(frame.Event)) error {
	done := make(chan struct{})
	go watchdog(s, done, func() {
		_ = s.conn.Close()
	})
	defer close(done)

	buf := make([]byte, s.bufLen)
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			s.logger.Warnf("%s set read deadline failed: %v", s.logHead, err)
		}

		n, err := s.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.timeoutTime.set(s.clock.NowMillis())
				continue
			}
			return errors.Wrap(err, "read")
		}

		if n == 0 {
			return errors.New("read data length is 0, connection is closed")
		}

		s.recvTime.set(s.clock.NowMillis())

		for _, ev := range s.parser.Feed(buf[:n]) {
			s.setWaitingCallback(true)
			dispatch(ev)
			s.timeoutTime.set(s.clock.NowMillis())
			s.setWaitingCallback(false)
		}
	}
}

// Close closes conn, which ends a running Run's read loop, and clears the
// write half of the session so further sends fail with ErrNotConnected.
func (s *Session) Close() {
	_ = s.conn.Close()
	s.Sender.clear()
}
