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

package socket

import "time"

// watchdog aborts a session's read loop when it has been silent for too
// long: both its last-received-data time and its last-read-timeout time
// must be stale by more than checkTimeout, and the loop must not be in the
// middle of dispatching a callback. A single ignoreOnce skips one tick's
// abort check, for callers who know a long synchronous callback is about
// to make the timers look stale on purpose.
func watchdog(s *Session, done <-chan struct{}, abort func()) {
	checkTimeout := s.readTimeout.Milliseconds() + 1000
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			now := s.clock.NowMillis()
			timeoutDiff := now - s.timeoutTime.get()
			recvDiff := now - s.recvTime.get()

			if s.isWaitingCallback() {
				continue
			}

			if s.takeIgnoreOnce() {
				continue
			}

			if timeoutDiff > checkTimeout && recvDiff > checkTimeout {
				abort()
				return
			}
		}
	}
}
