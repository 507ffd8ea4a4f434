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

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current time in milliseconds. The watchdog and session
// use it instead of calling time.Now directly so tests can inject a fake
// clock to drive timeout scenarios deterministically.
type Clock interface {
	NowMillis() int64
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) NowMillis() int64 { return time.Now().UnixMilli() }

// atomicTime is a monotonically-set millisecond timestamp shared between a
// session's read loop and its watchdog goroutine.
type atomicTime struct {
	millis int64
}

func newAtomicTime(now int64) *atomicTime {
	a := &atomicTime{}
	a.set(now)
	return a
}

func (a *atomicTime) set(now int64) { atomic.StoreInt64(&a.millis, now) }
func (a *atomicTime) get() int64    { return atomic.LoadInt64(&a.millis) }
