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
	"fmt"
	"time"
)

// ReConn controls whether and how fast a client reconnects after losing its
// server connection.
type ReConn struct {
	Enable bool
	Delay  time.Duration
}

// EnableReConn returns a ReConn policy that reconnects after delay.
func EnableReConn(delay time.Duration) ReConn {
	return ReConn{Enable: true, Delay: delay}
}

// ClientConfig configures a Client endpoint.
type ClientConfig struct {
	Name        string
	Addr        string
	LogHead     string
	ConnTimeout time.Duration
	ReadTimeout time.Duration
	BufLen      int
	ReConn      ReConn
	Logger      Logger
	Clock       Clock
	Header      []byte
}

// ClientOption customizes a ClientConfig built by NewClientConfig.
type ClientOption func(*ClientConfig)

// NewClientConfig builds a ClientConfig with the defaults the rest of this
// package relies on: a 10s connect timeout, a 1s read timeout, reconnection
// enabled with a 3s delay, and a 1024-byte read buffer.
func NewClientConfig(name, addr string, opts ...ClientOption) *ClientConfig {
	c := &ClientConfig{
		Name:        name,
		Addr:        addr,
		LogHead:     fmt.Sprintf("%s[%s]", name, addr),
		ConnTimeout: 10 * time.Second,
		ReadTimeout: time.Second,
		BufLen:      1024,
		ReConn:      EnableReConn(3 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = NewStdLogger(false)
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	return c
}

func WithConnTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ConnTimeout = d }
}

func WithReadTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.ReadTimeout = d }
}

func WithBufLen(n int) ClientOption {
	return func(c *ClientConfig) { c.BufLen = n }
}

func WithReConn(r ReConn) ClientOption {
	return func(c *ClientConfig) { c.ReConn = r }
}

func WithClientLogger(l Logger) ClientOption {
	return func(c *ClientConfig) { c.Logger = l }
}

func WithClientHeader(header []byte) ClientOption {
	return func(c *ClientConfig) { c.Header = header }
}

// ServerConfig configures a Server endpoint.
type ServerConfig struct {
	Name        string
	Addr        string
	LogHead     string
	ReadTimeout time.Duration
	BufLen      int
	Log         bool
	Logger      Logger
	Clock       Clock
	Header      []byte
}

// ServerOption customizes a ServerConfig built by NewServerConfig.
type ServerOption func(*ServerConfig)

// NewServerConfig builds a ServerConfig with a 1s read timeout, a
// 1024-byte read buffer, and per-connection logging enabled.
func NewServerConfig(name, addr string, opts ...ServerOption) *ServerConfig {
	c := &ServerConfig{
		Name:        name,
		Addr:        addr,
		LogHead:     fmt.Sprintf("%s[%s]", name, addr),
		ReadTimeout: time.Second,
		BufLen:      1024,
		Log:         true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = NewStdLogger(false)
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	return c
}

func WithServerReadTimeout(d time.Duration) ServerOption {
	return func(c *ServerConfig) { c.ReadTimeout = d }
}

func WithServerBufLen(n int) ServerOption {
	return func(c *ServerConfig) { c.BufLen = n }
}

func WithServerLog(enable bool) ServerOption {
	return func(c *ServerConfig) { c.Log = enable }
}

func WithServerLogger(l Logger) ServerOption {
	return func(c *ServerConfig) { c.Logger = l }
}

func WithServerHeader(header []byte) ServerOption {
	return func(c *ServerConfig) { c.Header = header }
}
