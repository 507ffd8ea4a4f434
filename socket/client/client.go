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

// Package client implements the cbsk client endpoint: a dial/read/reconnect
// supervisor built on top of package socket's session and sender.
package client

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/tcpframe/cbsk/frame"
	"github.com/tcpframe/cbsk/socket"
)

// Client dials conf.Addr, reads framed data off the connection, and
// reconnects according to conf.ReConn when the connection drops, until
// Stop is called.
type Client struct {
	conf *socket.ClientConfig
	cb   Callback

	mu      sync.Mutex
	session *socket.Session
	enabled int32
}

// New creates a Client. Call Start to begin connecting.
func New(conf *socket.ClientConfig, cb Callback) *Client {
	return &Client{conf: conf, cb: cb, enabled: 1}
}

// Start runs the dial/read/reconnect supervisor loop until Stop is called
// or reconnection is disabled and either a connection attempt fails or the
// connection ends. After a connection ends it waits conf.ReConn.Delay
// before dialing again. It normally
// never returns while the caller wants the client running, so call it in
// its own goroutine.
func (c *Client) Start() {
	for {
		c.connect()

		if !c.conf.ReConn.Enable || atomic.LoadInt32(&c.enabled) == 0 {
			return
		}
		c.conf.Logger.Errorf("%s tcp server disconnected, preparing for reconnection", c.conf.LogHead)
		time.Sleep(c.conf.ReConn.Delay)
	}
}

// connect dials, and on success runs the read loop until it exits; on
// failure it sleeps conf.ReConn.Delay and retries, unless reconnection is
// disabled.
func (c *Client) connect() {
	attempt := 0
	for {
		if atomic.LoadInt32(&c.enabled) == 0 {
			return
		}
		attempt++

		conn, err := c.dial()
		if err == nil {
			c.readLoop(conn)
			return
		}

		c.conf.Logger.Errorf("%s tcp server connect error: %+v", c.conf.LogHead, err)
		if !c.conf.ReConn.Enable || atomic.LoadInt32(&c.enabled) == 0 {
			return
		}

		c.cb.ReConn(attempt)
		c.conf.Logger.Infof("%s tcp service will reconnect in %s", c.conf.LogHead, c.conf.ReConn.Delay)
		time.Sleep(c.conf.ReConn.Delay)
	}
}

func (c *Client) dial() (net.Conn, error) {
	c.conf.Logger.Infof("%s try connect to tcp server", c.conf.LogHead)
	conn, err := net.DialTimeout("tcp", c.conf.Addr, c.conf.ConnTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	c.conf.Logger.Infof("%s tcp server connect success", c.conf.LogHead)
	return conn, nil
}

func (c *Client) readLoop(conn net.Conn) {
	session := socket.NewSession(conn, c.conf.Header, c.conf.ReadTimeout, c.conf.BufLen, c.conf.Clock, c.conf.Logger, c.conf.LogHead)

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.conf.Logger.Infof("%s started tcp server read data async success", c.conf.LogHead)
	c.cb.Conn()

	err := session.Run(c.dispatch)
	if err != nil && atomic.LoadInt32(&c.enabled) == 1 {
		c.conf.Logger.Errorf("%s tcp server read data error: %+v", c.conf.LogHead, err)
	}

	c.shutdown()
	c.cb.DisConn()
	c.conf.Logger.Infof("%s tcp server read data async is shutdown", c.conf.LogHead)
}

func (c *Client) dispatch(ev frame.Event) {
	switch ev.Kind {
	case frame.KindError:
		c.cb.ErrorFrame(ev.Data)
	case frame.KindTooLong:
		c.cb.TooLongFrame(ev.TooLong)
	case frame.KindPayload:
		c.cb.Recv(ev.Data)
	}
}

// Stop shuts down the connection and disables reconnection; the client
// will not dial again afterward.
func (c *Client) Stop() {
	atomic.StoreInt32(&c.enabled, 0)
	c.shutdown()
}

// ReConn shuts the current connection down; if reconnection is enabled the
// supervisor loop will dial again, otherwise the client stays stopped.
func (c *Client) ReConn() {
	c.shutdown()
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return
	}
	c.session.Close()
	c.session = nil
}

// IsConnected reports whether the client currently has a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// GetRecvTime returns the millisecond timestamp of the last successful
// read on the current connection, or 0 if there is none.
func (c *Client) GetRecvTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.GetRecvTime()
}

func (c *Client) sender() *socket.Sender {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Sender
}

func (c *Client) TrySendBytes(payload []byte) error {
	s := c.sender()
	if s == nil {
		return socket.ErrNotConnected
	}
	return s.TrySendBytes(payload)
}

func (c *Client) TrySendText(text string) error {
	s := c.sender()
	if s == nil {
		return socket.ErrNotConnected
	}
	return s.TrySendText(text)
}

func (c *Client) TrySendJSON(v interface{}) error {
	s := c.sender()
	if s == nil {
		return socket.ErrNotConnected
	}
	return s.TrySendJSON(v)
}

func (c *Client) SendBytes(payload []byte) {
	if err := c.TrySendBytes(payload); err != nil {
		c.conf.Logger.Errorf("%s send bytes error: %+v", c.conf.LogHead, err)
	}
}

func (c *Client) SendText(text string) {
	if err := c.TrySendText(text); err != nil {
		c.conf.Logger.Errorf("%s send text error: %+v", c.conf.LogHead, err)
	}
}

func (c *Client) SendJSON(v interface{}) {
	if err := c.TrySendJSON(v); err != nil {
		c.conf.Logger.Errorf("%s send json error: %+v", c.conf.LogHead, err)
	}
}
