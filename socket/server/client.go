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

package server

import (
	"net"

	"github.com/tcpframe/cbsk/socket"
)

// Client is the handle a server hands to its Callback for one accepted
// connection. It is safe to share across goroutines and to retain past the
// callback call that first received it, for as long as the caller wants to
// address that connection (e.g. to push data to it later).
type Client struct {
	Addr    net.Addr
	LogHead string

	session *socket.Session
}

func newClient(addr net.Addr, logHead string, session *socket.Session) *Client {
	return &Client{Addr: addr, LogHead: logHead, session: session}
}

// GetRecvTime returns the millisecond timestamp of this client's last
// successful read.
func (c *Client) GetRecvTime() int64 { return c.session.GetRecvTime() }

// IgnoreNextWatchdogTick skips this client's watchdog's next abort check.
func (c *Client) IgnoreNextWatchdogTick() { c.session.IgnoreNextWatchdogTick() }

func (c *Client) TrySendBytes(payload []byte) error { return c.session.Sender.TrySendBytes(payload) }
func (c *Client) TrySendText(text string) error     { return c.session.Sender.TrySendText(text) }
func (c *Client) TrySendJSON(v interface{}) error   { return c.session.Sender.TrySendJSON(v) }

func (c *Client) SendBytes(payload []byte) { c.session.Sender.SendBytes(payload) }
func (c *Client) SendText(text string)     { c.session.Sender.SendText(text) }
func (c *Client) SendJSON(v interface{})   { c.session.Sender.SendJSON(v) }
