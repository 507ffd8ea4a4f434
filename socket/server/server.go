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

// Package server implements the cbsk server endpoint: a bind/accept loop
// that spawns a session per connection on top of package socket.
package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/tcpframe/cbsk/frame"
	"github.com/tcpframe/cbsk/socket"
)

// acceptRetryDelay is how long Serve waits before retrying accept after a
// transient accept error, instead of giving up on the listener.
const acceptRetryDelay = 3 * time.Second

// Server binds conf.Addr and spawns one Session per accepted connection,
// dispatching events to cb for each.
type Server struct {
	conf *socket.ServerConfig
	cb   Callback

	mu       sync.Mutex
	listener net.Listener
	enabled  int32
}

// New creates a Server. Call Serve to start listening.
func New(conf *socket.ServerConfig, cb Callback) *Server {
	return &Server{conf: conf, cb: cb, enabled: 1}
}

// Serve binds conf.Addr and accepts connections until Stop is called or an
// unrecoverable bind error occurs. A transient accept error is logged and
// retried after acceptRetryDelay rather than returned, so a single bad
// accept never takes the server down.
func (s *Server) Serve() error {
	listener, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return errors.Wrapf(err, "%s tcp bind [%s] error", s.conf.LogHead, s.conf.Addr)
	}
	defer listener.Close()

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.conf.Logger.Infof("%s listener TCP[%s] success", s.conf.LogHead, s.conf.Addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&s.enabled) == 0 {
				return nil
			}
			s.conf.Logger.Errorf("%s wait tcp accept error, wait for the next accept in three seconds: %+v", s.conf.LogHead, err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		go s.handle(conn)
	}
}

// Stop sets a stop flag and closes the listener; the accept loop observes
// it on the next iteration (via the resulting Accept error) and exits
// instead of retrying.
func (s *Server) Stop() {
	atomic.StoreInt32(&s.enabled, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) handle(conn net.Conn) {
	addr := conn.RemoteAddr()
	logHead := s.conf.LogHead + " tcp client[" + addr.String() + "]"

	session := socket.NewSession(conn, s.conf.Header, s.conf.ReadTimeout, s.conf.BufLen, s.conf.Clock, s.conf.Logger, logHead)
	client := newClient(addr, logHead, session)

	if s.conf.Log {
		s.conf.Logger.Infof("%s start tcp client read async success", logHead)
	}
	s.cb.Conn(client)

	err := session.Run(func(ev frame.Event) {
		s.dispatch(ev, client)
	})
	if err != nil && s.conf.Log {
		s.conf.Logger.Errorf("%s read tcp client data error: %+v", logHead, err)
	}

	session.Close()
	_ = conn.Close()

	s.cb.DisConn(client)
	if s.conf.Log {
		s.conf.Logger.Infof("%s tcp client read async closed", logHead)
	}
}

func (s *Server) dispatch(ev frame.Event, client *Client) {
	switch ev.Kind {
	case frame.KindError:
		s.cb.ErrorFrame(ev.Data, client)
	case frame.KindTooLong:
		s.cb.TooLongFrame(ev.TooLong, client)
	case frame.KindPayload:
		s.cb.Recv(ev.Data, client)
	}
}
