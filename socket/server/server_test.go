package server

import (
	"net"
	"testing"
	"time"

	"github.com/tcpframe/cbsk/frame"
	"github.com/tcpframe/cbsk/socket"
)

type recordingCallback struct {
	NopCallback
	conn     chan *Client
	disconn  chan *Client
	recvd    chan []byte
	errFrame chan []byte
	tooLong  chan byte
}

func (cb *recordingCallback) Conn(c *Client)    { cb.conn <- c }
func (cb *recordingCallback) DisConn(c *Client) { cb.disconn <- c }
func (cb *recordingCallback) Recv(data []byte, c *Client) {
	cb.recvd <- data
}
func (cb *recordingCallback) ErrorFrame(data []byte, c *Client) { cb.errFrame <- data }
func (cb *recordingCallback) TooLongFrame(b byte, c *Client)    { cb.tooLong <- b }

func TestServeAcceptsAndDispatches(t *testing.T) {
	addr := "127.0.0.1:18948"
	cb := &recordingCallback{
		conn:     make(chan *Client, 1),
		disconn:  make(chan *Client, 1),
		recvd:    make(chan []byte, 1),
		errFrame: make(chan []byte, 1),
		tooLong:  make(chan byte, 1),
	}
	conf := socket.NewServerConfig("test", addr, socket.WithServerLog(false))
	srv := New(conf, cb)
	go srv.Serve()

	time.Sleep(100 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	select {
	case c := <-cb.conn:
		if c.Addr == nil {
			t.Fatal("expected a non-nil remote addr on the accepted client")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never reported a connection")
	}

	encoded, err := frame.Encode(frame.DefaultHeader, []byte("hello"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := conn.Write(encoded); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case data := <-cb.recvd:
		if string(data) != "hello" {
			t.Fatalf("payload = %q, want %q", data, "hello")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never dispatched the payload")
	}

	conn.Close()

	select {
	case <-cb.disconn:
	case <-time.After(2 * time.Second):
		t.Fatal("server never reported disconnection")
	}
}

func TestServeStop(t *testing.T) {
	addr := "127.0.0.1:18949"
	conf := socket.NewServerConfig("test", addr, socket.WithServerLog(false))
	srv := New(conf, &NopCallback{})

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve() }()

	time.Sleep(100 * time.Millisecond)
	srv.Stop()

	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("Serve returned an error after Stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}

	if _, err := net.Dial("tcp", addr); err == nil {
		t.Fatal("expected dial to fail after the server stopped listening")
	}
}

func TestServeBindError(t *testing.T) {
	conf := socket.NewServerConfig("test", "not-a-valid-address")
	srv := New(conf, &NopCallback{})

	if err := srv.Serve(); err == nil {
		t.Fatal("expected a bind error for an invalid address")
	}
}
