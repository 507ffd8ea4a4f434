package client

import (
	"testing"
	"time"

	"github.com/tcpframe/cbsk/socket"
	"github.com/tcpframe/cbsk/socket/server"
)

type recordingServerCallback struct {
	server.NopCallback
	recvd chan []byte
}

func (cb *recordingServerCallback) Recv(data []byte, c *server.Client) {
	cb.recvd <- data
	c.SendBytes([]byte("ack:" + string(data)))
}

type recordingClientCallback struct {
	NopCallback
	recvd     chan []byte
	connected chan struct{}
}

func (cb *recordingClientCallback) Conn() { close(cb.connected) }
func (cb *recordingClientCallback) Recv(data []byte) {
	cb.recvd <- data
}

func TestClientServerRoundTrip(t *testing.T) {
	addr := "127.0.0.1:18947"

	srvCb := &recordingServerCallback{recvd: make(chan []byte, 1)}
	srvConf := socket.NewServerConfig("test-server", addr, socket.WithServerLog(false))
	srv := server.New(srvConf, srvCb)
	go srv.Serve()

	time.Sleep(100 * time.Millisecond)

	cliCb := &recordingClientCallback{recvd: make(chan []byte, 1), connected: make(chan struct{})}
	cliConf := socket.NewClientConfig("test-client", addr, socket.WithReConn(socket.ReConn{Enable: false}))
	cli := New(cliConf, cliCb)
	go cli.Start()

	select {
	case <-cliCb.connected:
	case <-time.After(2 * time.Second):
		t.Fatal("client never connected")
	}

	if err := cli.TrySendBytes([]byte("ping")); err != nil {
		t.Fatalf("TrySendBytes failed: %v", err)
	}

	select {
	case got := <-srvCb.recvd:
		if string(got) != "ping" {
			t.Fatalf("server received %q, want %q", got, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the frame")
	}

	select {
	case got := <-cliCb.recvd:
		if string(got) != "ack:ping" {
			t.Fatalf("client received %q, want %q", got, "ack:ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client never received the ack")
	}

	cli.Stop()
}

func TestClientNotConnectedBeforeStart(t *testing.T) {
	conf := socket.NewClientConfig("idle", "127.0.0.1:1")
	cli := New(conf, &NopCallback{})

	if cli.IsConnected() {
		t.Fatal("client should not be connected before Start")
	}
	if err := cli.TrySendBytes([]byte("x")); err != socket.ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
