package socket

import (
	"net"
	"testing"
	"time"

	"github.com/tcpframe/cbsk/frame"
)

func TestSessionRunDispatchesPayload(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	session := NewSession(server, nil, time.Second, 64, SystemClock{}, NewStdLogger(false), "test")

	recvd := make(chan []byte, 1)
	done := make(chan error, 1)
	go func() {
		done <- session.Run(func(ev frame.Event) {
			if ev.Kind == frame.KindPayload {
				recvd <- ev.Data
			}
		})
	}()

	encoded, err := frame.Encode(frame.DefaultHeader, []byte("hello"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := client.Write(encoded); err != nil {
		t.Fatalf("client write failed: %v", err)
	}

	select {
	case data := <-recvd:
		if string(data) != "hello" {
			t.Fatalf("payload = %q, want %q", data, "hello")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched payload")
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session.Run did not return after the peer closed")
	}
}

func TestSessionSenderRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	session := NewSession(server, nil, time.Second, 64, SystemClock{}, NewStdLogger(false), "test")

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 256)
		n, err := client.Read(buf)
		if err != nil {
			readDone <- nil
			return
		}
		readDone <- buf[:n]
	}()

	if err := session.Sender.TrySendBytes([]byte("pong")); err != nil {
		t.Fatalf("TrySendBytes failed: %v", err)
	}

	select {
	case got := <-readDone:
		want, _ := frame.Encode(frame.DefaultHeader, []byte("pong"))
		if string(got) != string(want) {
			t.Fatalf("wire bytes = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for written frame")
	}
}

func TestSessionSenderNotConnected(t *testing.T) {
	sender := newSender(frame.DefaultHeader, NewStdLogger(false), "test")
	if err := sender.TrySendBytes([]byte("x")); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
