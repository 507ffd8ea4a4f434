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
	"encoding/json"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sagernet/sing/common/bufio"

	"github.com/tcpframe/cbsk/frame"
)

// Sender is the mutex-guarded write half of a connection. Every
// TrySend/Send call is serialized through its lock, and concurrent callers
// never interleave partial frames onto the wire.
type Sender struct {
	mu      sync.Mutex
	conn    net.Conn
	header  []byte
	logger  Logger
	logHead string
}

func newSender(header []byte, logger Logger, logHead string) *Sender {
	return &Sender{header: header, logger: logger, logHead: logHead}
}

func (s *Sender) setConn(conn net.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Sender) clear() { s.setConn(nil) }

// TrySendBytes encodes payload as a cbsk frame and writes it, returning
// ErrNotConnected when there is no live write half and ErrEncodingTooLarge
// when the payload can't be framed.
func (s *Sender) TrySendBytes(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}

	encoded, err := frame.Encode(s.header, payload)
	if err != nil {
		return errors.Wrap(ErrEncodingTooLarge, err.Error())
	}

	return s.write(encoded)
}

// write emits one already-encoded frame. When the connection supports
// scatter-gather I/O it writes the header+length-prefix and the payload as
// two vectors, both slices of the contiguous buffer frame.Encode built;
// otherwise it writes the whole encoded frame with one Write.
func (s *Sender) write(encoded []byte) error {
	prefixLen := len(encoded) - lastPayloadLen(encoded, s.header)
	if bw, ok := bufio.CreateVectorisedWriter(s.conn); ok {
		vec := [][]byte{encoded[:prefixLen], encoded[prefixLen:]}
		if _, err := bufio.WriteVectorised(bw, vec); err != nil {
			return errors.Wrap(err, "write")
		}
		return nil
	}

	if _, err := s.conn.Write(encoded); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// lastPayloadLen re-derives how many trailing bytes of an already-encoded
// frame are payload, so write can split it into a header+prefix vector and
// a payload vector without threading the split point through the call.
func lastPayloadLen(encoded, header []byte) int {
	if len(encoded) <= len(header) {
		return 0
	}
	digitCount := int(encoded[len(header)])
	prefixLen := len(header) + 1 + digitCount
	if prefixLen > len(encoded) {
		return 0
	}
	return len(encoded) - prefixLen
}

// TrySendText is a convenience wrapper around TrySendBytes.
func (s *Sender) TrySendText(text string) error {
	return s.TrySendBytes([]byte(text))
}

// TrySendJSON marshals v with encoding/json and sends it as one frame.
func (s *Sender) TrySendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	return s.TrySendBytes(data)
}

// SendBytes is TrySendBytes with the error logged and swallowed, matching
// this package's "fire and forget unless you need to know" send style.
func (s *Sender) SendBytes(payload []byte) {
	if err := s.TrySendBytes(payload); err != nil {
		s.logger.Errorf("%s send bytes error: %+v", s.logHead, err)
	}
}

func (s *Sender) SendText(text string) {
	if err := s.TrySendText(text); err != nil {
		s.logger.Errorf("%s send text error: %+v", s.logHead, err)
	}
}

func (s *Sender) SendJSON(v interface{}) {
	if err := s.TrySendJSON(v); err != nil {
		s.logger.Errorf("%s send json error: %+v", s.logHead, err)
	}
}
