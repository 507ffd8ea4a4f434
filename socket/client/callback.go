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

package client

// Callback is the set of hooks a cbsk client notifies as the connection's
// state changes and data arrives. Embed NopCallback to pick up no-op
// defaults for every hook; those defaults do not log.
type Callback interface {
	Conn()
	DisConn()
	ReConn(attempt int)
	ErrorFrame(data []byte)
	TooLongFrame(lengthByte byte)
	Recv(data []byte)
}

// NopCallback is a Callback whose methods do nothing. Embed it in a
// business type and override only the hooks you care about.
type NopCallback struct{}

func (NopCallback) Conn()                  {}
func (NopCallback) DisConn()               {}
func (NopCallback) ReConn(attempt int)     {}
func (NopCallback) ErrorFrame(data []byte) {}
func (NopCallback) TooLongFrame(b byte)    {}
func (NopCallback) Recv(data []byte)       {}
