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

// Callback is the set of hooks a cbsk server notifies as clients connect,
// disconnect, and send data. Embed NopCallback to pick up no-op defaults
// for every hook; those defaults do not log.
type Callback interface {
	Conn(c *Client)
	DisConn(c *Client)
	ErrorFrame(data []byte, c *Client)
	TooLongFrame(lengthByte byte, c *Client)
	Recv(data []byte, c *Client)
}

// NopCallback is a Callback whose methods do nothing. Embed it in a
// business type and override only the hooks you care about.
type NopCallback struct{}

func (NopCallback) Conn(c *Client)                    {}
func (NopCallback) DisConn(c *Client)                 {}
func (NopCallback) ErrorFrame(data []byte, c *Client) {}
func (NopCallback) TooLongFrame(b byte, c *Client)    {}
func (NopCallback) Recv(data []byte, c *Client)       {}
