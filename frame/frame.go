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

// Package frame implements the cbsk wire format: a header-prefixed,
// length-prefixed binary frame, plus a resumable stream parser that turns a
// byte stream into a sequence of frame events.
package frame

import "github.com/pkg/errors"

// DefaultHeader is the header cbsk uses when none is configured.
var DefaultHeader = []byte("cbsk")

// maxLenDigits is the largest base-256 digit count the length prefix may
// carry. A single prefix byte selects the digit count, so it tops out at 8.
const maxLenDigits = 8

// ErrPayloadTooLarge is returned by Encode when a payload's length cannot be
// represented in 8 base-256 digits.
var ErrPayloadTooLarge = errors.New("frame: payload too large to encode")

// Encode builds a complete cbsk frame: header, minimal base-256
// little-endian length digits, then payload.
func Encode(header, payload []byte) ([]byte, error) {
	lenPrefix, err := encodeLength(len(payload))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+len(lenPrefix)+len(payload))
	out = append(out, header...)
	out = append(out, lenPrefix...)
	out = append(out, payload...)
	return out, nil
}

// encodeLength returns the length prefix for n: one byte giving the digit
// count L, followed by L base-256 little-endian digits. L is always at
// least 1, even for an empty payload (n == 0 produces digit count 1 with a
// single zero digit).
func encodeLength(n int) ([]byte, error) {
	var digits []byte
	remaining := n
	for {
		digits = append(digits, byte(remaining%256))
		remaining /= 256
		if remaining == 0 {
			break
		}
	}

	if len(digits) > maxLenDigits {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "length %d needs %d digits", n, len(digits))
	}

	prefix := make([]byte, 0, 1+len(digits))
	prefix = append(prefix, byte(len(digits)))
	prefix = append(prefix, digits...)
	return prefix, nil
}
