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

package frame

// Kind identifies what a parsed Event carries.
type Kind int

const (
	// KindError marks bytes skipped while scanning for the next header match.
	KindError Kind = iota
	// KindPayload marks a fully decoded frame payload.
	KindPayload
	// KindTooLong marks a length-prefix digit count greater than 8.
	KindTooLong
)

// Event is one unit of parser output. For KindError and KindPayload, Data
// holds the relevant bytes. For KindTooLong, TooLong holds the offending
// digit-count byte and Data is unused.
type Event struct {
	Kind    Kind
	Data    []byte
	TooLong byte
}

// Parser turns a byte stream into a sequence of Events. It is resumable:
// Feed may be called repeatedly with successive chunks read off a
// connection, and bytes that don't yet form a complete frame are carried
// forward internally. A Parser is not safe for concurrent use.
type Parser struct {
	header []byte
	carry  []byte
	minCap int
}

// NewParser creates a Parser that looks for the given header. A nil or
// empty header falls back to DefaultHeader.
func NewParser(header []byte) *Parser {
	if len(header) == 0 {
		header = DefaultHeader
	}
	return &Parser{header: header}
}

// SetMinCapacity keeps the carry buffer's capacity from shrinking below n,
// reallocating when a carry handed back by verify/analyze has less. n is
// normally the read buffer size, so appending the next chunk to the carry
// at the start of Feed rarely needs to reallocate.
func (p *Parser) SetMinCapacity(n int) {
	p.minCap = n
}

func (p *Parser) setCarry(b []byte) {
	if p.minCap > 0 && cap(b) < p.minCap {
		grown := make([]byte, len(b), p.minCap)
		copy(grown, b)
		b = grown
	}
	p.carry = b
}

// Feed appends chunk to whatever bytes are carried from the previous call
// and runs the verify/analyze cycle until no further frame can be
// extracted, returning every Event produced along the way.
func (p *Parser) Feed(chunk []byte) []Event {
	bytes := append(p.carry, chunk...)
	p.carry = nil

	var events []Event
	for {
		errFrame, dataFrame, tooShort := verify(bytes, p.header)
		if len(errFrame) > 0 {
			events = append(events, Event{Kind: KindError, Data: errFrame})
		}
		if len(tooShort) > 0 {
			p.setCarry(tooShort)
			return events
		}

		var nextVerify []byte
		// dataFrame is nil only when verify found no header match at all; a
		// matched header with zero trailing bytes still needs to go through
		// analyze, since that's exactly its "not enough bytes yet" case.
		if dataFrame != nil {
			data, ok, aTooShort, tooLong, nv := analyze(dataFrame, p.header)
			if tooLong != nil {
				events = append(events, Event{Kind: KindTooLong, TooLong: *tooLong})
			}
			// ok, not len(data) > 0: a zero-length payload is a valid
			// decoded frame, not an absence of one.
			if ok {
				events = append(events, Event{Kind: KindPayload, Data: data})
			}
			if len(nv) > 0 {
				nextVerify = nv
			} else if len(aTooShort) > 0 {
				p.setCarry(aTooShort)
				return events
			}
		}

		if len(nextVerify) > 0 {
			bytes = nextVerify
			continue
		}
		break
	}

	return events
}

// verify scans bytes for the header, returning the garbage that preceded a
// match (errFrame), the bytes following the matched header (dataFrame), or
// the whole of bytes as tooShort when there isn't yet enough to tell.
func verify(bytes, header []byte) (errFrame, dataFrame, tooShort []byte) {
	if len(bytes) <= len(header) {
		return nil, nil, bytes
	}

	index := len(bytes)
	limit := len(bytes) - len(header) + 1
	for i := 0; i < limit; i++ {
		if bytes[i] != header[0] {
			continue
		}
		if matchesAt(bytes, header, i) {
			index = i
			break
		}
	}

	// header not found anywhere in the window: the whole span is garbage.
	if index == len(bytes) {
		return bytes, nil, nil
	}

	errFrame = bytes[:index]
	dataFrame = bytes[index+len(header):]
	return errFrame, dataFrame, nil
}

func matchesAt(bytes, header []byte, at int) bool {
	for j, h := range header {
		if bytes[at+j] != h {
			return false
		}
	}
	return true
}

// analyze consumes one frame's length prefix and payload from bytes (which
// has already had its header stripped by verify). It returns the decoded
// payload (data, valid only when ok is true — a zero-length payload is a
// legitimate decode, not an absence of one), bytes to carry forward
// re-prefixed with header because they were too short (tooShort), the
// offending digit-count byte when it exceeds 8 (tooLong), or the remainder
// to re-verify (nextVerify).
func analyze(bytes, header []byte) (data []byte, ok bool, tooShort []byte, tooLong *byte, nextVerify []byte) {
	// the digit-count byte itself is the only thing needed before the next
	// check can tell how many more bytes (if any) are still missing.
	if len(bytes) < 1 {
		return nil, false, prefixWithHeader(bytes, header), nil, nil
	}

	digitCount := int(bytes[0])
	if digitCount > maxLenDigits {
		b := bytes[0]
		return nil, false, nil, &b, bytes[1:]
	}
	if len(bytes) < digitCount+1 {
		return nil, false, prefixWithHeader(bytes, header), nil, nil
	}

	dataLen := 0
	for i := 0; i < digitCount; i++ {
		dataLen += pow256(i) * int(bytes[1+i])
	}
	allLen := dataLen + digitCount + 1

	if len(bytes) < allLen {
		return nil, false, prefixWithHeader(bytes, header), nil, nil
	}

	data = bytes[digitCount+1 : allLen]
	nextVerify = bytes[allLen:]
	return data, true, nil, nil, nextVerify
}

func prefixWithHeader(bytes, header []byte) []byte {
	out := make([]byte, 0, len(header)+len(bytes))
	out = append(out, header...)
	out = append(out, bytes...)
	return out
}

func pow256(exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= 256
	}
	return result
}
