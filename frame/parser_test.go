package frame

import (
	"bytes"
	"testing"
)

func encodeOrFatal(t *testing.T, payload []byte) []byte {
	t.Helper()
	out, err := Encode(DefaultHeader, payload)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	return out
}

func TestParserSingleFrame(t *testing.T) {
	p := NewParser(nil)
	frame := encodeOrFatal(t, []byte("hi"))

	events := p.Feed(frame)
	if len(events) != 1 || events[0].Kind != KindPayload {
		t.Fatalf("unexpected events: %+v", events)
	}
	if !bytes.Equal(events[0].Data, []byte("hi")) {
		t.Fatalf("payload = %q, want %q", events[0].Data, "hi")
	}
}

func TestParserChunkedDelivery(t *testing.T) {
	p := NewParser(nil)
	frame := encodeOrFatal(t, bytes.Repeat([]byte{0xAB}, 300))

	mid := len(frame) / 2
	first := p.Feed(frame[:mid])
	if len(first) != 0 {
		t.Fatalf("expected no events from a partial frame, got %+v", first)
	}

	second := p.Feed(frame[mid:])
	if len(second) != 1 || second[0].Kind != KindPayload {
		t.Fatalf("unexpected events after completing the frame: %+v", second)
	}
	if len(second[0].Data) != 300 {
		t.Fatalf("payload len = %d, want 300", len(second[0].Data))
	}
}

func TestParserByteAtATimeDelivery(t *testing.T) {
	p := NewParser(nil)
	frame := encodeOrFatal(t, []byte("streamed"))

	var payload []byte
	for _, b := range frame {
		for _, ev := range p.Feed([]byte{b}) {
			if ev.Kind == KindPayload {
				payload = ev.Data
			}
		}
	}

	if !bytes.Equal(payload, []byte("streamed")) {
		t.Fatalf("payload = %q, want %q", payload, "streamed")
	}
}

func TestParserGarbagePrefix(t *testing.T) {
	p := NewParser(nil)
	garbage := []byte("junk-before-header!!")
	frame := encodeOrFatal(t, []byte("payload"))

	events := p.Feed(append(garbage, frame...))

	if len(events) != 2 {
		t.Fatalf("expected an error event and a payload event, got %+v", events)
	}
	if events[0].Kind != KindError || !bytes.Equal(events[0].Data, garbage) {
		t.Fatalf("error event = %+v, want garbage %q", events[0], garbage)
	}
	if events[1].Kind != KindPayload || !bytes.Equal(events[1].Data, []byte("payload")) {
		t.Fatalf("payload event = %+v", events[1])
	}
}

func TestParserTooLongFrame(t *testing.T) {
	p := NewParser(nil)
	// a hand-built frame whose digit-count byte claims 9 digits, which
	// exceeds the maximum of 8 and must be reported, then resynced. The two
	// trailing filler bytes are skipped during resync, before the next
	// header is found.
	malformed := append(append([]byte{}, DefaultHeader...), 9, 0, 0)
	next := encodeOrFatal(t, []byte("ok"))

	events := p.Feed(append(malformed, next...))

	var sawTooLong bool
	var payload []byte
	for _, ev := range events {
		switch ev.Kind {
		case KindTooLong:
			sawTooLong = true
			if ev.TooLong != 9 {
				t.Fatalf("TooLong byte = %d, want 9", ev.TooLong)
			}
		case KindPayload:
			payload = ev.Data
		}
	}

	if !sawTooLong {
		t.Fatalf("expected a KindTooLong event, got %+v", events)
	}
	if !bytes.Equal(payload, []byte("ok")) {
		t.Fatalf("expected resync to find the following frame, got payload %q", payload)
	}
}

func TestParserMultipleFramesInOneChunk(t *testing.T) {
	p := NewParser(nil)
	frame1 := encodeOrFatal(t, []byte("one"))
	frame2 := encodeOrFatal(t, []byte("two"))

	events := p.Feed(append(frame1, frame2...))

	if len(events) != 2 {
		t.Fatalf("expected two payload events, got %+v", events)
	}
	if !bytes.Equal(events[0].Data, []byte("one")) || !bytes.Equal(events[1].Data, []byte("two")) {
		t.Fatalf("unexpected payloads: %q, %q", events[0].Data, events[1].Data)
	}
}

func TestParserHeaderSplitAcrossChunks(t *testing.T) {
	p := NewParser(nil)
	frame := encodeOrFatal(t, []byte("split"))

	// the first chunk ends exactly on the last byte of the header, with
	// nothing following it yet; the header match must still be carried
	// forward rather than dropped.
	first := p.Feed(frame[:len(DefaultHeader)])
	if len(first) != 0 {
		t.Fatalf("expected no events yet, got %+v", first)
	}

	second := p.Feed(frame[len(DefaultHeader):])
	if len(second) != 1 || second[0].Kind != KindPayload {
		t.Fatalf("unexpected events: %+v", second)
	}
	if !bytes.Equal(second[0].Data, []byte("split")) {
		t.Fatalf("payload = %q, want %q", second[0].Data, "split")
	}
}

func TestParserHeaderMatchAtChunkEndAfterGarbage(t *testing.T) {
	p := NewParser(nil)
	frame := encodeOrFatal(t, []byte("tail"))

	// the header is found mid-buffer (after some garbage) but lands exactly
	// on the end of the chunk, so the scanned match has zero trailing bytes;
	// that match must still carry forward instead of being dropped.
	garbage := []byte("xyz")
	chunk1 := append(append([]byte{}, garbage...), DefaultHeader...)
	chunk2 := frame[len(DefaultHeader):]

	first := p.Feed(chunk1)
	if len(first) != 1 || first[0].Kind != KindError || !bytes.Equal(first[0].Data, garbage) {
		t.Fatalf("expected only the garbage error event, got %+v", first)
	}

	second := p.Feed(chunk2)
	if len(second) != 1 || second[0].Kind != KindPayload {
		t.Fatalf("unexpected events: %+v", second)
	}
	if !bytes.Equal(second[0].Data, []byte("tail")) {
		t.Fatalf("payload = %q, want %q", second[0].Data, "tail")
	}
}

func TestParserEmptyPayloadFrame(t *testing.T) {
	p := NewParser(nil)
	events := p.Feed(encodeOrFatal(t, nil))

	if len(events) != 1 || events[0].Kind != KindPayload || len(events[0].Data) != 0 {
		t.Fatalf("unexpected events for empty payload: %+v", events)
	}
}
