package frame

import (
	"bytes"
	"testing"
)

func TestEncodeEmptyPayload(t *testing.T) {
	got, err := Encode(DefaultHeader, nil)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	want := append(append([]byte{}, DefaultHeader...), 1, 0)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(empty) = %v, want %v", got, want)
	}
}

func TestEncodeShortPayload(t *testing.T) {
	got, err := Encode(DefaultHeader, []byte("hi"))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	want := append(append([]byte{}, DefaultHeader...), 1, 2)
	want = append(want, "hi"...)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(hi) = %v, want %v", got, want)
	}
}

func TestEncodeLargePayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0x7f}, 300)

	got, err := Encode(DefaultHeader, payload)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	want := append(append([]byte{}, DefaultHeader...), 2, 44, 1)
	want = append(want, payload...)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(300 bytes) mismatch, got len %d want len %d", len(got), len(want))
	}
}

func TestEncodeLengthDigitCounts(t *testing.T) {
	cases := []struct {
		n          int
		wantDigits int
	}{
		{0, 1},
		{2, 1},
		{255, 1},
		{256, 2},
		{300, 2},
		{1 << 32, 5},
	}

	for _, c := range cases {
		prefix, err := encodeLength(c.n)
		if err != nil {
			t.Fatalf("encodeLength(%d) returned error: %v", c.n, err)
		}
		if int(prefix[0]) != c.wantDigits {
			t.Fatalf("encodeLength(%d): digit count = %d, want %d", c.n, prefix[0], c.wantDigits)
		}
		if len(prefix) != c.wantDigits+1 {
			t.Fatalf("encodeLength(%d): prefix len = %d, want %d", c.n, len(prefix), c.wantDigits+1)
		}
	}
}
