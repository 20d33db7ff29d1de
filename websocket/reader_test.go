package websocket

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// buildFrame constructs a raw RFC 6455 frame. If mask is non-nil, the
// payload is masked on the wire and the mask key is embedded, matching
// what a conforming client would send (and what this package's reader
// must still accept from a misbehaving peer).
func buildFrame(fin bool, opcode Opcode, rsv1, rsv2, rsv3 bool, payload []byte, mask *[4]byte) []byte {
	var b0 byte
	if fin {
		b0 |= 0x80
	}
	if rsv1 {
		b0 |= 0x40
	}
	if rsv2 {
		b0 |= 0x20
	}
	if rsv3 {
		b0 |= 0x10
	}
	b0 |= byte(opcode) & 0x0F

	var b1 byte
	if mask != nil {
		b1 |= 0x80
	}

	var out []byte
	length := len(payload)
	switch {
	case length < 126:
		b1 |= byte(length)
		out = append(out, b0, b1)
	case length < 1<<16:
		b1 |= 126
		out = append(out, b0, b1)
		var ext [2]byte
		binary.BigEndian.PutUint16(ext[:], uint16(length))
		out = append(out, ext[:]...)
	default:
		b1 |= 127
		out = append(out, b0, b1)
		var ext [8]byte
		binary.BigEndian.PutUint64(ext[:], uint64(length))
		out = append(out, ext[:]...)
	}

	wire := make([]byte, length)
	copy(wire, payload)
	if mask != nil {
		out = append(out, mask[:]...)
		maskInPlace(wire, *mask, 0)
	}
	out = append(out, wire...)
	return out
}

func newTestCodec(t *testing.T, wire []byte, scratchSize int) *Codec {
	t.Helper()
	c, err := New(make([]byte, scratchSize), bytes.NewReader(wire), io.Discard, &Options{ReadBufferSize: 1 << 20})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

// readWholeFrame drains every Chunk event for the frame just described by
// a Header event, returning the reassembled payload and the number of
// Chunk events observed.
func readWholeFrame(t *testing.T, c *Codec) (payload []byte, chunks int) {
	t.Helper()
	for {
		ev, err := c.ReadEvent()
		if err != nil {
			t.Fatalf("ReadEvent failed: %v", err)
		}
		if ev.Kind != EventChunk {
			t.Fatalf("expected EventChunk, got %v", ev.Kind)
		}
		payload = append(payload, ev.Chunk.Data...)
		chunks++
		if ev.Chunk.Final {
			return payload, chunks
		}
	}
}

// TestReadEvent_SimpleUnmaskedBinaryFrame covers S1: a small unmasked
// binary frame fits in a single chunk.
func TestReadEvent_SimpleUnmaskedBinaryFrame(t *testing.T) {
	payload := []byte("hello")
	wire := buildFrame(true, OpcodeBinary, false, false, false, payload, nil)
	c := newTestCodec(t, wire, 64)

	ev, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if ev.Kind != EventHeader {
		t.Fatalf("expected EventHeader, got %v", ev.Kind)
	}
	if !ev.Header.Fin || ev.Header.Opcode != OpcodeBinary || ev.Header.Length != uint64(len(payload)) {
		t.Errorf("unexpected header: %+v", ev.Header)
	}
	if ev.Header.Mask != nil {
		t.Error("Header.Mask must always be nil on read")
	}

	got, chunks := readWholeFrame(t, c)
	if chunks != 1 {
		t.Errorf("expected exactly 1 chunk, got %d", chunks)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: got %q, want %q", got, payload)
	}
}

// TestReadEvent_MaskedFrame covers S2: the wire bytes are masked and the
// reader must de-mask them before delivering the Chunk.
func TestReadEvent_MaskedFrame(t *testing.T) {
	payload := []byte("The quick brown fox")
	mask := [4]byte{0xDE, 0xAD, 0xBE, 0xEF}
	wire := buildFrame(true, OpcodeText, false, false, false, payload, &mask)
	c := newTestCodec(t, wire, 64)

	if _, err := c.ReadEvent(); err != nil {
		t.Fatalf("ReadEvent (header) failed: %v", err)
	}
	got, _ := readWholeFrame(t, c)
	if string(got) != string(payload) {
		t.Errorf("de-masked payload mismatch: got %q, want %q", got, payload)
	}
}

// TestReadEvent_ChunkingBoundedByScratch covers S3: a payload larger
// than the scratch buffer is delivered across multiple chunks, each
// bounded by len(scratch), the last (and only the last) marked Final.
func TestReadEvent_ChunkingBoundedByScratch(t *testing.T) {
	tests := []struct {
		name        string
		payloadLen  int
		scratchSize int
	}{
		{"exact multiple", 256, 64},
		{"with remainder", 10000, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, tt.payloadLen)
			for i := range payload {
				payload[i] = byte(i)
			}
			wire := buildFrame(true, OpcodeBinary, false, false, false, payload, nil)
			c := newTestCodec(t, wire, tt.scratchSize)

			if _, err := c.ReadEvent(); err != nil {
				t.Fatalf("ReadEvent (header) failed: %v", err)
			}

			got, chunks := readWholeFrame(t, c)
			wantChunks := (tt.payloadLen + tt.scratchSize - 1) / tt.scratchSize
			if chunks != wantChunks {
				t.Errorf("expected %d chunks, got %d", wantChunks, chunks)
			}
			if string(got) != string(payload) {
				t.Error("reassembled payload did not match the original")
			}
		})
	}
}

// TestReadEvent_ExtendedLengthEncodings covers the 16-bit and 64-bit
// extended length prefixes.
func TestReadEvent_ExtendedLengthEncodings(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"16-bit length", 200},
		{"64-bit length", 1 << 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte{0x42}, tt.size)
			wire := buildFrame(true, OpcodeBinary, false, false, false, payload, nil)
			c := newTestCodec(t, wire, 4096)

			ev, err := c.ReadEvent()
			if err != nil {
				t.Fatalf("ReadEvent failed: %v", err)
			}
			if ev.Header.Length != uint64(tt.size) {
				t.Errorf("expected length %d, got %d", tt.size, ev.Header.Length)
			}
			got, _ := readWholeFrame(t, c)
			if len(got) != tt.size {
				t.Errorf("expected %d reassembled bytes, got %d", tt.size, len(got))
			}
		})
	}
}

// TestReadEvent_ZeroLengthFrameEmitsHeaderOnly pins the Open Question
// decision: a zero-length payload produces no Chunk event at all, and
// the next ReadEvent call reads the following frame's header directly.
func TestReadEvent_ZeroLengthFrameEmitsHeaderOnly(t *testing.T) {
	first := buildFrame(true, OpcodePing, false, false, false, nil, nil)
	second := buildFrame(true, OpcodeText, false, false, false, []byte("x"), nil)
	wire := append(first, second...)
	c := newTestCodec(t, wire, 64)

	ev, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if ev.Kind != EventHeader || ev.Header.Opcode != OpcodePing || ev.Header.Length != 0 {
		t.Fatalf("unexpected first event: %+v", ev)
	}

	ev, err = c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if ev.Kind != EventHeader || ev.Header.Opcode != OpcodeText {
		t.Fatalf("expected the next frame's header directly, got %+v", ev)
	}
}

// TestReadEvent_RSVBitsPassedThroughVerbatim ensures reserved bits are
// surfaced, not policed: this package does not negotiate extensions.
func TestReadEvent_RSVBitsPassedThroughVerbatim(t *testing.T) {
	wire := buildFrame(true, OpcodeBinary, true, false, true, []byte("x"), nil)
	c := newTestCodec(t, wire, 64)

	ev, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if !ev.Header.Rsv1 || ev.Header.Rsv2 || !ev.Header.Rsv3 {
		t.Errorf("RSV bits not passed through verbatim: %+v", ev.Header)
	}
}

// TestReadEvent_ClosedOnShortHeader covers the EOF-during-header case.
func TestReadEvent_ClosedOnShortHeader(t *testing.T) {
	c := newTestCodec(t, []byte{0x81}, 64) // truncated, missing the length byte
	ev, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if ev.Kind != EventClosed {
		t.Fatalf("expected EventClosed, got %v", ev.Kind)
	}
}

// TestReadEvent_ClosedMidPayload covers the EOF-during-payload case.
func TestReadEvent_ClosedMidPayload(t *testing.T) {
	full := buildFrame(true, OpcodeBinary, false, false, false, []byte("hello world"), nil)
	truncated := full[:len(full)-3]
	c := newTestCodec(t, truncated, 16)

	if _, err := c.ReadEvent(); err != nil {
		t.Fatalf("ReadEvent (header) failed: %v", err)
	}
	for {
		ev, err := c.ReadEvent()
		if err != nil {
			t.Fatalf("ReadEvent failed: %v", err)
		}
		if ev.Kind == EventClosed {
			return
		}
		if ev.Chunk.Final {
			t.Fatal("expected EventClosed before a Final chunk on truncated input")
		}
	}
}
