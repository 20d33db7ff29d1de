package websocket

import (
	"encoding/binary"
	"io"
)

// maskWriteChunk bounds the stack buffer WriteMessagePayload uses to
// mask outgoing data without mutating the caller's slice or buffering a
// whole message.
const maskWriteChunk = 4096

// WriteMessageHeader writes one frame header to the wire.
//
// RFC 6455 Section 5.2: Base Framing Protocol.
//
//	 0                   1
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
//	+-+-+-+-+-------+-+-------------+
//	|F|R|R|R| opcode|M| Payload len |
//	|I|S|S|S|  (4)  |A|     (7)     |
//	|N|V|V|V|       |S|             |
//	| |1|2|3|       |K|             |
//	+-+-+-+-+-------+-+-------------+
//	|   Extended payload length,    |
//	|   if payload len == 126/127   |
//	+--------------------------------
//	|   Masking-key, if MASK set to 1
//	+--------------------------------
//
// Steps:
//  1. Pack FIN/RSV/opcode into byte 0 and MASK/payload-len into byte 1.
//  2. Write the extended length: 0, 2, or 8 bytes, whichever is minimal
//     for h.Length.
//  3. Write the 4-byte masking key if h.Mask is non-nil.
//  4. Store h.Mask into writeMask and reset writeMaskOffset to 0, so
//     every subsequent WriteMessagePayload call masks with this key
//     until the next WriteMessageHeader call.
//
// WriteMessageHeader does not verify that a prior frame's payload was
// fully written; that is the caller's contract.
//
// Returns:
//   - error: an I/O error from the underlying writer.
func (c *Codec) WriteMessageHeader(h FrameHeader) error {
	var prefix [2]byte
	if h.Fin {
		prefix[0] |= 0x80
	}
	if h.Rsv1 {
		prefix[0] |= 0x40
	}
	if h.Rsv2 {
		prefix[0] |= 0x20
	}
	if h.Rsv3 {
		prefix[0] |= 0x10
	}
	prefix[0] |= byte(h.Opcode) & 0x0F

	if h.Mask != nil {
		prefix[1] |= 0x80
	}

	var ext []byte
	switch {
	case h.Length < 126:
		prefix[1] |= byte(h.Length)
	case h.Length < 1<<16:
		prefix[1] |= 126
		ext = make([]byte, 2)
		binary.BigEndian.PutUint16(ext, uint16(h.Length))
	default:
		prefix[1] |= 127
		ext = make([]byte, 8)
		binary.BigEndian.PutUint64(ext, h.Length)
	}

	if _, err := c.w.Write(prefix[:]); err != nil {
		return err
	}
	if len(ext) > 0 {
		if _, err := c.w.Write(ext); err != nil {
			return err
		}
	}

	if h.Mask != nil {
		if _, err := c.w.Write(h.Mask[:]); err != nil {
			return err
		}
		mask := *h.Mask
		c.writeMask = &mask
	} else {
		c.writeMask = nil
	}
	c.writeMaskOffset = 0

	return c.w.Flush()
}

// WriteMessagePayload writes payload bytes following the most recent
// WriteMessageHeader call. If that header carried a masking key, bytes
// are XOR-masked through a bounded on-stack buffer before hitting the
// wire; p itself is never modified. Multiple calls may follow one
// header; WriteMessagePayload does not track or enforce that the
// cumulative length matches the header's declared length.
func (c *Codec) WriteMessagePayload(p []byte) error {
	if c.writeMask == nil {
		_, err := c.w.Write(p)
		if err != nil {
			return err
		}
		return c.w.Flush()
	}

	var stage [maskWriteChunk]byte
	key := *c.writeMask

	for len(p) > 0 {
		n := copy(stage[:], p)
		maskInPlace(stage[:n], key, c.writeMaskOffset)
		if _, err := c.w.Write(stage[:n]); err != nil {
			return err
		}
		c.writeMaskOffset += uint64(n)
		p = p[n:]
	}

	return c.w.Flush()
}

// NewClientFrameHeader builds a FrameHeader for an outgoing client
// frame with a fresh 32-bit masking key drawn from the codec's
// randomness source, satisfying RFC 6455 Section 5.1's requirement that
// every client-to-server frame be masked with an unpredictable,
// per-frame key.
func (c *Codec) NewClientFrameHeader(opcode Opcode, fin bool, length uint64) (FrameHeader, error) {
	var key [4]byte
	if _, err := io.ReadFull(c.rand, key[:]); err != nil {
		return FrameHeader{}, err
	}
	return FrameHeader{
		Fin:    fin,
		Opcode: opcode,
		Length: length,
		Mask:   &key,
	}, nil
}
