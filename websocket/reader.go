package websocket

import (
	"encoding/binary"
	"errors"
	"io"
)

// readExact reads exactly len(buf) bytes. closed is true if the
// underlying reader hit EOF before len(buf) bytes were available.
// That is surfaced to the caller as an EventClosed, not an error. Any
// other error is a transport error and is returned unchanged.
func (c *Codec) readExact(buf []byte) (closed bool, err error) {
	if _, err = io.ReadFull(c.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// ReadEvent pulls the next event off the wire: a Header event on frame
// header completion, a Chunk event on each payload read (the last for a
// frame has Final set), or Closed if the peer's reader hit EOF where a
// specific byte count was demanded.
//
// ReadEvent may not be called again for the Chunk events of a given
// frame until the prior Chunk's Data has been consumed. The next call
// invalidates it.
func (c *Codec) ReadEvent() (Event, error) {
	if c.state == stateAwaitingHeader {
		return c.readHeader()
	}
	return c.readChunk()
}

// readHeader reads one frame header from the wire.
//
// RFC 6455 Section 5.2: Base Framing Protocol.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-------+-+-------------+-------------------------------+
//	|F|R|R|R| opcode|M| Payload len |    Extended payload length    |
//	|I|S|S|S|  (4)  |A|     (7)     |             (16/64)           |
//	|N|V|V|V|       |S|             |   (if payload len==126/127)   |
//	| |1|2|3|       |K|             |                               |
//	+-+-+-+-+-------+-+-------------+ - - - - - - - - - - - - - - - +
//	|     Extended payload length continued, if payload len == 127  |
//	+ - - - - - - - - - - - - - - - +-------------------------------+
//	|                               |Masking-key, if MASK set to 1  |
//	+-------------------------------+-------------------------------+
//	| Masking-key (continued)       |
//	+--------------------------------
//
// Steps:
//  1. Read the 2-byte fixed header (FIN, RSV, opcode, MASK, payload len).
//  2. Read the extended payload length if len7 is 126 or 127.
//  3. Read the 4-byte masking key if MASK=1.
//  4. Record chunk_need/chunk_has_mask/chunk_mask for readChunk.
//  5. Transition to stateReadingPayload unless the payload is empty.
//
// Returns:
//   - Event: an EventHeader carrying the parsed FrameHeader, or
//     EventClosed if the peer closed before a full header arrived.
//   - error: a transport error other than EOF.
func (c *Codec) readHeader() (Event, error) {
	var head [2]byte
	if closed, err := c.readExact(head[:]); err != nil {
		return Event{}, err
	} else if closed {
		return Event{Kind: EventClosed}, nil
	}

	b0, b1 := head[0], head[1]
	fin := b0&0x80 != 0
	rsv1 := b0&0x40 != 0
	rsv2 := b0&0x20 != 0
	rsv3 := b0&0x10 != 0
	opcode := Opcode(b0 & 0x0F)
	masked := b1&0x80 != 0
	len7 := b1 & 0x7F

	var length uint64
	switch len7 {
	case 126:
		var ext [2]byte
		if closed, err := c.readExact(ext[:]); err != nil {
			return Event{}, err
		} else if closed {
			return Event{Kind: EventClosed}, nil
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if closed, err := c.readExact(ext[:]); err != nil {
			return Event{}, err
		} else if closed {
			return Event{Kind: EventClosed}, nil
		}
		length = binary.BigEndian.Uint64(ext[:])
	default:
		length = uint64(len7)
	}

	var maskKey [4]byte
	if masked {
		if closed, err := c.readExact(maskKey[:]); err != nil {
			return Event{}, err
		} else if closed {
			return Event{Kind: EventClosed}, nil
		}
	}

	c.chunkNeed = length
	c.chunkRead = 0
	c.chunkHasMask = masked
	c.chunkMask = maskKey

	// A zero-length payload never produces a Chunk event: the next
	// ReadEvent call reads the following frame's header directly.
	if length > 0 {
		c.state = stateReadingPayload
	}

	return Event{
		Kind: EventHeader,
		Header: FrameHeader{
			Fin:    fin,
			Rsv1:   rsv1,
			Rsv2:   rsv2,
			Rsv3:   rsv3,
			Opcode: opcode,
			Length: length,
		},
	}, nil
}

// readChunk delivers the next slice of the current frame's payload,
// bounded by len(c.scratch), de-masking it in place if chunk_has_mask.
func (c *Codec) readChunk() (Event, error) {
	left := c.chunkNeed - c.chunkRead

	if left <= uint64(len(c.scratch)) {
		buf := c.scratch[:left]
		if closed, err := c.readExact(buf); err != nil {
			return Event{}, err
		} else if closed {
			return Event{Kind: EventClosed}, nil
		}
		if c.chunkHasMask {
			maskInPlace(buf, c.chunkMask, c.chunkRead)
		}
		c.chunkRead = c.chunkNeed
		c.state = stateAwaitingHeader
		return Event{Kind: EventChunk, Chunk: ChunkEvent{Data: buf, Final: true}}, nil
	}

	n, err := c.r.Read(c.scratch)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Event{Kind: EventClosed}, nil
		}
		return Event{}, err
	}
	if n == 0 {
		return Event{Kind: EventClosed}, nil
	}

	buf := c.scratch[:n]
	if c.chunkHasMask {
		maskInPlace(buf, c.chunkMask, c.chunkRead)
	}
	c.chunkRead += uint64(n)

	return Event{Kind: EventChunk, Chunk: ChunkEvent{Data: buf, Final: false}}, nil
}
