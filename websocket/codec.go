package websocket

import (
	"bufio"
	"crypto/rand"
	"io"
)

// Default buffer sizes for the codec's internal bufio wrapping, mirroring
// the read/write buffer knobs a WebSocket server-side Upgrade typically
// exposes.
const (
	defaultReadBufferSize  = 4096
	defaultWriteBufferSize = 4096
)

// parserState is the frame reader's two-state machine.
type parserState int

const (
	stateAwaitingHeader parserState = iota
	stateReadingPayload
)

// Options configures a Codec. A nil Options is equivalent to &Options{}.
type Options struct {
	// RandSource is the randomness stream used for the handshake's
	// Sec-WebSocket-Key and for each outgoing frame's masking key.
	// Defaults to crypto/rand.Reader, a CSPRNG and the RFC-sanctioned
	// superset of a wall-clock-seeded PRNG. Tests substitute a
	// deterministic stream here.
	RandSource io.Reader

	// ReadBufferSize and WriteBufferSize size the codec's internal
	// bufio wrapping of the caller's reader/writer. Zero uses the
	// package defaults. These do not bound message size; only the
	// scratch buffer passed to New does that, one chunk at a time.
	ReadBufferSize, WriteBufferSize int
}

// Codec is a streaming RFC 6455 WebSocket client codec over a
// caller-supplied io.Reader/io.Writer pair and a caller-owned scratch
// buffer.
//
// Codec performs the client Upgrade handshake and then exposes a
// frame-level pull parser (ReadEvent) and writer
// (WriteMessageHeader/WriteMessagePayload). It never buffers a whole
// message: payload is delivered in chunks bounded by len(scratch), and
// every Chunk's Data aliases scratch. It is only valid until the next
// call on this Codec.
//
// A Codec is not safe for concurrent use. It owns mutable parser state
// that must observe a total order of calls: a Header event and all of
// that frame's Chunk events may not be interleaved with any other call.
type Codec struct {
	r *bufio.Reader
	w *bufio.Writer

	scratch []byte
	rand    io.Reader

	handshaken bool

	// Frame reader state.
	state        parserState
	chunkNeed    uint64
	chunkRead    uint64
	chunkHasMask bool
	chunkMask    [4]byte

	// Frame writer state.
	writeMask       *[4]byte
	writeMaskOffset uint64
}

// New creates a Codec over r/w using scratch as the payload-chunk
// buffer. scratch must be at least 16 bytes long; it is never resized
// or copied, and its contents are overwritten by every ReadEvent call
// that produces a Chunk.
func New(scratch []byte, r io.Reader, w io.Writer, opts *Options) (*Codec, error) {
	if len(scratch) < 16 {
		return nil, ErrScratchTooSmall
	}
	if opts == nil {
		opts = &Options{}
	}

	readSize := opts.ReadBufferSize
	if readSize == 0 {
		readSize = defaultReadBufferSize
	}
	writeSize := opts.WriteBufferSize
	if writeSize == 0 {
		writeSize = defaultWriteBufferSize
	}

	randSource := opts.RandSource
	if randSource == nil {
		randSource = rand.Reader
	}

	return &Codec{
		r:       bufio.NewReaderSize(r, readSize),
		w:       bufio.NewWriterSize(w, writeSize),
		scratch: scratch,
		rand:    randSource,
		state:   stateAwaitingHeader,
	}, nil
}

// Handshaken reports whether Handshake has completed successfully on
// this Codec.
func (c *Codec) Handshaken() bool {
	return c.handshaken
}
