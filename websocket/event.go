package websocket

// FrameHeader describes a parsed or to-be-written frame header
// (RFC 6455 Section 5.2).
type FrameHeader struct {
	Fin                   bool
	Rsv1, Rsv2, Rsv3      bool
	Opcode                Opcode
	Length                uint64
	// Mask is the masking key to apply when writing. It is always nil
	// on a Header event produced by ReadEvent: the presence of a mask
	// is observable on the wire, but the key itself stays internal to
	// the parser and is applied automatically to each Chunk.
	Mask *[4]byte
}

// ChunkEvent carries one slice of a frame's payload.
//
// Data aliases the Codec's scratch buffer and is only valid until the
// next call to ReadEvent on the same Codec.
type ChunkEvent struct {
	Data  []byte
	Final bool
}

// EventKind discriminates the variants of Event.
type EventKind int

const (
	// EventHeader marks the completion of a frame header. It precedes
	// zero or more EventChunk values for that frame's payload.
	EventHeader EventKind = iota
	// EventChunk carries one piece of the current frame's payload.
	EventChunk
	// EventClosed marks that the underlying reader returned 0/EOF
	// where a specific byte count was demanded, either at the start
	// of a new frame or mid-payload.
	EventClosed
)

// Event is the tagged result of one ReadEvent call.
type Event struct {
	Kind   EventKind
	Header FrameHeader
	Chunk  ChunkEvent
}

// HeaderField is one name/value pair of a caller-supplied HTTP header,
// written to the handshake request verbatim and in order.
type HeaderField struct {
	Name, Value string
}
