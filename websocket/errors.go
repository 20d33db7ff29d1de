package websocket

import "errors"

var (
	// ErrScratchTooSmall indicates the caller's scratch buffer is below
	// the minimum size the codec requires to make progress on a frame
	// header.
	ErrScratchTooSmall = errors.New("websocket: scratch buffer must be at least 16 bytes")

	// Handshake error types (RFC 6455 Section 4, client role).

	// ErrWrongResponse indicates the server's status line was not 101
	// or could not be parsed. A malformed header line after the status
	// line is reported as the underlying parse error instead.
	ErrWrongResponse = errors.New("websocket: wrong handshake response")

	// ErrInvalidConnectionHeader indicates a missing or non-"upgrade"
	// Connection header in the handshake response.
	ErrInvalidConnectionHeader = errors.New("websocket: invalid or missing Connection header")

	// ErrFailedChallenge indicates Sec-WebSocket-Accept did not match
	// the expected base64(SHA-1(key + GUID)) value, or was missing.
	ErrFailedChallenge = errors.New("websocket: failed Sec-WebSocket-Accept challenge")

	// ErrConnectionClosed indicates the peer closed the connection
	// before the handshake response completed.
	ErrConnectionClosed = errors.New("websocket: connection closed during handshake")

	// ErrAlreadyHandshaken indicates Handshake was called a second time
	// on a Codec that already completed one successfully.
	ErrAlreadyHandshaken = errors.New("websocket: handshake already completed")
)
