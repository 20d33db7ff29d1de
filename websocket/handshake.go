package websocket

import (
	"crypto/sha1" //nolint:gosec // RFC 6455 Section 1.3 mandates SHA-1 for the accept-key challenge; not a security boundary.
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
)

// websocketGUID is the fixed magic string RFC 6455 Section 1.3 defines
// for computing Sec-WebSocket-Accept.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// Handshake performs the client-side Upgrade exchange (RFC 6455
// Section 4): it writes the request head (path, caller headers
// verbatim and in order, then the four mandatory WebSocket headers),
// then drives the response head to completion, verifying the
// Connection header and the Sec-WebSocket-Accept challenge.
//
// On success, Handshaken reports true and the Codec is ready for
// ReadEvent/WriteMessageHeader/WriteMessagePayload. On failure the
// Codec must be discarded; there is no retry-after-error path.
func (c *Codec) Handshake(headers []HeaderField, path string) error {
	if c.handshaken {
		return ErrAlreadyHandshaken
	}

	var keyBytes [8]byte
	if _, err := io.ReadFull(c.rand, keyBytes[:]); err != nil {
		return err
	}
	encodedKey := base64.StdEncoding.EncodeToString(keyBytes[:])

	if err := c.writeRequestHead(headers, path, encodedKey); err != nil {
		return err
	}

	if err := c.readHandshakeResponse(encodedKey); err != nil {
		return err
	}

	c.handshaken = true
	return nil
}

func (c *Codec) writeRequestHead(headers []HeaderField, path, encodedKey string) error {
	if _, err := fmt.Fprintf(c.w, "GET %s HTTP/1.1\r\n", path); err != nil {
		return err
	}
	for _, h := range headers {
		if _, err := fmt.Fprintf(c.w, "%s: %s\r\n", h.Name, h.Value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(c.w,
		"Connection: Upgrade\r\nUpgrade: websocket\r\nSec-WebSocket-Version: 13\r\nSec-WebSocket-Key: %s\r\n\r\n",
		encodedKey,
	); err != nil {
		return err
	}
	return c.w.Flush()
}

// readHandshakeResponse drives the response event stream to completion
// over the same bufio.Reader frames are later read from, so that any
// bytes the peer pipelined past the response head (the start of the
// first frame) are not lost.
func (c *Codec) readHandshakeResponse(encodedKey string) error {
	tp := textproto.NewReader(c.r)

	statusLine, err := tp.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrConnectionClosed
		}
		return err
	}

	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		return ErrWrongResponse
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil || code != 101 {
		return ErrWrongResponse
	}

	header, err := tp.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrConnectionClosed
		}
		return err
	}

	if !strings.EqualFold(header.Get("Connection"), "upgrade") {
		return ErrInvalidConnectionHeader
	}

	accept := header.Get("Sec-WebSocket-Accept")
	if accept == "" || accept != computeAcceptKey(encodedKey) {
		return ErrFailedChallenge
	}

	return nil
}

// computeAcceptKey computes Sec-WebSocket-Accept from the client's
// Sec-WebSocket-Key (RFC 6455 Section 1.3):
//
//	Sec-WebSocket-Accept = base64(SHA-1(key + GUID))
func computeAcceptKey(encodedKey string) string {
	h := sha1.New() //nolint:gosec // see package-level note above.
	h.Write([]byte(encodedKey))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
