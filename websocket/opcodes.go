// Package websocket implements a streaming RFC 6455 WebSocket client codec.
//
// The codec drives the HTTP/1.1 Upgrade handshake and then exposes a
// frame-level pull parser and writer built on a caller-supplied
// io.Reader/io.Writer pair and a caller-owned scratch buffer, suitable
// for chunked, low-allocation processing of arbitrarily large payloads.
// It does not reassemble fragmented messages, validate UTF-8, negotiate
// extensions, or auto-reply to pings. See Codec for the exact contract.
//
// RFC Reference: https://datatracker.ietf.org/doc/html/rfc6455
package websocket

// Opcode identifies a frame's kind (RFC 6455 Section 5.2), a 4-bit value.
//
// Opcode 0x3-0x7 and 0xB-0xF are reserved by the RFC but not rejected by
// this package: an unrecognized opcode is surfaced verbatim in the
// Header event for the caller to police.
type Opcode byte

// Opcode values defined in RFC 6455 Section 5.2.
const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)
