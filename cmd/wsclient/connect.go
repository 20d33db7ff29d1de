package main

import (
	"fmt"
	"net"

	"github.com/coregx/wsclient/websocket"
	"github.com/nu7hatch/gouuid"
	"github.com/sirupsen/logrus"
)

// connCtx bundles a dialed, handshaken Codec with the correlation ID used
// to tag every log line for that connection.
type connCtx struct {
	codec   *websocket.Codec
	id      string
	scratch []byte
}

func connect(addr, path string) (*connCtx, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating correlation id: %w", err)
	}
	entry := log.WithField("conn", id.String())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	scratch := make([]byte, 4096)
	codec, err := websocket.New(scratch, conn, conn, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	headers := []websocket.HeaderField{
		{Name: "Host", Value: addr},
	}
	if err := codec.Handshake(headers, path); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	entry.Info("handshake complete")
	return &connCtx{codec: codec, id: id.String(), scratch: scratch}, nil
}

func (c *connCtx) logger() *logrus.Entry {
	return log.WithField("conn", c.id)
}
