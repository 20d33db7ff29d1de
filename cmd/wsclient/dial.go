package main

import (
	"encoding/binary"
	"fmt"

	"github.com/coregx/wsclient/websocket"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dialCmd = &cobra.Command{
	Use:   "dial",
	Short: "Connect and print every frame received until the peer closes",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		path, _ := cmd.Flags().GetString("path")

		cc, err := connect(addr, path)
		if err != nil {
			return err
		}
		entry := cc.logger()

		var currentOpcode websocket.Opcode
		var chunkOffset int

		for {
			ev, err := cc.codec.ReadEvent()
			if err != nil {
				return fmt.Errorf("read event: %w", err)
			}
			switch ev.Kind {
			case websocket.EventHeader:
				currentOpcode = ev.Header.Opcode
				chunkOffset = 0
				entry.Infof("%s frame, fin=%v, length=%d", opcodeName(ev.Header.Opcode), ev.Header.Fin, ev.Header.Length)
			case websocket.EventChunk:
				if currentOpcode == websocket.OpcodeClose && chunkOffset == 0 && len(ev.Chunk.Data) >= 2 {
					code := websocket.CloseCode(binary.BigEndian.Uint16(ev.Chunk.Data))
					color.New(color.FgRed).Printf("close code %d (%s)\n", code, code)
				} else {
					color.New(color.FgGreen).Printf("%s", ev.Chunk.Data)
					if ev.Chunk.Final {
						fmt.Println()
					}
				}
				chunkOffset += len(ev.Chunk.Data)
			case websocket.EventClosed:
				entry.Info("connection closed by peer")
				return nil
			}
		}
	},
}

func opcodeName(op websocket.Opcode) string {
	switch op {
	case websocket.OpcodeText:
		return "text"
	case websocket.OpcodeBinary:
		return "binary"
	case websocket.OpcodeClose:
		return "close"
	case websocket.OpcodePing:
		return "ping"
	case websocket.OpcodePong:
		return "pong"
	case websocket.OpcodeContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}
