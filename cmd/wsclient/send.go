package main

import (
	"fmt"

	"github.com/coregx/wsclient/websocket"
	"github.com/spf13/cobra"
)

var sendMessage string

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Connect, send a single text message, and print the first reply",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		path, _ := cmd.Flags().GetString("path")

		cc, err := connect(addr, path)
		if err != nil {
			return err
		}
		entry := cc.logger()

		payload := []byte(sendMessage)
		header, err := cc.codec.NewClientFrameHeader(websocket.OpcodeText, true, uint64(len(payload)))
		if err != nil {
			return fmt.Errorf("building frame header: %w", err)
		}
		if err := cc.codec.WriteMessageHeader(header); err != nil {
			return fmt.Errorf("writing frame header: %w", err)
		}
		if err := cc.codec.WriteMessagePayload(payload); err != nil {
			return fmt.Errorf("writing frame payload: %w", err)
		}
		entry.Infof("sent %d bytes", len(payload))

		for {
			ev, err := cc.codec.ReadEvent()
			if err != nil {
				return fmt.Errorf("read event: %w", err)
			}
			switch ev.Kind {
			case websocket.EventHeader:
				entry.Infof("reply: %s frame, length=%d", opcodeName(ev.Header.Opcode), ev.Header.Length)
			case websocket.EventChunk:
				fmt.Printf("%s", ev.Chunk.Data)
				if ev.Chunk.Final {
					fmt.Println()
					return nil
				}
			case websocket.EventClosed:
				entry.Info("connection closed before a reply arrived")
				return nil
			}
		}
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "hello", "text message to send")
}
