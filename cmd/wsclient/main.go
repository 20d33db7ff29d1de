// Command wsclient is a small demo CLI around the websocket client codec:
// it dials a server, performs the handshake, and either streams received
// frames to stdout or sends a single message and prints the reply.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "wsclient",
	Short: "A streaming WebSocket client demo",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("addr", "127.0.0.1:8080", "host:port to dial")
	rootCmd.PersistentFlags().String("path", "/", "request path for the Upgrade request")
	rootCmd.AddCommand(dialCmd)
	rootCmd.AddCommand(sendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
	os.Exit(0)
}
