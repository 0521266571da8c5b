// Command videoctl lists, searches and creates videos through the video
// library API.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/videolib/internal/client"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "videoctl",
	Short:        "Browse and manage the video library",
	SilenceUsage: true,
}

func init() {
	defaultServer := os.Getenv("VIDEOLIB_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "API base URL (env VIDEOLIB_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(listCmd, createCmd, searchCmd)
}

func newClient() *client.Client {
	return client.New(serverURL)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
