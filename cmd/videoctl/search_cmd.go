package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/videolib/internal/search"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

var searchDelay time.Duration

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search videos interactively",
	Long: `Loads the library once and filters it as you type. Each line read from
standard input replaces the current query; results are shown once typing
pauses. An empty line clears the search. End input (Ctrl-D) to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		videos, err := newClient().ListVideos(ctx, models.SortCreatedAtDesc)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to load videos: %w", err)
		}

		runSearch(cmd.InOrStdin(), cmd.OutOrStdout(), videos, searchDelay)
		return nil
	},
}

func init() {
	searchCmd.Flags().DurationVar(&searchDelay, "debounce", search.DefaultDebounceDelay, "delay after the last keystroke before searching")
}

// runSearch reads queries from in until EOF and renders the filtered
// library after each pause in input
func runSearch(in io.Reader, out io.Writer, videos []models.Video, delay time.Duration) {
	var mu sync.Mutex
	render := func(query string) {
		mu.Lock()
		defer mu.Unlock()
		renderResult(out, search.Filter(videos, query))
		fmt.Fprintln(out)
	}

	d := search.NewDebouncer(delay, render)

	render("")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		d.Trigger(scanner.Text())
	}

	d.Flush()
	d.Stop()
}
