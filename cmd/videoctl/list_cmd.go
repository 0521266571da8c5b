package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/videolib/internal/search"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

var (
	listSort   string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List videos",
	Long: `Lists the library as cards, optionally sorted by creation date and
filtered by a title or tag search.

Sort values: created_at_desc (newest first), created_at_asc (oldest first).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, err := models.ParseSortOption(listSort)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return runList(ctx, newClient(), cmd.OutOrStdout(), sort, listSearch)
	},
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort order (created_at_desc|created_at_asc)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "filter by title or tag")
}

// videoLister is the part of the API client the read commands need
type videoLister interface {
	ListVideos(ctx context.Context, sort models.SortOption) ([]models.Video, error)
}

func runList(ctx context.Context, c videoLister, w io.Writer, sort models.SortOption, query string) error {
	videos, err := c.ListVideos(ctx, sort)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	renderResult(w, search.Filter(videos, query))
	return nil
}
