package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/therealutkarshpriyadarshi/videolib/internal/format"
	"github.com/therealutkarshpriyadarshi/videolib/internal/search"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// renderCard prints one video the way the library grid shows it
func renderCard(w io.Writer, v models.Video) {
	date, err := format.Date(v.CreatedAt)
	if err != nil {
		date = v.CreatedAt
	}

	fmt.Fprintf(w, "%s  [%s]\n", v.Title, format.Duration(int(math.Floor(v.Duration))))
	fmt.Fprintf(w, "  %s · %s\n", format.Views(int64(math.Floor(v.Views))), date)
	if len(v.Tags) > 0 {
		fmt.Fprintf(w, "  #%s\n", strings.Join(v.Tags, " #"))
	}
	fmt.Fprintf(w, "  id: %s\n", v.ID)
}

func renderGrid(w io.Writer, videos []models.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos found")
		return
	}
	for i, v := range videos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderCard(w, v)
	}
}

// renderSummary prints the result line shown above search results
func renderSummary(w io.Writer, r search.Result) {
	if !r.IsSearching {
		return
	}
	if !r.HasResults {
		fmt.Fprintf(w, "No videos found for %q\n", r.Query)
		fmt.Fprintln(w, "Try searching for different keywords or check your spelling.")
		return
	}

	noun := "videos"
	if r.TotalResults == 1 {
		noun = "video"
	}
	fmt.Fprintf(w, "Found %d %s for %q\n\n", r.TotalResults, noun, r.Query)
}

func renderResult(w io.Writer, r search.Result) {
	renderSummary(w, r)
	if r.IsSearching && !r.HasResults {
		return
	}
	renderGrid(w, r.Videos)
}
