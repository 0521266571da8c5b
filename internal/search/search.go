// Package search filters an already-fetched video collection by a free-text
// query. It performs no I/O.
package search

import (
	"strings"

	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// Result is the outcome of filtering a collection
type Result struct {
	Videos       []models.Video `json:"videos"`
	Query        string         `json:"query"`
	IsSearching  bool           `json:"is_searching"`
	TotalResults int            `json:"total_results"`
	HasResults   bool           `json:"has_results"`
}

// Filter returns the videos whose title or any tag contains query,
// case-insensitively. Relative order is preserved. A blank query matches
// everything and returns videos unchanged.
func Filter(videos []models.Video, query string) Result {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return Result{
			Videos:       videos,
			Query:        query,
			TotalResults: len(videos),
			HasResults:   len(videos) > 0,
		}
	}

	matched := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if Matches(v, normalized) {
			matched = append(matched, v)
		}
	}

	return Result{
		Videos:       matched,
		Query:        query,
		IsSearching:  true,
		TotalResults: len(matched),
		HasResults:   len(matched) > 0,
	}
}

// Matches reports whether video matches an already lower-cased, trimmed query
func Matches(video models.Video, normalized string) bool {
	if strings.Contains(strings.ToLower(video.Title), normalized) {
		return true
	}
	for _, tag := range video.Tags {
		if strings.Contains(strings.ToLower(tag), normalized) {
			return true
		}
	}
	return false
}
