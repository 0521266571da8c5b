package models

import (
	"fmt"
)

// Video represents a video record in the library
type Video struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	CreatedAt    string   `json:"created_at" validate:"required"`
	Tags         []string `json:"tags" validate:"required"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"url"`
	Duration     float64  `json:"duration" validate:"gt=0"`
	Views        float64  `json:"views" validate:"gte=0"`
}

// CreateVideoRequest is the payload accepted when creating a video.
// Optional numeric and timestamp fields are pointers so that "absent" can be
// told apart from a zero value.
type CreateVideoRequest struct {
	Title        string   `json:"title" validate:"required,max=100"`
	Tags         []string `json:"tags,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	CreatedAt    *string  `json:"created_at,omitempty" validate:"omitempty,timestamp"`
	Duration     *float64 `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Views        *float64 `json:"views,omitempty" validate:"omitempty,gte=0"`
}

// Defaults applied to fields omitted from a CreateVideoRequest
const (
	DefaultDuration = 1200
	DefaultViews    = 0
)

// SortOption selects the ordering of a video listing
type SortOption string

// SortOption values. SortNatural keeps the on-disk order.
const (
	SortNatural       SortOption = ""
	SortCreatedAtAsc  SortOption = "created_at_asc"
	SortCreatedAtDesc SortOption = "created_at_desc"
)

// ParseSortOption converts a query-string value into a SortOption
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case SortNatural, SortCreatedAtAsc, SortCreatedAtDesc:
		return SortOption(s), nil
	default:
		return SortNatural, fmt.Errorf("invalid sort option %q", s)
	}
}
