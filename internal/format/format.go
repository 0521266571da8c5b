// Package format renders video attributes for display.
package format

import (
	"fmt"
	"math"

	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// Duration renders seconds as H:MM:SS, or M:SS when under an hour
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Views renders a view count. The thousands tier is floored to one decimal
// so 999,999 reads "999.9K" rather than "1000.0K"; the millions tier rounds
// half away from zero.
func Views(views int64) string {
	switch {
	case views >= 1_000_000:
		rounded := math.Round(float64(views)/100_000) / 10
		return fmt.Sprintf("%.1fM views", rounded)
	case views >= 1_000:
		floored := math.Floor(float64(views)/100) / 10
		return fmt.Sprintf("%.1fK views", floored)
	default:
		return fmt.Sprintf("%d views", views)
	}
}

// Date renders an ISO timestamp as "Jan 2, 2006" in UTC
func Date(iso string) (string, error) {
	t, err := models.ParseTimestamp(iso)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("Jan 2, 2006"), nil
}
