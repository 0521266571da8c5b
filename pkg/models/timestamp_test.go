package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	valid := []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00.123Z",
		"2024-01-15T10:30:00+02:00",
		"2024-01-15T10:30:00",
		"2024-01-15",
	}
	for _, s := range valid {
		_, err := ParseTimestamp(s)
		assert.NoError(t, err, s)
	}

	for _, s := range []string{"", "yesterday", "15/01/2024"} {
		_, err := ParseTimestamp(s)
		assert.Error(t, err, s)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", FormatTimestamp(ts))

	parsed, err := ParseTimestamp(FormatTimestamp(ts))
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
