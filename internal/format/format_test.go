package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{30, "0:30"},
		{90, "1:30"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7322, "2:02:02"},
		{36000, "10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.seconds))
		})
	}
}

func TestViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{0, "0 views"},
		{123, "123 views"},
		{999, "999 views"},
		{1000, "1.0K views"},
		{1500, "1.5K views"},
		{1999, "1.9K views"},
		{999950, "999.9K views"},
		{999999, "999.9K views"},
		{1000000, "1.0M views"},
		{1500000, "1.5M views"},
		{2300000, "2.3M views"},
		{1250000, "1.3M views"},
		{1240000, "1.2M views"},
		{1260000, "1.3M views"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Views(tt.views))
		})
	}
}

func TestDate(t *testing.T) {
	got, err := Date("2024-01-15T10:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "Jan 15, 2024", got)

	got, err = Date("2024-12-25T00:00:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "Dec 25, 2024", got)

	_, err = Date("not a date")
	assert.Error(t, err)
}
