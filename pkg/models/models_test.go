package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOption(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOption
		wantErr bool
	}{
		{"", SortNatural, false},
		{"created_at_asc", SortCreatedAtAsc, false},
		{"created_at_desc", SortCreatedAtDesc, false},
		{"title_asc", SortNatural, true},
		{"CREATED_AT_ASC", SortNatural, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOption(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoJSONFieldNames(t *testing.T) {
	video := Video{
		ID:           "1",
		Title:        "Test Video",
		CreatedAt:    "2024-01-01T00:00:00Z",
		Tags:         []string{"test"},
		ThumbnailURL: "https://example.com/thumbnail.jpg",
		Duration:     1200,
		Views:        100,
	}

	data, err := json.Marshal(video)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"id", "title", "created_at", "tags", "thumbnail_url", "duration", "views"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, float64(1200), raw["duration"])
}

func TestCreateVideoRequestOptionalFields(t *testing.T) {
	var req CreateVideoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New Video","views":0}`), &req))

	assert.Equal(t, "New Video", req.Title)
	assert.Nil(t, req.Tags)
	assert.Nil(t, req.Duration)
	assert.Nil(t, req.CreatedAt)
	if assert.NotNil(t, req.Views) {
		assert.Equal(t, float64(0), *req.Views)
	}
}

func TestEnvelopes(t *testing.T) {
	ok, err := json.Marshal(Success([]Video{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[]}`, string(ok))

	fail, err := json.Marshal(Failure("Failed to fetch videos", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Failed to fetch videos"}`, string(fail))
}
