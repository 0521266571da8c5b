package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videolib/internal/client"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

var library = []models.Video{
	{
		ID:           "a",
		Title:        "React Hooks Deep Dive",
		CreatedAt:    "2024-01-15T10:30:00.000Z",
		Tags:         []string{"react", "hooks"},
		ThumbnailURL: "https://example.com/a.png",
		Duration:     3725,
		Views:        1500,
	},
	{
		ID:           "b",
		Title:        "Go Concurrency",
		CreatedAt:    "2023-06-01T08:00:00.000Z",
		Tags:         []string{"go"},
		ThumbnailURL: "https://example.com/b.png",
		Duration:     65,
		Views:        1250000,
	},
}

type fakeAPI struct {
	videos  []models.Video
	sort    models.SortOption
	created *models.CreateVideoRequest
	err     error
}

func (f *fakeAPI) ListVideos(_ context.Context, sort models.SortOption) ([]models.Video, error) {
	f.sort = sort
	return f.videos, f.err
}

func (f *fakeAPI) CreateVideo(_ context.Context, req models.CreateVideoRequest) (*models.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	v := library[0]
	v.Title = req.Title
	return &v, nil
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trims and drops blanks", []string{" go ", "", "  "}, []string{"go"}},
		{"drops duplicates", []string{"go", "react", "go"}, []string{"go", "react"}},
		{"nil", nil, []string{}},
		{"caps at ten", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
			[]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTags(tt.in))
		})
	}
}

func TestRenderCard(t *testing.T) {
	var buf bytes.Buffer
	renderCard(&buf, library[0])

	out := buf.String()
	assert.Contains(t, out, "React Hooks Deep Dive  [1:02:05]")
	assert.Contains(t, out, "1.5K views · Jan 15, 2024")
	assert.Contains(t, out, "#react #hooks")
	assert.Contains(t, out, "id: a")
}

func TestRunList(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		api := &fakeAPI{videos: library}
		var buf bytes.Buffer

		require.NoError(t, runList(context.Background(), api, &buf, models.SortCreatedAtDesc, ""))

		assert.Equal(t, models.SortCreatedAtDesc, api.sort)
		assert.Contains(t, buf.String(), "React Hooks Deep Dive")
		assert.Contains(t, buf.String(), "Go Concurrency  [1:05]")
		assert.Contains(t, buf.String(), "1.3M views")
		assert.NotContains(t, buf.String(), "Found")
	})

	t.Run("search", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, runList(context.Background(), &fakeAPI{videos: library}, &buf, models.SortNatural, "GO"))

		assert.Contains(t, buf.String(), `Found 1 video for "GO"`)
		assert.NotContains(t, buf.String(), "React")
	})

	t.Run("no matches", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, runList(context.Background(), &fakeAPI{videos: library}, &buf, models.SortNatural, "rust"))

		assert.Contains(t, buf.String(), `No videos found for "rust"`)
	})

	t.Run("empty library", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, runList(context.Background(), &fakeAPI{}, &buf, models.SortNatural, ""))

		assert.Equal(t, "No videos found\n", buf.String())
	})

	t.Run("api error", func(t *testing.T) {
		err := runList(context.Background(), &fakeAPI{err: errors.New("boom")}, &bytes.Buffer{}, models.SortNatural, "")
		assert.Error(t, err)
	})
}

func TestBuildCreateRequest(t *testing.T) {
	cmd := &cobra.Command{Use: "create"}
	cmd.Flags().AddFlagSet(createCmd.Flags())
	t.Cleanup(func() { createOpts = createOptions{} })

	require.NoError(t, cmd.Flags().Parse([]string{
		"--title", "Intro",
		"--tag", "go, go ,cli",
		"--views", "0",
	}))

	req := buildCreateRequest(cmd)

	assert.Equal(t, "Intro", req.Title)
	assert.Equal(t, []string{"go", "cli"}, req.Tags)
	assert.Nil(t, req.Duration)
	assert.Nil(t, req.CreatedAt)
	require.NotNil(t, req.Views)
	assert.Equal(t, 0.0, *req.Views)
}

func TestRunCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := &fakeAPI{}
		var buf bytes.Buffer

		require.NoError(t, runCreate(context.Background(), api, &buf, models.CreateVideoRequest{Title: "Intro"}))

		assert.Equal(t, "Intro", api.created.Title)
		assert.True(t, strings.HasPrefix(buf.String(), "Created video:\n"))
	})

	t.Run("validation details", func(t *testing.T) {
		details, _ := json.Marshal([]map[string]string{{"field": "title", "message": "Title is required"}})
		api := &fakeAPI{err: &client.APIError{StatusCode: 400, Message: "Invalid video data", Details: details}}

		err := runCreate(context.Background(), api, &bytes.Buffer{}, models.CreateVideoRequest{})

		require.Error(t, err)
		assert.Equal(t, "Invalid video data: title: Title is required", err.Error())
	})
}

func TestRunSearch(t *testing.T) {
	in := strings.NewReader("re\nreact\n")
	var out bytes.Buffer

	runSearch(in, &out, library, time.Hour)

	got := out.String()
	// Initial full listing, then only the flushed final query
	assert.Equal(t, 1, strings.Count(got, "Found"))
	assert.Contains(t, got, `Found 1 video for "react"`)
	assert.NotContains(t, got, `for "re"`)
}
