package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/videolib/internal/client"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

type createOptions struct {
	title     string
	tags      []string
	thumbnail string
	createdAt string
	duration  float64
	views     float64
}

var createOpts createOptions

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a video",
	Long: `Creates a video record. Only --title is required; the server fills in
the id, creation time, a placeholder thumbnail, a 20 minute duration and zero
views for anything omitted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := buildCreateRequest(cmd)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return runCreate(ctx, newClient(), cmd.OutOrStdout(), req)
	},
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createOpts.title, "title", "", "video title (required, max 100 characters)")
	f.StringSliceVar(&createOpts.tags, "tag", nil, "tag, repeatable or comma separated (max 10)")
	f.StringVar(&createOpts.thumbnail, "thumbnail", "", "thumbnail URL")
	f.StringVar(&createOpts.createdAt, "created-at", "", "creation time, ISO-8601")
	f.Float64Var(&createOpts.duration, "duration", 0, "duration in seconds")
	f.Float64Var(&createOpts.views, "views", 0, "view count")
	_ = createCmd.MarkFlagRequired("title")
}

// buildCreateRequest maps flags to a request, sending optional fields only
// when the user set them
func buildCreateRequest(cmd *cobra.Command) models.CreateVideoRequest {
	req := models.CreateVideoRequest{
		Title:        createOpts.title,
		Tags:         normalizeTags(createOpts.tags),
		ThumbnailURL: createOpts.thumbnail,
	}

	flags := cmd.Flags()
	if flags.Changed("created-at") {
		createdAt := createOpts.createdAt
		req.CreatedAt = &createdAt
	}
	if flags.Changed("duration") {
		duration := createOpts.duration
		req.Duration = &duration
	}
	if flags.Changed("views") {
		views := createOpts.views
		req.Views = &views
	}
	return req
}

type videoCreator interface {
	CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error)
}

func runCreate(ctx context.Context, c videoCreator, w io.Writer, req models.CreateVideoRequest) error {
	video, err := c.CreateVideo(ctx, req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
			return fmt.Errorf("%s: %s", apiErr.Message, describeDetails(apiErr.Details))
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	fmt.Fprintln(w, "Created video:")
	renderCard(w, *video)
	return nil
}

// describeDetails flattens field errors into "field: message" pairs
func describeDetails(raw json.RawMessage) string {
	var fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return string(raw)
	}

	out := ""
	for i, f := range fields {
		if i > 0 {
			out += "; "
		}
		out += f.Field + ": " + f.Message
	}
	return out
}
