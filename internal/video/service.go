// Package video implements the query service over the video collection:
// listing with optional ordering, search, lookup and creation.
package video

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/internal/search"
	"github.com/therealutkarshpriyadarshi/videolib/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videolib/internal/validation"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// PlaceholderThumbnailBase prefixes the synthesized thumbnail URL; the
// escaped title is appended to it.
const PlaceholderThumbnailBase = "https://via.placeholder.com/320x180?text="

// ErrNotFound is returned when no video has the requested id
var ErrNotFound = errors.New("video not found")

// InternalInvariantError means a record built from a valid request failed the
// strict schema. Defaults are supposed to make that impossible.
type InternalInvariantError struct {
	Video models.Video
	Err   error
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("synthesized video %q violates schema: %v", e.Video.ID, e.Err)
}

func (e *InternalInvariantError) Unwrap() error { return e.Err }

// Store loads and saves the whole collection
type Store interface {
	Load(ctx context.Context) ([]models.Video, error)
	Save(ctx context.Context, videos []models.Video) error
}

// Publisher is notified after a video has been persisted
type Publisher interface {
	PublishVideoCreated(ctx context.Context, video *models.Video) error
}

type nopPublisher struct{}

func (nopPublisher) PublishVideoCreated(context.Context, *models.Video) error { return nil }

// Service is the query service. It holds no collection state between calls;
// every operation goes back to the store.
type Service struct {
	store     Store
	publisher Publisher
	logger    *logging.Logger
	now       func() time.Time
	newID     func() string

	// serializes read-modify-write cycles within this process
	writeMu sync.Mutex
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets the publisher notified of new videos
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a query service over store
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: nopPublisher{},
		logger:    logging.Nop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListVideos returns the collection, ordered by created_at when sort is set
// and in natural order otherwise.
func (s *Service) ListVideos(ctx context.Context, sort models.SortOption) ([]models.Video, error) {
	span, ctx := tracing.StartSpan(ctx, "video.list")
	tracing.SetTag(span, "sort", string(sort))

	videos, err := s.store.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load collection: %w", err)
		tracing.FinishSpan(span, err)
		return nil, err
	}

	sorted := SortVideos(videos, sort)
	tracing.FinishSpan(span, nil)
	return sorted, nil
}

// SearchVideos lists the collection and applies the search filter
func (s *Service) SearchVideos(ctx context.Context, sort models.SortOption, query string) (search.Result, error) {
	videos, err := s.ListVideos(ctx, sort)
	if err != nil {
		return search.Result{}, err
	}

	result := search.Filter(videos, query)
	if result.IsSearching {
		metrics.RecordSearch(result.HasResults)
	}
	return result, nil
}

// GetVideoByID returns the video with the given id or ErrNotFound
func (s *Service) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	videos, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	for i := range videos {
		if videos[i].ID == id {
			v := videos[i]
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// CreateVideo validates req, fills in defaults, appends the new record to
// the collection and persists it.
func (s *Service) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error) {
	span, ctx := tracing.StartSpan(ctx, "video.create")

	video, err := s.create(ctx, req)
	tracing.FinishSpan(span, err)
	if err != nil {
		return nil, err
	}

	metrics.RecordVideoCreated()
	log := s.logger.WithVideoID(video.ID)
	log.Info("Video created")

	if err := s.publisher.PublishVideoCreated(ctx, video); err != nil {
		log.ErrorWithErr("Failed to publish video.created event", err)
	}
	return video, nil
}

func (s *Service) create(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error) {
	if err := validation.ValidateCreateRequest(req); err != nil {
		metrics.RecordValidationFailure("request")
		return nil, err
	}

	video := s.buildVideo(req)
	if err := validation.ValidateVideo(video); err != nil {
		metrics.RecordValidationFailure("invariant")
		ierr := &InternalInvariantError{Video: video, Err: err}
		s.logger.ErrorWithErr("Synthesized video failed schema validation", ierr)
		return nil, ierr
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	videos, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	videos = append(videos, video)
	if err := s.store.Save(ctx, videos); err != nil {
		return nil, fmt.Errorf("save collection: %w", err)
	}

	return &video, nil
}

func (s *Service) buildVideo(req models.CreateVideoRequest) models.Video {
	tags := make([]string, len(req.Tags))
	copy(tags, req.Tags)

	createdAt := models.FormatTimestamp(s.now())
	if req.CreatedAt != nil && *req.CreatedAt != "" {
		createdAt = *req.CreatedAt
	}

	thumbnail := req.ThumbnailURL
	if thumbnail == "" {
		thumbnail = PlaceholderThumbnail(req.Title)
	}

	duration := float64(models.DefaultDuration)
	if req.Duration != nil {
		duration = *req.Duration
	}

	views := float64(models.DefaultViews)
	if req.Views != nil {
		views = *req.Views
	}

	return models.Video{
		ID:           s.newID(),
		Title:        req.Title,
		CreatedAt:    createdAt,
		Tags:         tags,
		ThumbnailURL: thumbnail,
		Duration:     duration,
		Views:        views,
	}
}

// PlaceholderThumbnail builds the placeholder image URL for a title
func PlaceholderThumbnail(title string) string {
	return PlaceholderThumbnailBase + strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}

// SortVideos returns a copy of videos ordered by created_at. The sort is
// stable: records with equal timestamps keep their relative order. Values
// that do not parse sort as the zero time. SortNatural returns videos as is.
func SortVideos(videos []models.Video, sort models.SortOption) []models.Video {
	if sort == models.SortNatural {
		return videos
	}

	type keyed struct {
		video models.Video
		at    time.Time
	}
	items := make([]keyed, len(videos))
	for i, v := range videos {
		at, _ := models.ParseTimestamp(v.CreatedAt)
		items[i] = keyed{video: v, at: at}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		if sort == models.SortCreatedAtDesc {
			return b.at.Compare(a.at)
		}
		return a.at.Compare(b.at)
	})

	out := make([]models.Video, len(items))
	for i, it := range items {
		out[i] = it.video
	}
	return out
}
