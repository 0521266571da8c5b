// Package store persists the video collection as a single JSON file. The
// unit of durability is the whole collection: every save rewrites the file.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videolib/internal/validation"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// ReadError reports a collection that could not be read, parsed or validated
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read video collection %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a collection that could not be persisted
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write video collection %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// collection is the object form of the file; Save always writes it
type collection struct {
	Videos []models.Video `json:"videos"`
}

// FileStore reads and writes the collection file
type FileStore struct {
	path   string
	perm   os.FileMode
	logger *logging.Logger
}

// Option configures a FileStore
type Option func(*FileStore)

// WithLogger sets the logger used for store operations
func WithLogger(l *logging.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// WithFileMode sets the permissions of the collection file
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) { s.perm = mode }
}

// NewFileStore creates a store backed by path
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		perm:   0o644,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the full collection in on-disk order. A missing file is an
// empty collection. Any other failure, including a single record that fails
// the strict schema, fails the whole load with a *ReadError.
func (s *FileStore) Load(ctx context.Context) ([]models.Video, error) {
	span, ctx := tracing.StartSpan(ctx, "store.load")
	start := time.Now()

	videos, size, err := s.load(ctx)

	tracing.SetTag(span, "videos", len(videos))
	tracing.FinishSpan(span, err)
	s.observe("load", start, size, len(videos), err)

	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *FileStore) load(ctx context.Context) ([]models.Video, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, &ReadError{Path: s.path, Err: err}
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Video{}, 0, nil
	}
	if err != nil {
		return nil, 0, &ReadError{Path: s.path, Err: err}
	}

	videos, err := decode(data)
	if err != nil {
		return nil, int64(len(data)), &ReadError{Path: s.path, Err: err}
	}

	for i, v := range videos {
		if err := validation.ValidateVideo(v); err != nil {
			metrics.RecordValidationFailure("record")
			return nil, int64(len(data)), &ReadError{
				Path: s.path,
				Err:  fmt.Errorf("record %d (id %q): %w", i, v.ID, err),
			}
		}
	}

	return videos, int64(len(data)), nil
}

// decode accepts either a bare array of videos or {"videos": [...]}
func decode(data []byte) ([]models.Video, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty collection file")
	}

	switch trimmed[0] {
	case '[':
		var videos []models.Video
		if err := json.Unmarshal(trimmed, &videos); err != nil {
			return nil, fmt.Errorf("decode video array: %w", err)
		}
		return videos, nil
	case '{':
		var wrapped struct {
			Videos *[]models.Video `json:"videos"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode video object: %w", err)
		}
		if wrapped.Videos == nil {
			return nil, errors.New(`collection object has no "videos" array`)
		}
		return *wrapped.Videos, nil
	default:
		return nil, fmt.Errorf("unexpected collection format starting with %q", trimmed[0])
	}
}

// Save replaces the file with the given collection. The new content is
// written to a temporary file in the same directory, synced and renamed over
// the old one, so readers never observe a partial write.
func (s *FileStore) Save(ctx context.Context, videos []models.Video) error {
	span, ctx := tracing.StartSpan(ctx, "store.save")
	start := time.Now()

	size, err := s.save(ctx, videos)

	tracing.SetTag(span, "videos", len(videos))
	tracing.FinishSpan(span, err)
	s.observe("save", start, size, len(videos), err)

	return err
}

func (s *FileStore) save(ctx context.Context, videos []models.Video) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &WriteError{Path: s.path, Err: err}
	}
	if videos == nil {
		videos = []models.Video{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection{Videos: videos}); err != nil {
		return 0, &WriteError{Path: s.path, Err: fmt.Errorf("encode collection: %w", err)}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, &WriteError{Path: s.path, Err: err}
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(s.perm))
	if err != nil {
		return 0, &WriteError{Path: s.path, Err: fmt.Errorf("create pending file: %w", err)}
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.Zerolog().Debug().Err(err).Msg("cleanup pending collection file")
		}
	}()

	if _, err := pending.Write(buf.Bytes()); err != nil {
		return 0, &WriteError{Path: s.path, Err: fmt.Errorf("write pending file: %w", err)}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, &WriteError{Path: s.path, Err: fmt.Errorf("replace collection file: %w", err)}
	}

	return int64(buf.Len()), nil
}

// Health checks that the collection can be read. A library that has not
// been written yet is healthy.
func (s *FileStore) Health(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("collection directory %s is not a directory", dir)
	}
	_, _, err := s.load(ctx)
	return err
}

func (s *FileStore) observe(op string, start time.Time, size int64, videos int, err error) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError("store", op)
	} else {
		metrics.SetCollectionSize(videos)
	}
	metrics.RecordStoreOperation(op, status, duration.Seconds(), size)
	s.logger.LogStoreOperation(op, s.path, videos, duration, err)
}
