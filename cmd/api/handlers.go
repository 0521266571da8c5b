package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/videolib/internal/cache"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/internal/middleware"
	"github.com/therealutkarshpriyadarshi/videolib/internal/search"
	"github.com/therealutkarshpriyadarshi/videolib/internal/store"
	"github.com/therealutkarshpriyadarshi/videolib/internal/validation"
	"github.com/therealutkarshpriyadarshi/videolib/internal/video"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

// Client-facing error messages
const (
	msgFetchFailed  = "Failed to fetch videos"
	msgInvalidVideo = "Invalid video data"
	msgCreateFailed = "Failed to create video"
	msgNotFound     = "Video not found"
)

type API struct {
	videos *video.Service
	store  *store.FileStore
	cache  *cache.Cache
	logger *logging.Logger

	rateLimit    gin.HandlerFunc
	mountMetrics bool
}

func (api *API) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(api.logger))

	// Health check
	router.GET("/health", api.healthCheck)

	if api.mountMetrics {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Served at the bare path and under /api for browser clients
	for _, prefix := range []string{"/videos", "/api/videos"} {
		group := router.Group(prefix)
		if api.rateLimit != nil {
			group.Use(api.rateLimit)
		}
		group.GET("", api.listVideos)
		group.POST("", api.createVideo)
		group.GET("/:id", api.getVideo)
	}

	return router
}

func (api *API) requestLogger(c *gin.Context) *logging.Logger {
	if id := middleware.GetRequestID(c); id != "" {
		return api.logger.WithRequestID(id)
	}
	return api.logger
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.store.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	if api.cache != nil {
		if err := api.cache.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// List videos endpoint. Supports ?sort= and ?q=.
func (api *API) listVideos(c *gin.Context) {
	sort, err := models.ParseSortOption(c.Query("sort"))
	if err != nil {
		// Unknown sort values are treated like any other fetch failure
		api.requestLogger(c).ErrorWithErr("GET /videos failed", err)
		metrics.RecordError("api", "invalid_sort")
		c.JSON(http.StatusInternalServerError, models.Failure(msgFetchFailed, nil))
		return
	}

	var videos []models.Video
	if query, ok := c.GetQuery("q"); ok {
		var result search.Result
		result, err = api.videos.SearchVideos(c.Request.Context(), sort, query)
		videos = result.Videos
		c.Header("X-Total-Results", strconv.Itoa(result.TotalResults))
	} else {
		videos, err = api.videos.ListVideos(c.Request.Context(), sort)
	}

	if err != nil {
		api.requestLogger(c).ErrorWithErr("GET /videos failed", err)
		metrics.RecordError("api", errorKind(err))
		c.JSON(http.StatusInternalServerError, models.Failure(msgFetchFailed, nil))
		return
	}

	c.JSON(http.StatusOK, models.Success(videos))
}

// Get video endpoint
func (api *API) getVideo(c *gin.Context) {
	v, err := api.videos.GetVideoByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.Failure(msgNotFound, nil))
			return
		}
		api.requestLogger(c).ErrorWithErr("GET /videos/:id failed", err)
		metrics.RecordError("api", errorKind(err))
		c.JSON(http.StatusInternalServerError, models.Failure(msgFetchFailed, nil))
		return
	}

	c.JSON(http.StatusOK, models.Success(v))
}

// Create video endpoint
func (api *API) createVideo(c *gin.Context) {
	var req models.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordValidationFailure("decode")
		c.JSON(http.StatusBadRequest, models.Failure(msgInvalidVideo, []validation.FieldError{{
			Field:   "body",
			Rule:    "json",
			Message: "Request body must be a valid JSON video object",
		}}))
		return
	}

	v, err := api.videos.CreateVideo(c.Request.Context(), req)
	if err != nil {
		api.respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Success(v))
}

// respondCreateError maps create failures to responses. Server-side errors
// can wrap a *validation.Error (a stored record or the synthesized video
// failing the schema), so they are matched first and never leak details.
func (api *API) respondCreateError(c *gin.Context, err error) {
	if kind := errorKind(err); kind != "internal" {
		api.respondServerError(c, err, kind)
		return
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.Failure(msgInvalidVideo, verr.Fields))
		return
	}

	api.respondServerError(c, err, "internal")
}

func (api *API) respondServerError(c *gin.Context, err error, kind string) {
	api.requestLogger(c).ErrorWithErr("POST /videos failed", err)
	metrics.RecordError("api", kind)
	c.JSON(http.StatusInternalServerError, models.Failure(msgCreateFailed, nil))
}

// errorKind labels server-side failures for metrics
func errorKind(err error) string {
	var (
		readErr      *store.ReadError
		writeErr     *store.WriteError
		invariantErr *video.InternalInvariantError
	)
	switch {
	case errors.As(err, &readErr):
		return "store_read"
	case errors.As(err, &writeErr):
		return "store_write"
	case errors.As(err, &invariantErr):
		return "invariant"
	default:
		return "internal"
	}
}
