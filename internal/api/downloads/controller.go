package downloads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/api/util"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var qualityPattern = regexp.MustCompile(`^[0-9]{2,3}k$`)

type (
	CreateRequest struct {
		URL           string     `json:"url" validate:"required,url,max=2048"`
		OutputFormat  string     `json:"output_format" validate:"omitempty,oneof=mp3 flac ogg m4a wav"`
		OutputQuality string     `json:"output_quality" validate:"omitempty,audioQuality"`
		UserID        *uuid.UUID `json:"user_id"`
	}

	CreateResponse struct {
		ID uuid.UUID `json:"id"`
	}

	// Dto is the status view of a download task. Clients are expected
	// to poll this representation for progress.
	Dto struct {
		ID              uuid.UUID   `json:"id"`
		URL             string      `json:"url"`
		OutputFormat    task.Format `json:"output_format"`
		OutputQuality   string      `json:"output_quality"`
		Status          task.Status `json:"status"`
		Percent         int         `json:"percent"`
		CurrentStep     string      `json:"current_step"`
		ErrorLog        string      `json:"error_log"`
		RetryCount      int         `json:"retry_count"`
		OriginalTitle   *string     `json:"original_title,omitempty"`
		OriginalArtist  *string     `json:"original_artist,omitempty"`
		DurationSeconds *int        `json:"duration_seconds,omitempty"`
		TrackID         *uuid.UUID  `json:"track_id"`
		CreatedAt       time.Time   `json:"created_at"`
		CompletedAt     *time.Time  `json:"completed_at"`
	}

	Service interface {
		EnqueueDownload(ctx context.Context, req task.CreateRequest) (*task.Task, error)
		GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
		ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error)
	}

	Controller struct {
		service  Service
		validate *validator.Validate
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	if err := validate.RegisterValidation("audioQuality", func(fl validator.FieldLevel) bool {
		return qualityPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register audio quality validation: %v", err))
	}

	return &Controller{service: service, validate: validate}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/", controller.create)
	eg.GET("/", controller.list)
	eg.GET("/:id/", controller.get)
}

// create validates the request, and then creates and enqueues a new
// download task. The task ID is returned immediately, the download
// itself happens asynchronously.
func (controller *Controller) create(ec echo.Context) error {
	var request CreateRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	created, err := controller.service.EnqueueDownload(ec.Request().Context(), task.CreateRequest{
		URL:           request.URL,
		OutputFormat:  task.Format(request.OutputFormat),
		OutputQuality: request.OutputQuality,
		UserID:        request.UserID,
	})
	if err != nil {
		if errors.Is(err, task.ErrUnknownFormat) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to enqueue download: %s", err.Error()))
	}

	return ec.JSON(http.StatusCreated, CreateResponse{ID: created.ID})
}

func (controller *Controller) get(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Download ID is not a valid UUID")
	}

	t, err := controller.service.GetTask(ec.Request().Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.JSON(http.StatusOK, NewDto(t))
}

// list returns the most recent tasks, optionally filtered with
// the 'status' and 'limit' query params.
func (controller *Controller) list(ec echo.Context) error {
	filter := task.ListFilter{Limit: defaultListLimit}
	if raw := ec.QueryParam("status"); raw != "" {
		status := task.Status(raw)
		filter.Status = &status
	}
	if raw := ec.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Limit must be a positive integer")
		}
		filter.Limit = min(limit, maxListLimit)
	}

	tasks, err := controller.service.ListTasks(ec.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(tasks, NewDto))
}

func NewDto(t *task.Task) *Dto {
	return &Dto{
		ID:              t.ID,
		URL:             t.URL,
		OutputFormat:    t.OutputFormat,
		OutputQuality:   t.OutputQuality,
		Status:          t.Status,
		Percent:         t.Percent,
		CurrentStep:     t.CurrentStep,
		ErrorLog:        t.ErrorLog,
		RetryCount:      t.RetryCount,
		OriginalTitle:   t.OriginalTitle,
		OriginalArtist:  t.OriginalArtist,
		DurationSeconds: t.DurationSeconds,
		TrackID:         t.TrackID,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}
