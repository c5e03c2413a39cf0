package tracks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/api/util"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/labstack/echo/v4"
)

type (
	Dto struct {
		ID              uuid.UUID  `json:"id"`
		Title           string     `json:"title"`
		ArtistID        uuid.UUID  `json:"artist_id"`
		Artist          string     `json:"artist"`
		Album           string     `json:"album,omitempty"`
		Format          string     `json:"format"`
		DurationSeconds int        `json:"duration_seconds"`
		BitrateKbps     int        `json:"bitrate_kbps"`
		SampleRateHz    int        `json:"sample_rate_hz"`
		Channels        int        `json:"channels"`
		FileSize        int64      `json:"file_size"`
		StorageRef      string     `json:"storage_ref"`
		SourceURL       string     `json:"source_url"`
		TaskID          *uuid.UUID `json:"task_id"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	Service interface {
		GetTrack(ctx context.Context, id uuid.UUID) (*catalog.Track, error)
	}

	Controller struct {
		service Service
	}
)

func New(service Service) *Controller {
	return &Controller{service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/:id/", controller.get)
}

func (controller *Controller) get(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Track ID is not a valid UUID")
	}

	track, err := controller.service.GetTrack(ec.Request().Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrTrackNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.JSON(http.StatusOK, NewDto(track))
}

func NewDto(track *catalog.Track) *Dto {
	return &Dto{
		ID:              track.ID,
		Title:           track.Title,
		ArtistID:        track.ArtistID,
		Artist:          track.ArtistName,
		Album:           util.NotNilOrDefault(track.Album, ""),
		Format:          track.Format,
		DurationSeconds: track.DurationSeconds,
		BitrateKbps:     track.BitrateKbps,
		SampleRateHz:    track.SampleRateHz,
		Channels:        track.Channels,
		FileSize:        track.FileSize,
		StorageRef:      track.StorageRef,
		SourceURL:       track.SourceURL,
		TaskID:          track.TaskID,
		CreatedAt:       track.CreatedAt,
	}
}
