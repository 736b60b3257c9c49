package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// FeaturedSpeakerSuccessResponse is the success response envelope for the featured speaker.
type FeaturedSpeakerSuccessResponse struct {
	Data  domain.FeaturedSpeaker `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// AnnouncementResponse holds the current announcement; empty when none is published.
type AnnouncementResponse struct {
	Announcement string `json:"announcement"`
}

// AnnouncementSuccessResponse is the success response envelope for GET /announcement.
type AnnouncementSuccessResponse struct {
	Data  AnnouncementResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CacheController serves the values the background jobs publish.
type CacheController struct {
	Logger        *slog.Logger
	Featured      domain.FeaturedSpeakerService
	Announcements domain.AnnouncementService
}

func NewCacheController(logger *slog.Logger, featured domain.FeaturedSpeakerService, announcements domain.AnnouncementService) *CacheController {
	return &CacheController{
		Logger:        logger,
		Featured:      featured,
		Announcements: announcements,
	}
}

// GetFeaturedSpeaker godoc
// @Summary Featured speaker of a conference
// @Description Returns the speaker with the most sessions in the conference, as last published by the background job.
// @Tags speakers
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.FeaturedSpeakerSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (No featured speaker found.)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/featured-speaker [get]
func (c *CacheController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	fs, err := c.Featured.Get(r.Context(), r.PathValue("conferenceID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, domain.NoFeaturedSpeakerMessage)
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, fs)
}

// GetAnnouncement godoc
// @Summary Current announcement
// @Description Returns the "nearly sold out" announcement, or an empty string when there is none.
// @Tags announcement
// @Produce json
// @Success 200 {object} controllers.AnnouncementSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *CacheController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := c.Announcements.Get(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Announcement: a})
}
