package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// BooleanSuccessResponse is the success response envelope for registration and wishlist toggles.
type BooleanSuccessResponse struct {
	Data  BooleanResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

type toggleFunc func(r *http.Request, id domain.Identity, key string) (bool, error)

func (c *RegistrationController) toggle(w http.ResponseWriter, r *http.Request, pathKey string, fn toggleFunc) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	changed, err := fn(r, id, r.PathValue(pathKey))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BooleanResponse{Success: changed})
}

// Register godoc
// @Summary Register for a conference
// @Description Adds the conference to the caller's registrations and takes one seat.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or no seats)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/registration [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "conferenceID", func(r *http.Request, id domain.Identity, key string) (bool, error) {
		return c.Service.RegisterForConference(r.Context(), id, key)
	})
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Removes the conference from the caller's registrations and frees the seat. success is false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/registration [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "conferenceID", func(r *http.Request, id domain.Identity, key string) (bool, error) {
		return c.Service.UnregisterFromConference(r.Context(), id, key)
	})
}

// AddToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already on the wishlist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID}/wishlist [post]
func (c *RegistrationController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "sessionID", func(r *http.Request, id domain.Identity, key string) (bool, error) {
		return c.Service.AddSessionToWishlist(r.Context(), id, key)
	})
}

// RemoveFromWishlist godoc
// @Summary Remove a session from the caller's wishlist
// @Description success is false when the session was not on the wishlist.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{sessionID}/wishlist [delete]
func (c *RegistrationController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "sessionID", func(r *http.Request, id domain.Identity, key string) (bool, error) {
		return c.Service.RemoveSessionFromWishlist(r.Context(), id, key)
	})
}

// ListWishlist godoc
// @Summary Sessions on the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/wishlist [get]
func (c *RegistrationController) ListWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListWishlist(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionListResponse{Items: toSessionResponses(items)})
}
