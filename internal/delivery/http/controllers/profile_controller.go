package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// SaveProfileRequest is the request body for POST /profile. Empty fields are left unchanged.
type SaveProfileRequest struct {
	DisplayName  string `json:"display_name"`
	TeeShirtSize string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (p SaveProfileRequest) Validate() []string {
	var errs []string
	if p.TeeShirtSize != "" && !domain.TeeShirtSize(p.TeeShirtSize).Valid() {
		errs = append(errs, "tee_shirt_size is not a known size")
	}
	return errs
}

// ProfileSuccessResponse is the success response envelope for the profile endpoints.
type ProfileSuccessResponse struct {
	Data  ProfileResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// requireIdentity returns the caller set by RequireAuth, writing 401 when absent.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authorization required")
		return domain.Identity{}, false
	}
	return id, true
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the caller's profile, creating it from the token's nickname and email on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := c.Service.GetProfile(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileResponse(p))
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Description Updates display name and t-shirt size. Empty fields are left unchanged.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveProfileRequest true "Profile fields"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req SaveProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.SaveProfile(r.Context(), id, domain.ProfileUpdate{
		DisplayName:  req.DisplayName,
		TeeShirtSize: domain.TeeShirtSize(req.TeeShirtSize),
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileResponse(p))
}
