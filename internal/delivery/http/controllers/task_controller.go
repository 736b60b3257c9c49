package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// TaskResponse acknowledges a task run over HTTP.
type TaskResponse struct {
	Route string `json:"route"`
}

// TaskController runs background task handlers on request, for push-style
// schedulers and manual replays. Params arrive as a flat JSON object of strings.
type TaskController struct {
	Logger   *slog.Logger
	Handlers map[string]domain.TaskHandler
}

func NewTaskController(logger *slog.Logger, handlers map[string]domain.TaskHandler) *TaskController {
	return &TaskController{
		Logger:   logger,
		Handlers: handlers,
	}
}

// SetFeaturedSpeaker godoc
// @Summary Recompute a conference's featured speaker
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Task-Secret header string false "Task secret"
// @Param body body map[string]string true "sessionKey"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/set_featured_speaker [post]
func (c *TaskController) SetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	c.runWithBody(w, r, domain.RouteSetFeaturedSpeaker)
}

// SendConfirmationEmail godoc
// @Summary Send a conference creation confirmation email
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Task-Secret header string false "Task secret"
// @Param body body map[string]string true "email and conferenceInfo"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/send_confirmation_email [post]
func (c *TaskController) SendConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	c.runWithBody(w, r, domain.RouteSendConfirmationEmail)
}

// SetAnnouncement godoc
// @Summary Refresh the nearly sold out announcement
// @Tags tasks
// @Produce json
// @Param X-Task-Secret header string false "Task secret"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crons/set_announcement [get]
func (c *TaskController) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, domain.RouteSetAnnouncement, nil)
}

func (c *TaskController) runWithBody(w http.ResponseWriter, r *http.Request, route string) {
	params := map[string]string{}
	if !helpers.DecodeAndValidate(w, r, &params) {
		return
	}
	c.run(w, r, route, params)
}

func (c *TaskController) run(w http.ResponseWriter, r *http.Request, route string, params map[string]string) {
	h, ok := c.Handlers[route]
	if !ok {
		c.Logger.ErrorContext(r.Context(), "no handler for task route", "route", route)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "task route not configured")
		return
	}
	if err := h(r.Context(), params); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TaskResponse{Route: route})
}
