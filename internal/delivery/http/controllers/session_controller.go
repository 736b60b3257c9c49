package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// SessionRequest is the request body for POST /conferences/{conferenceID}/sessions.
// Date is YYYY-MM-DD; start_time and duration are HH:MM. Speaker is a speaker name.
type SessionRequest struct {
	Name          string `json:"name"`
	Highlights    string `json:"highlights"`
	Speaker       string `json:"speaker"`
	Duration      string `json:"duration"`
	TypeOfSession string `json:"type_of_session"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
}

// Validate implements Validator.
func (s SessionRequest) Validate() []string {
	var errs []string
	if s.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// SessionSuccessResponse is the success response envelope for a single session.
type SessionSuccessResponse struct {
	Data  SessionResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionListSuccessResponse is the success response envelope for session lists.
type SessionListSuccessResponse struct {
	Data  SessionListResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SessionQuerySuccessResponse is the success response envelope for POST /sessions/query.
type SessionQuerySuccessResponse struct {
	Data  SessionQueryResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SpeakerListSuccessResponse is the success response envelope for GET /speakers.
type SpeakerListSuccessResponse struct {
	Data  SpeakerListResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSession godoc
// @Summary Create a session
// @Description Adds a session to the conference. Only the organizer may add sessions; names are unique within a conference. Naming a speaker creates it when unknown and queues a featured speaker recomputation.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body SessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sess, err := c.Service.CreateSession(r.Context(), id, r.PathValue("conferenceID"), domain.SessionInput{
		Name:          req.Name,
		Highlights:    req.Highlights,
		Speaker:       req.Speaker,
		Duration:      req.Duration,
		TypeOfSession: req.TypeOfSession,
		Date:          req.Date,
		StartTime:     req.StartTime,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toSessionResponse(sess))
}

// ListByConference godoc
// @Summary Sessions of a conference
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions [get]
func (c *SessionController) ListByConference(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListByConference(r.Context(), r.PathValue("conferenceID"))
	c.writeList(w, r, items, err)
}

// ListByType godoc
// @Summary Sessions of a conference by type
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param sessionType path string true "Type of session"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/type/{sessionType} [get]
func (c *SessionController) ListByType(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListByConferenceAndType(r.Context(), r.PathValue("conferenceID"), r.PathValue("sessionType"))
	c.writeList(w, r, items, err)
}

// ListByConferenceAndSpeaker godoc
// @Summary Sessions of a conference by speaker
// @Tags sessions
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Param name query string true "Speaker name"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown speaker)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sessions/speaker [get]
func (c *SessionController) ListByConferenceAndSpeaker(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListByConferenceAndSpeaker(r.Context(), r.PathValue("conferenceID"), r.URL.Query().Get("name"))
	c.writeList(w, r, items, err)
}

// ListBySpeaker godoc
// @Summary Sessions by speaker across all conferences
// @Tags speakers
// @Produce json
// @Param name query string true "Speaker name"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown speaker)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/sessions [get]
func (c *SessionController) ListBySpeaker(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListBySpeaker(r.Context(), r.URL.Query().Get("name"))
	c.writeList(w, r, items, err)
}

// QuerySessions godoc
// @Summary Query sessions
// @Description Filters sessions by NAME, TYPE, HIGHLIGHTS, SPEAKER, DURATION and START with EQ, NE, GT, GTEQ, LT, LTEQ. Non-equality filters may target one field only.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body QueryRequest true "Filters"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.SessionQuerySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/query [post]
func (c *SessionController) QuerySessions(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	page := helpers.ParsePagination(r)
	items, total, err := c.Service.QuerySessions(r.Context(), req.filters(), page)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionQueryResponse{
		Items:      toSessionResponses(items),
		Pagination: helpers.NewPaginationMeta(page, total),
	})
}

// ListCreated godoc
// @Summary Sessions of the caller's conferences
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/created [get]
func (c *SessionController) ListCreated(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListCreated(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	out := make([]SessionResponse, 0, len(items))
	for _, it := range items {
		resp := toSessionResponse(it.Session)
		resp.OrganizerDisplayName = it.OrganizerDisplayName
		out = append(out, resp)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionListResponse{Items: out})
}

// ListBefore godoc
// @Summary Sessions held before a date
// @Tags sessions
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/before [get]
func (c *SessionController) ListBefore(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListBefore(r.Context(), r.URL.Query().Get("date"))
	c.writeList(w, r, items, err)
}

// ListNonWorkshopsBefore godoc
// @Summary Non-workshop sessions starting before a time
// @Description Returns sessions that are not workshops and start before start_time (HH:MM, default 19:00).
// @Tags sessions
// @Produce json
// @Param start_time query string false "Cutoff (HH:MM)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/non-workshop-before-seven [get]
func (c *SessionController) ListNonWorkshopsBefore(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListNonWorkshopsBefore(r.Context(), r.URL.Query().Get("start_time"))
	c.writeList(w, r, items, err)
}

// ListSpeakers godoc
// @Summary All speakers
// @Tags speakers
// @Produce json
// @Success 200 {object} controllers.SpeakerListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *SessionController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListSpeakers(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SpeakerListResponse{Items: toSpeakerResponses(items)})
}

func (c *SessionController) writeList(w http.ResponseWriter, r *http.Request, items []*domain.Session, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionListResponse{Items: toSessionResponses(items)})
}
