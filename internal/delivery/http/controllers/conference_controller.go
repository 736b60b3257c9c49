package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// ConferenceRequest is the request body for POST /conferences and PUT /conferences/{conferenceID}.
// On update, omitted fields are left unchanged. Dates are YYYY-MM-DD.
type ConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	MaxAttendees *int     `json:"max_attendees"`
}

// Validate implements Validator.
func (c ConferenceRequest) Validate() []string {
	var errs []string
	if c.MaxAttendees != nil && *c.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must not be negative")
	}
	return errs
}

func (c ConferenceRequest) input() domain.ConferenceInput {
	return domain.ConferenceInput{
		Name:         c.Name,
		Description:  c.Description,
		Topics:       c.Topics,
		City:         c.City,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		MaxAttendees: c.MaxAttendees,
	}
}

// FilterRequest is one (field, operator, value) triple, e.g. {"field":"MONTH","operator":"GT","value":"3"}.
type FilterRequest struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// QueryRequest is the request body for POST /conferences/query and POST /sessions/query.
type QueryRequest struct {
	Filters []FilterRequest `json:"filters"`
}

func (q QueryRequest) filters() []domain.Filter {
	out := make([]domain.Filter, 0, len(q.Filters))
	for _, f := range q.Filters {
		out = append(out, domain.Filter{Field: f.Field, Operator: f.Operator, Value: f.Value})
	}
	return out
}

// ConferenceSuccessResponse is the success response envelope for a single conference.
type ConferenceSuccessResponse struct {
	Data  ConferenceResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ConferenceListSuccessResponse is the success response envelope for conference lists.
type ConferenceListSuccessResponse struct {
	Data  ConferenceListResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ConferenceQuerySuccessResponse is the success response envelope for POST /conferences/query.
type ConferenceQuerySuccessResponse struct {
	Data  ConferenceQueryResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. City and topics default when omitted; seats available start at max_attendees. A confirmation email is queued.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Service.CreateConference(r.Context(), id, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toConferenceResponse(conf, ""))
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Updates the conference. Only the organizer may update it. Changing max_attendees moves seats available by the same amount.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param body body ConferenceRequest true "Fields to update"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.Service.UpdateConference(r.Context(), id, r.PathValue("conferenceID"), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponse(out.Conference, out.OrganizerDisplayName))
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	out, err := c.Service.GetConference(r.Context(), r.PathValue("conferenceID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceResponse(out.Conference, out.OrganizerDisplayName))
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters conferences by CITY, TOPIC, MONTH and MAX_ATTENDEES with EQ, NE, GT, GTEQ, LT, LTEQ. Non-equality filters may target one field only.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body QueryRequest true "Filters"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.ConferenceQuerySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	page := helpers.ParsePagination(r)
	items, total, err := c.Service.QueryConferences(r.Context(), req.filters(), page)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConferenceQueryResponse{
		Items:      toConferenceResponses(items),
		Pagination: helpers.NewPaginationMeta(page, total),
	})
}

// ListCreated godoc
// @Summary Conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListCreated(r.Context(), id)
	c.writeList(w, r, items, err)
}

// ListAttending godoc
// @Summary Conferences the caller is registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListAttending(r.Context(), id)
	c.writeList(w, r, items, err)
}

// ListStartingBefore godoc
// @Summary Conferences starting before a date
// @Tags conferences
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/before [get]
func (c *ConferenceController) ListStartingBefore(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListStartingBefore(r.Context(), r.URL.Query().Get("date"))
	c.writeList(w, r, items, err)
}

// ListBySpeaker godoc
// @Summary Conferences where a speaker presents
// @Tags speakers
// @Produce json
// @Param name query string true "Speaker name"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown speaker)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/conferences [get]
func (c *ConferenceController) ListBySpeaker(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListBySpeaker(r.Context(), r.URL.Query().Get("name"))
	c.writeList(w, r, items, err)
}

func (c *ConferenceController) writeList(w http.ResponseWriter, r *http.Request, items []*domain.ConferenceWithOrganizer, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConferenceListResponse{Items: toConferenceResponses(items)})
}
