package controllers

import (
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

const dateLayout = "2006-01-02"

// ConferenceResponse is the API shape of a conference.
// swagger:model ConferenceResponse
type ConferenceResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerDisplayName string   `json:"organizer_display_name"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"start_date,omitempty"`
	EndDate              string   `json:"end_date,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"max_attendees"`
	SeatsAvailable       int      `json:"seats_available"`
}

// SessionResponse is the API shape of a session.
// swagger:model SessionResponse
type SessionResponse struct {
	ID                   string `json:"id"`
	ConferenceID         string `json:"conference_id"`
	Name                 string `json:"name"`
	Highlights           string `json:"highlights"`
	Speaker              string `json:"speaker"`
	Duration             string `json:"duration"`
	TypeOfSession        string `json:"type_of_session"`
	Date                 string `json:"date,omitempty"`
	StartTime            string `json:"start_time"`
	OrganizerDisplayName string `json:"organizer_display_name,omitempty"`
}

// ProfileResponse is the API shape of the caller's profile.
// swagger:model ProfileResponse
type ProfileResponse struct {
	DisplayName            string   `json:"display_name"`
	MainEmail              string   `json:"main_email"`
	TeeShirtSize           string   `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string `json:"conference_keys_to_attend"`
	SessionKeysToAttend    []string `json:"session_keys_to_attend"`
}

// SpeakerResponse is the API shape of a speaker.
// swagger:model SpeakerResponse
type SpeakerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Featured bool   `json:"featured"`
}

// BooleanResponse reports whether a toggle changed anything.
type BooleanResponse struct {
	Success bool `json:"success"`
}

// ConferenceListResponse wraps a list of conferences.
type ConferenceListResponse struct {
	Items []ConferenceResponse `json:"items"`
}

// ConferenceQueryResponse is one page of conference query results.
type ConferenceQueryResponse struct {
	Items      []ConferenceResponse   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// SessionListResponse wraps a list of sessions.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
}

// SessionQueryResponse is one page of session query results.
type SessionQueryResponse struct {
	Items      []SessionResponse      `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// SpeakerListResponse wraps a list of speakers.
type SpeakerListResponse struct {
	Items []SpeakerResponse `json:"items"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func toConferenceResponse(c *domain.Conference, organizer string) ConferenceResponse {
	return ConferenceResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerDisplayName: organizer,
		Topics:               c.Topics,
		City:                 c.City,
		StartDate:            formatDate(c.StartDate),
		EndDate:              formatDate(c.EndDate),
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
	}
}

func toConferenceResponses(items []*domain.ConferenceWithOrganizer) []ConferenceResponse {
	out := make([]ConferenceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toConferenceResponse(it.Conference, it.OrganizerDisplayName))
	}
	return out
}

func toSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		ConferenceID:  s.ConferenceID,
		Name:          s.Name,
		Highlights:    s.Highlights,
		Speaker:       s.SpeakerName,
		Duration:      s.Duration,
		TypeOfSession: s.TypeOfSession,
		Date:          formatDate(s.Date),
		StartTime:     s.StartTime,
	}
}

func toSessionResponses(items []*domain.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSessionResponse(s))
	}
	return out
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: p.ConferenceKeysToAttend,
		SessionKeysToAttend:    p.SessionKeysToAttend,
	}
}

func toSpeakerResponses(items []*domain.Speaker) []SpeakerResponse {
	out := make([]SpeakerResponse, 0, len(items))
	for _, sp := range items {
		out = append(out, SpeakerResponse{ID: sp.ID, Name: sp.Name, Featured: sp.Featured})
	}
	return out
}
