package domain

import (
	"context"
	"time"
)

// Session is a talk or workshop owned by a conference (ConferenceID).
// Name is unique within the conference.
// swagger:model Session
type Session struct {
	ID            string     `json:"id"`
	ConferenceID  string     `json:"conference_id"`
	Name          string     `json:"name"`
	Highlights    string     `json:"highlights"`
	SpeakerID     string     `json:"speaker_id"`
	SpeakerName   string     `json:"speaker_name"`
	Duration      string     `json:"duration"`
	TypeOfSession string     `json:"type_of_session"`
	Date          *time.Time `json:"date"`
	StartTime     string     `json:"start_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SessionInput is the organizer-supplied session data. Date is YYYY-MM-DD,
// StartTime and Duration are HH:MM. Speaker is a speaker name.
type SessionInput struct {
	Name          string
	Highlights    string
	Speaker       string
	Duration      string
	TypeOfSession string
	Date          string
	StartTime     string
}

// SessionWithOrganizer pairs a session with the display name of its conference's organizer.
type SessionWithOrganizer struct {
	Session              *Session
	OrganizerDisplayName string
}

// SessionRepository defines storage operations for sessions.
// List methods return sessions ordered by name.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// GetByIDs returns the sessions in the order of ids, skipping unknown IDs.
	GetByIDs(ctx context.Context, ids []string) ([]*Session, error)
	ExistsByName(ctx context.Context, conferenceID, name string) (bool, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerID string) ([]*Session, error)
	// ListByOrganizer returns the sessions of every conference organized by userID.
	ListByOrganizer(ctx context.Context, userID string) ([]*Session, error)
	ListBefore(ctx context.Context, date time.Time) ([]*Session, error)
	// ListStartingBefore returns sessions with a start time strictly before startTime (HH:MM).
	ListStartingBefore(ctx context.Context, startTime string) ([]*Session, error)
	// Query executes plan and returns one page of results plus the total match count.
	Query(ctx context.Context, plan *QueryPlan, page PaginationParams) ([]*Session, int, error)
}

// SessionService defines session mutation and query operations.
type SessionService interface {
	CreateSession(ctx context.Context, id Identity, conferenceID string, in SessionInput) (*Session, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerName string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerName string) ([]*Session, error)
	ListCreated(ctx context.Context, id Identity) ([]*SessionWithOrganizer, error)
	ListBefore(ctx context.Context, date string) ([]*Session, error)
	// ListNonWorkshopsBefore returns sessions that are not workshops and start before startTime (HH:MM).
	ListNonWorkshopsBefore(ctx context.Context, startTime string) ([]*Session, error)
	QuerySessions(ctx context.Context, filters []Filter, page PaginationParams) ([]*Session, int, error)
	ListSpeakers(ctx context.Context) ([]*Speaker, error)
}
