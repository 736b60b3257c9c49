package domain

import (
	"context"
	"time"
)

// Default values applied to a conference when the organizer leaves them unset.
const (
	DefaultConferenceCity         = "Default City"
	DefaultConferenceMaxAttendees = 0
)

// DefaultConferenceTopics returns the topics applied when none are given.
func DefaultConferenceTopics() []string {
	return []string{"Default", "Topic"}
}

// Conference is owned by the organizer's profile (OrganizerUserID).
// swagger:model Conference
type Conference struct {
	ID              string     `json:"id"`
	OrganizerUserID string     `json:"organizer_user_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Topics          []string   `json:"topics"`
	City            string     `json:"city"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Month           int        `json:"month"`
	MaxAttendees    int        `json:"max_attendees"`
	SeatsAvailable  int        `json:"seats_available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SetStartDate sets the start date and re-derives Month (0 when unset).
func (c *Conference) SetStartDate(d *time.Time) {
	c.StartDate = d
	if d == nil {
		c.Month = 0
		return
	}
	c.Month = int(d.Month())
}

// ConferenceInput is the organizer-supplied conference data. Dates are YYYY-MM-DD.
// For updates, empty strings, empty slices and a nil MaxAttendees mean "leave unchanged".
type ConferenceInput struct {
	Name         string
	Description  string
	Topics       []string
	City         string
	StartDate    string
	EndDate      string
	MaxAttendees *int
}

// ConferenceWithOrganizer pairs a conference with its organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference
	OrganizerDisplayName string
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	// GetByIDForUpdate loads the conference and locks its row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Conference, error)
	// GetByIDs returns the conferences in the order of ids, skipping unknown IDs.
	GetByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	Update(ctx context.Context, c *Conference) error
	ListByOrganizer(ctx context.Context, userID string) ([]*Conference, error)
	ListStartingBefore(ctx context.Context, date time.Time) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= maxSeats.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*Conference, error)
	// ListBySpeaker returns the distinct conferences holding a session by the speaker.
	ListBySpeaker(ctx context.Context, speakerID string) ([]*Conference, error)
	// Query executes plan and returns one page of results plus the total match count.
	Query(ctx context.Context, plan *QueryPlan, page PaginationParams) ([]*Conference, int, error)
}

// ConferenceService defines conference mutation and query operations.
type ConferenceService interface {
	CreateConference(ctx context.Context, id Identity, in ConferenceInput) (*Conference, error)
	UpdateConference(ctx context.Context, id Identity, conferenceID string, in ConferenceInput) (*ConferenceWithOrganizer, error)
	GetConference(ctx context.Context, conferenceID string) (*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []Filter, page PaginationParams) ([]*ConferenceWithOrganizer, int, error)
	ListCreated(ctx context.Context, id Identity) ([]*ConferenceWithOrganizer, error)
	ListAttending(ctx context.Context, id Identity) ([]*ConferenceWithOrganizer, error)
	ListStartingBefore(ctx context.Context, date string) ([]*ConferenceWithOrganizer, error)
	ListBySpeaker(ctx context.Context, speakerName string) ([]*ConferenceWithOrganizer, error)
}
