package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"

	"github.com/google/uuid"
)

type conferenceService struct {
	tx             domain.Transactor
	conferences    domain.ConferenceRepository
	profiles       domain.ProfileRepository
	speakers       domain.SpeakerRepository
	tasks          domain.TaskDispatcher
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewConferenceService(tx domain.Transactor,
	conferences domain.ConferenceRepository,
	profiles domain.ProfileRepository,
	speakers domain.SpeakerRepository,
	tasks domain.TaskDispatcher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		tx:             tx,
		conferences:    conferences,
		profiles:       profiles,
		speakers:       speakers,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, id domain.Identity, in domain.ConferenceInput) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}
	start, end, err := parseConferenceDates(in)
	if err != nil {
		return nil, err
	}
	maxAttendees := domain.DefaultConferenceMaxAttendees
	if in.MaxAttendees != nil {
		if *in.MaxAttendees < 0 {
			return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
		}
		maxAttendees = *in.MaxAttendees
	}

	now := time.Now()
	c := &domain.Conference{
		ID:              uuid.NewString(),
		OrganizerUserID: id.UserID,
		Name:            name,
		Description:     in.Description,
		Topics:          in.Topics,
		City:            in.City,
		EndDate:         end,
		MaxAttendees:    maxAttendees,
		SeatsAvailable:  maxAttendees,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(c.Topics) == 0 {
		c.Topics = domain.DefaultConferenceTopics()
	}
	if c.City == "" {
		c.City = domain.DefaultConferenceCity
	}
	c.SetStartDate(start)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := loadProfile(ctx, s.profiles, id, false); err != nil {
			return err
		}
		if err := s.conferences.Create(ctx, c); err != nil {
			return fmt.Errorf("create conference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if id.Email != "" {
		params := map[string]string{
			domain.TaskParamEmail:          id.Email,
			domain.TaskParamConferenceInfo: conferenceInfo(c),
		}
		if err := s.tasks.Enqueue(ctx, domain.RouteSendConfirmationEmail, params); err != nil {
			s.logger.ErrorContext(ctx, "enqueue confirmation email", "conference_id", c.ID, "err", err)
		}
	}
	return c, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, id domain.Identity, conferenceID string, in domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	start, end, err := parseConferenceDates(in)
	if err != nil {
		return nil, err
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
	}

	var c *domain.Conference
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.conferences.GetByIDForUpdate(ctx, conferenceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
			}
			return fmt.Errorf("get conference: %w", err)
		}
		if c.OrganizerUserID != id.UserID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}
		applyConferenceUpdate(c, in, start, end)
		c.UpdatedAt = time.Now()
		if err := s.conferences.Update(ctx, c); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out, err := withOrganizers(ctx, s.profiles, []*domain.Conference{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// applyConferenceUpdate copies the non-empty fields of in onto c. Seats follow a
// change of maxAttendees by the same delta, clamped to [0, maxAttendees].
func applyConferenceUpdate(c *domain.Conference, in domain.ConferenceInput, start, end *time.Time) {
	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if len(in.Topics) > 0 {
		c.Topics = in.Topics
	}
	if in.City != "" {
		c.City = in.City
	}
	if start != nil {
		c.SetStartDate(start)
	}
	if end != nil {
		c.EndDate = end
	}
	if in.MaxAttendees != nil {
		delta := *in.MaxAttendees - c.MaxAttendees
		c.MaxAttendees = *in.MaxAttendees
		c.SeatsAvailable = min(max(c.SeatsAvailable+delta, 0), c.MaxAttendees)
	}
}

func (s *conferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.getConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	out, err := withOrganizers(ctx, s.profiles, []*domain.Conference{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.Filter, page domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := query.ConferencePlan(filters)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.conferences.Query(ctx, plan, page)
	if err != nil {
		return nil, 0, fmt.Errorf("query conferences: %w", err)
	}
	out, err := withOrganizers(ctx, s.profiles, items)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *conferenceService) ListCreated(ctx context.Context, id domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	items, err := s.conferences.ListByOrganizer(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list created conferences: %w", err)
	}
	return withOrganizers(ctx, s.profiles, items)
}

func (s *conferenceService) ListAttending(ctx context.Context, id domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	p, err := loadProfile(ctx, s.profiles, id, false)
	if err != nil {
		return nil, err
	}
	items, err := s.conferences.GetByIDs(ctx, p.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("get attended conferences: %w", err)
	}
	return withOrganizers(ctx, s.profiles, items)
}

func (s *conferenceService) ListStartingBefore(ctx context.Context, date string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if date == "" {
		return nil, fmt.Errorf("%w: 'date' is required for query", domain.ErrInvalidInput)
	}
	d, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}
	items, err := s.conferences.ListStartingBefore(ctx, *d)
	if err != nil {
		return nil, fmt.Errorf("list conferences before date: %w", err)
	}
	return withOrganizers(ctx, s.profiles, items)
}

func (s *conferenceService) ListBySpeaker(ctx context.Context, speakerName string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := findSpeaker(ctx, s.speakers, speakerName)
	if err != nil {
		return nil, err
	}
	items, err := s.conferences.ListBySpeaker(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by speaker: %w", err)
	}
	return withOrganizers(ctx, s.profiles, items)
}

func (s *conferenceService) getConference(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	c, err := s.conferences.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return c, nil
}

func parseConferenceDates(in domain.ConferenceInput) (start, end *time.Time, err error) {
	if start, err = parseDate("startDate", in.StartDate); err != nil {
		return nil, nil, err
	}
	if end, err = parseDate("endDate", in.EndDate); err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("%w: endDate must not be before startDate", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// findSpeaker looks a speaker up by name. An unknown name is a bad request.
func findSpeaker(ctx context.Context, speakers domain.SpeakerRepository, name string) (*domain.Speaker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: speaker name is required", domain.ErrInvalidInput)
	}
	sp, err := speakers.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker by the name of %q", domain.ErrInvalidInput, name)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return sp, nil
}

// conferenceInfo renders a plain-text summary used in the confirmation email.
func conferenceInfo(c *domain.Conference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&b, "City: %s\n", c.City)
	fmt.Fprintf(&b, "Topics: %s\n", strings.Join(c.Topics, ", "))
	if c.StartDate != nil {
		fmt.Fprintf(&b, "Start date: %s\n", c.StartDate.Format(dateLayout))
	}
	if c.EndDate != nil {
		fmt.Fprintf(&b, "End date: %s\n", c.EndDate.Format(dateLayout))
	}
	fmt.Fprintf(&b, "Max attendees: %d", c.MaxAttendees)
	return b.String()
}
