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

// NonWorkshopCutoff is the default cutoff for ListNonWorkshopsBefore.
const NonWorkshopCutoff = "19:00"

const workshopType = "workshop"

type sessionService struct {
	tx             domain.Transactor
	sessions       domain.SessionRepository
	conferences    domain.ConferenceRepository
	speakers       domain.SpeakerRepository
	profiles       domain.ProfileRepository
	tasks          domain.TaskDispatcher
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSessionService(tx domain.Transactor,
	sessions domain.SessionRepository,
	conferences domain.ConferenceRepository,
	speakers domain.SpeakerRepository,
	profiles domain.ProfileRepository,
	tasks domain.TaskDispatcher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		tx:             tx,
		sessions:       sessions,
		conferences:    conferences,
		speakers:       speakers,
		profiles:       profiles,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, id domain.Identity, conferenceID string, in domain.SessionInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := parseClock("startTime", in.StartTime)
	if err != nil {
		return nil, err
	}
	duration, err := parseClock("duration", in.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: duration must be in 'HH:MM' format", domain.ErrInvalidInput)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:            uuid.NewString(),
		ConferenceID:  conferenceID,
		Name:          name,
		Highlights:    in.Highlights,
		Duration:      duration,
		TypeOfSession: in.TypeOfSession,
		Date:          date,
		StartTime:     startTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	speakerName := strings.TrimSpace(in.Speaker)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conf, err := s.conferences.GetByIDForUpdate(ctx, conferenceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
			}
			return fmt.Errorf("get conference: %w", err)
		}
		if conf.OrganizerUserID != id.UserID {
			return fmt.Errorf("%w: only the organizer may add sessions to the conference", domain.ErrForbidden)
		}
		exists, err := s.sessions.ExistsByName(ctx, conferenceID, name)
		if err != nil {
			return fmt.Errorf("check session name: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: entity with name %q already exists", domain.ErrConflict, name)
		}
		if speakerName != "" {
			sp, err := s.speakers.GetOrCreateByName(ctx, speakerName, uuid.NewString())
			if err != nil {
				return fmt.Errorf("get or create speaker: %w", err)
			}
			sess.SpeakerID = sp.ID
			sess.SpeakerName = sp.Name
		}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sess.SpeakerID != "" {
		params := map[string]string{domain.TaskParamSessionKey: sess.ID}
		if err := s.tasks.Enqueue(ctx, domain.RouteSetFeaturedSpeaker, params); err != nil {
			s.logger.ErrorContext(ctx, "enqueue featured speaker recompute", "session_id", sess.ID, "err", err)
		}
	}
	return sess, nil
}

func (s *sessionService) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	items, err := s.sessions.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return items, nil
}

func (s *sessionService) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	items, err := s.sessions.ListByConferenceAndType(ctx, conferenceID, typeOfSession)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return items, nil
}

func (s *sessionService) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerName string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := findSpeaker(ctx, s.speakers, speakerName)
	if err != nil {
		return nil, err
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	items, err := s.sessions.ListByConferenceAndSpeaker(ctx, conferenceID, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return items, nil
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speakerName string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := findSpeaker(ctx, s.speakers, speakerName)
	if err != nil {
		return nil, err
	}
	items, err := s.sessions.ListBySpeaker(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return items, nil
}

func (s *sessionService) ListCreated(ctx context.Context, id domain.Identity) ([]*domain.SessionWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	p, err := loadProfile(ctx, s.profiles, id, false)
	if err != nil {
		return nil, err
	}
	items, err := s.sessions.ListByOrganizer(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list created sessions: %w", err)
	}
	out := make([]*domain.SessionWithOrganizer, 0, len(items))
	for _, sess := range items {
		out = append(out, &domain.SessionWithOrganizer{Session: sess, OrganizerDisplayName: p.DisplayName})
	}
	return out, nil
}

func (s *sessionService) ListBefore(ctx context.Context, date string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if date == "" {
		return nil, fmt.Errorf("%w: 'date' is required for query", domain.ErrInvalidInput)
	}
	d, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}
	items, err := s.sessions.ListBefore(ctx, *d)
	if err != nil {
		return nil, fmt.Errorf("list sessions before date: %w", err)
	}
	return items, nil
}

func (s *sessionService) ListNonWorkshopsBefore(ctx context.Context, startTime string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cutoff, err := parseClock("startTime", startTime)
	if err != nil {
		return nil, err
	}
	if cutoff == "" {
		cutoff = NonWorkshopCutoff
	}
	// The store filters on one inequality only, so the type check runs here.
	items, err := s.sessions.ListStartingBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list sessions before %s: %w", cutoff, err)
	}
	out := make([]*domain.Session, 0, len(items))
	for _, sess := range items {
		if !strings.EqualFold(sess.TypeOfSession, workshopType) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *sessionService) QuerySessions(ctx context.Context, filters []domain.Filter, page domain.PaginationParams) ([]*domain.Session, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := query.SessionPlan(filters)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.sessions.Query(ctx, plan, page)
	if err != nil {
		return nil, 0, fmt.Errorf("query sessions: %w", err)
	}
	return items, total, nil
}

func (s *sessionService) ListSpeakers(ctx context.Context) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.speakers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return items, nil
}

func (s *sessionService) requireConference(ctx context.Context, conferenceID string) error {
	if _, err := s.conferences.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return fmt.Errorf("get conference: %w", err)
	}
	return nil
}
