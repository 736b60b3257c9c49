package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const sessionSelect = `
		SELECT s.id, s.conference_id, s.name, s.highlights, s.speaker_id, sp.name, s.duration,
			s.type_of_session, s.date, s.start_time, s.created_at, s.updated_at
		FROM sessions s
		LEFT JOIN speakers sp ON sp.id = s.speaker_id`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (id, conference_id, name, highlights, speaker_id, duration, type_of_session, date, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		s.ID, s.ConferenceID, s.Name, s.Highlights, nullString(s.SpeakerID), nullString(s.Duration),
		s.TypeOfSession, nullTime(s.Date), nullString(s.StartTime), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: session %q already exists in this conference", domain.ErrConflict, s.Name)
		}
		return err
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return scanSession(conn(ctx, r.DB).QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`, id))
}

func (r *sessionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	found, err := r.list(ctx, sessionSelect+` WHERE s.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Session, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]*domain.Session, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *sessionRepository) ExistsByName(ctx context.Context, conferenceID, name string) (bool, error) {
	var exists bool
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE conference_id = $1 AND name = $2)`, conferenceID, name).Scan(&exists)
	return exists, err
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 ORDER BY s.name`, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.type_of_session = $2 ORDER BY s.name`, conferenceID, typeOfSession)
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.speaker_id = $2 ORDER BY s.name`, conferenceID, speakerID)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.speaker_id = $1 ORDER BY s.name`, speakerID)
}

func (r *sessionRepository) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := sessionSelect + `
		INNER JOIN conferences c ON c.id = s.conference_id
		WHERE c.organizer_user_id = $1
		ORDER BY s.name`
	return r.list(ctx, query, userID)
}

func (r *sessionRepository) ListBefore(ctx context.Context, date time.Time) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.date IS NOT NULL AND s.date < $1 ORDER BY s.date, s.name`, date)
}

func (r *sessionRepository) ListStartingBefore(ctx context.Context, startTime string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.start_time IS NOT NULL AND s.start_time < $1 ORDER BY s.start_time, s.name`, startTime)
}

func (r *sessionRepository) Query(ctx context.Context, plan *domain.QueryPlan, page domain.PaginationParams) ([]*domain.Session, int, error) {
	q, err := compilePlan(plan, sessionQueryColumns)
	if err != nil {
		return nil, 0, err
	}
	var total int
	countQuery := `SELECT COUNT(*) FROM sessions s LEFT JOIN speakers sp ON sp.id = s.speaker_id` + q.Where
	if err := conn(ctx, r.DB).QueryRowContext(ctx, countQuery, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	query := sessionSelect + q.Where + q.OrderBy
	query += q.limitClause(page)
	items, err := r.list(ctx, query, q.Args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var speakerID, speakerName, duration, startTime sql.NullString
	var date sql.NullTime
	err := row.Scan(&s.ID, &s.ConferenceID, &s.Name, &s.Highlights, &speakerID, &speakerName, &duration,
		&s.TypeOfSession, &date, &startTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.SpeakerID = speakerID.String
	s.SpeakerName = speakerName.String
	s.Duration = duration.String
	s.StartTime = startTime.String
	s.Date = timePtr(date)
	return s, nil
}
