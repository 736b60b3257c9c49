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

const conferenceColumns = `id, organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at`

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (` + conferenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		c.ID, c.OrganizerUserID, c.Name, c.Description, pq.Array(c.Topics), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	return scanConference(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *conferenceRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1 FOR UPDATE`
	return scanConference(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *conferenceRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1)`
	found, err := r.list(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Conference, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*domain.Conference, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
			month = $8, max_attendees = $9, seats_available = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query,
		c.ID, c.Name, c.Description, pq.Array(c.Topics), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable, c.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_user_id = $1 ORDER BY name`
	return r.list(ctx, query, userID)
}

func (r *conferenceRepository) ListStartingBefore(ctx context.Context, date time.Time) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE start_date IS NOT NULL AND start_date < $1
		ORDER BY start_date, name
	`
	return r.list(ctx, query, date)
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name
	`
	return r.list(ctx, query, maxSeats)
}

func (r *conferenceRepository) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id IN (SELECT conference_id FROM sessions WHERE speaker_id = $1)
		ORDER BY name
	`
	return r.list(ctx, query, speakerID)
}

func (r *conferenceRepository) Query(ctx context.Context, plan *domain.QueryPlan, page domain.PaginationParams) ([]*domain.Conference, int, error) {
	q, err := compilePlan(plan, conferenceQueryColumns)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM conferences`+q.Where, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count conferences: %w", err)
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences` + q.Where + q.OrderBy
	query += q.limitClause(page)
	items, err := r.list(ctx, query, q.Args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var start, end sql.NullTime
	err := row.Scan(&c.ID, &c.OrganizerUserID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.StartDate = timePtr(start)
	c.EndDate = timePtr(end)
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}
