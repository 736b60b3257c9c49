package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_to_attend, created_at, updated_at`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) Ensure(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_to_attend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysToAttend), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(conn(ctx, r.DB).QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) GetByIDForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`
	return scanProfile(conn(ctx, r.DB).QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `SELECT user_id, display_name FROM profiles WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, main_email = $3, tee_shirt_size = $4,
			conference_keys_to_attend = $5, session_keys_to_attend = $6, updated_at = $7
		WHERE user_id = $1
	`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysToAttend), p.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	err := row.Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size,
		pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysToAttend), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	if p.SessionKeysToAttend == nil {
		p.SessionKeysToAttend = []string{}
	}
	return p, nil
}
