package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

// GetOrCreateByName relies on the unique index on speakers.name, so concurrent
// callers with the same name resolve to one row.
func (r *speakerRepository) GetOrCreateByName(ctx context.Context, name, candidateID string) (*domain.Speaker, error) {
	query := `
		INSERT INTO speakers (id, name, featured, created_at, updated_at)
		VALUES ($1, $2, FALSE, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, featured, created_at, updated_at
	`
	return scanSpeaker(conn(ctx, r.DB).QueryRowContext(ctx, query, candidateID, name))
}

func (r *speakerRepository) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	query := `SELECT id, name, featured, created_at, updated_at FROM speakers WHERE name = $1`
	return scanSpeaker(conn(ctx, r.DB).QueryRowContext(ctx, query, name))
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	query := `SELECT id, name, featured, created_at, updated_at FROM speakers WHERE id = $1`
	return scanSpeaker(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `SELECT id, name, featured, created_at, updated_at FROM speakers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		sp, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, sp)
	}
	return speakers, rows.Err()
}

func (r *speakerRepository) SetFeatured(ctx context.Context, speakerID string) error {
	query := `
		UPDATE speakers
		SET featured = (id = $1), updated_at = NOW()
		WHERE featured OR id = $1
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, speakerID)
	return err
}

func scanSpeaker(row rowScanner) (*domain.Speaker, error) {
	sp := &domain.Speaker{}
	if err := row.Scan(&sp.ID, &sp.Name, &sp.Featured, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}
