package domain

import (
	"context"
	"time"
)

// Speaker is a global record referenced by sessions through its ID.
// swagger:model Speaker
type Speaker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	// GetOrCreateByName returns the speaker with the given name, creating it with
	// candidateID when none exists.
	GetOrCreateByName(ctx context.Context, name, candidateID string) (*Speaker, error)
	GetByName(ctx context.Context, name string) (*Speaker, error)
	GetByID(ctx context.Context, id string) (*Speaker, error)
	List(ctx context.Context) ([]*Speaker, error)
	// SetFeatured flags speakerID as featured and clears the flag on every other speaker.
	SetFeatured(ctx context.Context, speakerID string) error
}
