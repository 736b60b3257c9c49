package domain

import (
	"context"
	"slices"
	"time"
)

// TeeShirtSize is the t-shirt size recorded on a profile.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = []TeeShirtSize{
	TeeShirtNotSpecified,
	TeeShirtXSM, TeeShirtXSW, TeeShirtSM, TeeShirtSW, TeeShirtMM, TeeShirtMW,
	TeeShirtLM, TeeShirtLW, TeeShirtXLM, TeeShirtXLW, TeeShirtXXLM, TeeShirtXXLW,
	TeeShirtXXXLM, TeeShirtXXXLW,
}

// Valid reports whether s is one of the known sizes.
func (s TeeShirtSize) Valid() bool {
	return slices.Contains(teeShirtSizes, s)
}

// Profile is the per-user record keyed by the authenticated user ID.
// swagger:model Profile
type Profile struct {
	UserID                 string       `json:"user_id"`
	DisplayName            string       `json:"display_name"`
	MainEmail              string       `json:"main_email"`
	TeeShirtSize           TeeShirtSize `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string     `json:"conference_keys_to_attend"`
	SessionKeysToAttend    []string     `json:"session_keys_to_attend"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// NewProfile returns the profile created lazily on first authenticated access.
func NewProfile(id Identity, now time.Time) *Profile {
	return &Profile{
		UserID:                 id.UserID,
		DisplayName:            id.Nickname,
		MainEmail:              id.Email,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{},
		SessionKeysToAttend:    []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	// Ensure inserts p unless a profile with the same UserID already exists.
	Ensure(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, userID string) (*Profile, error)
	// GetByIDForUpdate loads the profile and locks its row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, userID string) (*Profile, error)
	// DisplayNames returns userID -> display name for the given users; unknown IDs are omitted.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
	Update(ctx context.Context, p *Profile) error
}

// ProfileUpdate carries the user-modifiable profile fields. Empty values leave the field unchanged.
type ProfileUpdate struct {
	DisplayName  string
	TeeShirtSize TeeShirtSize
}

// ProfileService defines profile read/update operations for the caller.
type ProfileService interface {
	GetProfile(ctx context.Context, id Identity) (*Profile, error)
	SaveProfile(ctx context.Context, id Identity, update ProfileUpdate) (*Profile, error)
}
