package domain

import "context"

// RegistrationService toggles conference registrations and session wishlist entries
// on the caller's profile. Add operations return ErrConflict when the entry already
// exists; remove operations return false (not an error) when it does not.
type RegistrationService interface {
	RegisterForConference(ctx context.Context, id Identity, conferenceID string) (bool, error)
	UnregisterFromConference(ctx context.Context, id Identity, conferenceID string) (bool, error)
	AddSessionToWishlist(ctx context.Context, id Identity, sessionID string) (bool, error)
	RemoveSessionFromWishlist(ctx context.Context, id Identity, sessionID string) (bool, error)
	ListWishlist(ctx context.Context, id Identity) ([]*Session, error)
}
