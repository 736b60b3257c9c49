package services

import (
	"context"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	tx             domain.Transactor
	profiles       domain.ProfileRepository
	contextTimeout time.Duration
}

func NewProfileService(tx domain.Transactor, profiles domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{
		tx:             tx,
		profiles:       profiles,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.profiles, id, false)
}

func (s *profileService) SaveProfile(ctx context.Context, id domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if update.TeeShirtSize != "" && !update.TeeShirtSize.Valid() {
		return nil, fmt.Errorf("%w: unknown tee shirt size %q", domain.ErrInvalidInput, update.TeeShirtSize)
	}

	var out *domain.Profile
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := loadProfile(ctx, s.profiles, id, true)
		if err != nil {
			return err
		}
		changed := false
		if update.DisplayName != "" && update.DisplayName != p.DisplayName {
			p.DisplayName = update.DisplayName
			changed = true
		}
		if update.TeeShirtSize != "" && update.TeeShirtSize != p.TeeShirtSize {
			p.TeeShirtSize = update.TeeShirtSize
			changed = true
		}
		if changed {
			p.UpdatedAt = time.Now()
			if err := s.profiles.Update(ctx, p); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// requireIdentity rejects calls made without an authenticated user.
func requireIdentity(id domain.Identity) error {
	if id.UserID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// loadProfile returns the caller's profile, creating it on first access. With
// forUpdate set the row stays locked until the surrounding transaction ends.
func loadProfile(ctx context.Context, profiles domain.ProfileRepository, id domain.Identity, forUpdate bool) (*domain.Profile, error) {
	if err := profiles.Ensure(ctx, domain.NewProfile(id, time.Now())); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	get := profiles.GetByID
	if forUpdate {
		get = profiles.GetByIDForUpdate
	}
	p, err := get(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// organizerNames resolves display names for the organizers of conferences.
func organizerNames(ctx context.Context, profiles domain.ProfileRepository, conferences []*domain.Conference) (map[string]string, error) {
	seen := make(map[string]bool, len(conferences))
	ids := make([]string, 0, len(conferences))
	for _, c := range conferences {
		if !seen[c.OrganizerUserID] {
			seen[c.OrganizerUserID] = true
			ids = append(ids, c.OrganizerUserID)
		}
	}
	names, err := profiles.DisplayNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("organizer display names: %w", err)
	}
	return names, nil
}

func withOrganizers(ctx context.Context, profiles domain.ProfileRepository, conferences []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	names, err := organizerNames(ctx, profiles, conferences)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: names[c.OrganizerUserID]})
	}
	return out, nil
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseDate parses an optional YYYY-MM-DD value; "" yields nil.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be in 'YYYY-MM-DD' format", domain.ErrInvalidInput, field)
	}
	return &t, nil
}

// parseClock normalizes an optional HH:MM value; "" stays "".
func parseClock(field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if len(value) > len(clockLayout) {
		value = value[:len(clockLayout)]
	}
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %s must be in 'HH:MM' format", domain.ErrInvalidInput, field)
	}
	return t.Format(clockLayout), nil
}
