package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"conferencecentral/internal/domain"
)

type registrationService struct {
	tx             domain.Transactor
	profiles       domain.ProfileRepository
	conferences    domain.ConferenceRepository
	sessions       domain.SessionRepository
	contextTimeout time.Duration
}

func NewRegistrationService(tx domain.Transactor,
	profiles domain.ProfileRepository,
	conferences domain.ConferenceRepository,
	sessions domain.SessionRepository,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		tx:             tx,
		profiles:       profiles,
		conferences:    conferences,
		sessions:       sessions,
		contextTimeout: timeout,
	}
}

func (s *registrationService) RegisterForConference(ctx context.Context, id domain.Identity, conferenceID string) (bool, error) {
	return s.toggleRegistration(ctx, id, conferenceID, true)
}

func (s *registrationService) UnregisterFromConference(ctx context.Context, id domain.Identity, conferenceID string) (bool, error) {
	return s.toggleRegistration(ctx, id, conferenceID, false)
}

// toggleRegistration updates the profile's conference list and the conference's
// seat count in one transaction, with both rows locked.
func (s *registrationService) toggleRegistration(ctx context.Context, id domain.Identity, conferenceID string, register bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return false, err
	}

	var result bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		prof, err := loadProfile(ctx, s.profiles, id, true)
		if err != nil {
			return err
		}
		conf, err := s.conferences.GetByIDForUpdate(ctx, conferenceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
			}
			return fmt.Errorf("get conference: %w", err)
		}

		registered := slices.Contains(prof.ConferenceKeysToAttend, conferenceID)
		if register {
			if registered {
				return fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
			}
			if conf.SeatsAvailable <= 0 {
				return fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
			}
			prof.ConferenceKeysToAttend = append(prof.ConferenceKeysToAttend, conferenceID)
			conf.SeatsAvailable--
		} else {
			if !registered {
				result = false
				return nil
			}
			prof.ConferenceKeysToAttend = removeKey(prof.ConferenceKeysToAttend, conferenceID)
			conf.SeatsAvailable = min(conf.SeatsAvailable+1, conf.MaxAttendees)
		}

		now := time.Now()
		prof.UpdatedAt = now
		conf.UpdatedAt = now
		if err := s.profiles.Update(ctx, prof); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if err := s.conferences.Update(ctx, conf); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		result = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

func (s *registrationService) AddSessionToWishlist(ctx context.Context, id domain.Identity, sessionID string) (bool, error) {
	return s.toggleWishlist(ctx, id, sessionID, true)
}

func (s *registrationService) RemoveSessionFromWishlist(ctx context.Context, id domain.Identity, sessionID string) (bool, error) {
	return s.toggleWishlist(ctx, id, sessionID, false)
}

func (s *registrationService) toggleWishlist(ctx context.Context, id domain.Identity, sessionID string, add bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return false, err
	}

	var result bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		prof, err := loadProfile(ctx, s.profiles, id, true)
		if err != nil {
			return err
		}
		if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
			}
			return fmt.Errorf("get session: %w", err)
		}

		listed := slices.Contains(prof.SessionKeysToAttend, sessionID)
		if add {
			if listed {
				return fmt.Errorf("%w: you have already added this session to your list", domain.ErrConflict)
			}
			prof.SessionKeysToAttend = append(prof.SessionKeysToAttend, sessionID)
		} else {
			if !listed {
				result = false
				return nil
			}
			prof.SessionKeysToAttend = removeKey(prof.SessionKeysToAttend, sessionID)
		}

		prof.UpdatedAt = time.Now()
		if err := s.profiles.Update(ctx, prof); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		result = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

func (s *registrationService) ListWishlist(ctx context.Context, id domain.Identity) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	prof, err := loadProfile(ctx, s.profiles, id, false)
	if err != nil {
		return nil, err
	}
	items, err := s.sessions.GetByIDs(ctx, prof.SessionKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("get wishlist sessions: %w", err)
	}
	return items, nil
}

// removeKey drops the first occurrence of key, keeping the order of the rest.
func removeKey(keys []string, key string) []string {
	if i := slices.Index(keys, key); i >= 0 {
		return slices.Delete(keys, i, i+1)
	}
	return keys
}
