package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

type featuredSpeakerService struct {
	sessions       domain.SessionRepository
	speakers       domain.SpeakerRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewFeaturedSpeakerService(sessions domain.SessionRepository,
	speakers domain.SpeakerRepository,
	cache domain.Cache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.FeaturedSpeakerService {
	return &featuredSpeakerService{
		sessions:       sessions,
		speakers:       speakers,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Recompute finds the speaker with the most sessions in the conference owning
// sessionID and publishes their name and session names under fs_<conferenceID>.
// Ties go to the speaker whose first session sorts first by name. When no session
// of the conference has a speaker the cache entry is left as is.
func (s *featuredSpeakerService) Recompute(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	trigger, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "featured speaker: session not found", "session_id", sessionID)
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}

	sessions, err := s.sessions.ListByConference(ctx, trigger.ConferenceID)
	if err != nil {
		return fmt.Errorf("list conference sessions: %w", err)
	}

	winner, names := mostFrequentSpeaker(sessions)
	if winner == "" {
		s.logger.InfoContext(ctx, "featured speaker: no speaker sessions", "conference_id", trigger.ConferenceID)
		return nil
	}

	sp, err := s.speakers.GetByID(ctx, winner)
	if err != nil {
		return fmt.Errorf("get speaker: %w", err)
	}
	raw, err := json.Marshal(domain.FeaturedSpeaker{Name: sp.Name, Sessions: names})
	if err != nil {
		return fmt.Errorf("marshal featured speaker: %w", err)
	}
	if err := s.cache.Set(ctx, domain.FeaturedSpeakerCacheKey(trigger.ConferenceID), string(raw)); err != nil {
		return err
	}
	if err := s.speakers.SetFeatured(ctx, sp.ID); err != nil {
		return fmt.Errorf("set featured flag: %w", err)
	}
	s.logger.InfoContext(ctx, "featured speaker published",
		"conference_id", trigger.ConferenceID, "speaker", sp.Name, "sessions", len(names))
	return nil
}

// mostFrequentSpeaker groups sessions by speaker in a single pass and returns the
// speaker ID with the strictly greatest count plus that speaker's session names in
// input order. The first speaker to reach the maximum wins ties.
func mostFrequentSpeaker(sessions []*domain.Session) (string, []string) {
	counts := make(map[string]int)
	var order []string
	for _, sess := range sessions {
		if sess.SpeakerID == "" {
			continue
		}
		if counts[sess.SpeakerID] == 0 {
			order = append(order, sess.SpeakerID)
		}
		counts[sess.SpeakerID]++
	}

	winner, best := "", 0
	for _, id := range order {
		if counts[id] > best {
			winner, best = id, counts[id]
		}
	}
	if winner == "" {
		return "", nil
	}

	names := make([]string, 0, best)
	for _, sess := range sessions {
		if sess.SpeakerID == winner {
			names = append(names, sess.Name)
		}
	}
	return winner, names
}

func (s *featuredSpeakerService) Get(ctx context.Context, conferenceID string) (*domain.FeaturedSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	raw, err := s.cache.Get(ctx, domain.FeaturedSpeakerCacheKey(conferenceID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, domain.NoFeaturedSpeakerMessage)
		}
		return nil, err
	}
	var fs domain.FeaturedSpeaker
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		return nil, fmt.Errorf("decode featured speaker: %w", err)
	}
	return &fs, nil
}
