package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type announcementService struct {
	conferences    domain.ConferenceRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewAnnouncementService(conferences domain.ConferenceRepository, cache domain.Cache, logger *slog.Logger, timeout time.Duration) domain.AnnouncementService {
	return &announcementService{
		conferences:    conferences,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Refresh publishes the names of nearly sold out conferences, or clears the
// announcement when there are none.
func (s *announcementService) Refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferences.ListNearlySoldOut(ctx, domain.NearlySoldOutSeatsThreshold)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, domain.AnnouncementCacheKey); err != nil {
			return "", err
		}
		s.logger.DebugContext(ctx, "announcement cleared")
		return "", nil
	}

	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	announcement := fmt.Sprintf(domain.AnnouncementTemplate, strings.Join(names, ", "))
	if err := s.cache.Set(ctx, domain.AnnouncementCacheKey, announcement); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "announcement published", "conferences", len(confs))
	return announcement, nil
}

func (s *announcementService) Get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v, err := s.cache.Get(ctx, domain.AnnouncementCacheKey)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}
