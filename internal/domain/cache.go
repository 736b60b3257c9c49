package domain

import "context"

// Cache keys and templates published by the background jobs.
const (
	AnnouncementCacheKey        = "RECENT_ANNOUNCEMENTS"
	AnnouncementTemplate        = "Last chance to attend! The following conferences are nearly sold out: %s"
	FeaturedSpeakerKeyPrefix    = "fs_"
	NoFeaturedSpeakerMessage    = "No featured speaker found."
	NearlySoldOutSeatsThreshold = 5
)

// FeaturedSpeakerCacheKey returns the cache key holding a conference's featured speaker.
func FeaturedSpeakerCacheKey(conferenceID string) string {
	return FeaturedSpeakerKeyPrefix + conferenceID
}

// Cache is a transient key-value store. Get returns ErrCacheMiss for absent keys.
type Cache interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// FeaturedSpeaker is the cached summary for a conference's most active speaker.
// swagger:model FeaturedSpeaker
type FeaturedSpeaker struct {
	Name     string   `json:"name"`
	Sessions []string `json:"sessions"`
}

// FeaturedSpeakerService derives and reads featured speakers.
type FeaturedSpeakerService interface {
	// Recompute derives the featured speaker of the conference owning sessionID and publishes it.
	Recompute(ctx context.Context, sessionID string) error
	// Get returns the published featured speaker, or ErrNotFound when none is cached.
	Get(ctx context.Context, conferenceID string) (*FeaturedSpeaker, error)
}

// AnnouncementService refreshes and reads the "nearly sold out" announcement.
type AnnouncementService interface {
	// Refresh republishes the announcement and returns it ("" when it was cleared).
	Refresh(ctx context.Context) (string, error)
	// Get returns the current announcement or "".
	Get(ctx context.Context) (string, error)
}
