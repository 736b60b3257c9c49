// Package worker binds background task routes to the services that carry them out.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"conferencecentral/internal/domain"
)

// Handlers returns the task handlers keyed by route. A task missing a required
// parameter is logged and dropped; infrastructure errors are returned so the
// queue retries the task.
func Handlers(featured domain.FeaturedSpeakerService,
	announcements domain.AnnouncementService,
	email domain.EmailService,
	logger *slog.Logger,
) map[string]domain.TaskHandler {
	logger = logger.With("component", "worker")
	return map[string]domain.TaskHandler{
		domain.RouteSetFeaturedSpeaker:    setFeaturedSpeaker(featured, logger),
		domain.RouteSendConfirmationEmail: sendConfirmationEmail(email, logger),
		domain.RouteSetAnnouncement:       setAnnouncement(announcements),
	}
}

func setFeaturedSpeaker(featured domain.FeaturedSpeakerService, logger *slog.Logger) domain.TaskHandler {
	return func(ctx context.Context, params map[string]string) error {
		sessionID := params[domain.TaskParamSessionKey]
		if sessionID == "" {
			logger.WarnContext(ctx, "set featured speaker: missing parameter", "param", domain.TaskParamSessionKey)
			return nil
		}
		return featured.Recompute(ctx, sessionID)
	}
}

func sendConfirmationEmail(email domain.EmailService, logger *slog.Logger) domain.TaskHandler {
	return func(ctx context.Context, params map[string]string) error {
		data := &domain.ConferenceCreatedEmailData{
			Email:          params[domain.TaskParamEmail],
			ConferenceInfo: params[domain.TaskParamConferenceInfo],
		}
		err := email.SendConferenceCreated(ctx, data)
		if errors.Is(err, domain.ErrInvalidInput) {
			logger.WarnContext(ctx, "send confirmation email: dropped", "err", err)
			return nil
		}
		return err
	}
}

func setAnnouncement(announcements domain.AnnouncementService) domain.TaskHandler {
	return func(ctx context.Context, _ map[string]string) error {
		_, err := announcements.Refresh(ctx)
		return err
	}
}
