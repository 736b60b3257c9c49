package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

const conferenceCreatedTemplate = "conference_created"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceCreated confirms a new conference to its organizer.
func (s *emailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) error {
	if data == nil {
		return fmt.Errorf("conference created email data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: recipient email is required", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(conferenceCreatedTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", conferenceCreatedTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send conference created email: %w", err)
	}
	s.logger.InfoContext(ctx, "conference created email sent", "to", data.Email)
	return nil
}
