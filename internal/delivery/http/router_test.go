package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
)

var routerLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Only the methods the routes under test reach are overridden; the embedded
// nil interfaces panic if anything else is called.
type stubConferenceService struct {
	domain.ConferenceService
}

func (stubConferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	if conferenceID != "c1" {
		return nil, domain.ErrNotFound
	}
	return &domain.ConferenceWithOrganizer{Conference: &domain.Conference{ID: "c1", Name: "GopherCon"}, OrganizerDisplayName: "alice"}, nil
}

type stubRegistrationService struct {
	domain.RegistrationService
}

func (stubRegistrationService) RegisterForConference(ctx context.Context, id domain.Identity, conferenceID string) (bool, error) {
	return id.UserID == "user-123", nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (domain.Identity, error) {
	if token != "good" {
		return domain.Identity{}, errors.New("bad token")
	}
	return domain.Identity{UserID: "user-123", Email: "alice@example.com"}, nil
}

func newTestRouter(ran *[]string) *http.ServeMux {
	record := func(route string) domain.TaskHandler {
		return func(ctx context.Context, params map[string]string) error {
			*ran = append(*ran, route)
			return nil
		}
	}
	handlers := map[string]domain.TaskHandler{
		domain.RouteSetFeaturedSpeaker:    record(domain.RouteSetFeaturedSpeaker),
		domain.RouteSendConfirmationEmail: record(domain.RouteSendConfirmationEmail),
		domain.RouteSetAnnouncement:       record(domain.RouteSetAnnouncement),
	}
	return NewRouter(Controllers{
		Profile:      controllers.NewProfileController(routerLogger, nil),
		Conference:   controllers.NewConferenceController(routerLogger, stubConferenceService{}),
		Session:      controllers.NewSessionController(routerLogger, nil),
		Registration: controllers.NewRegistrationController(routerLogger, stubRegistrationService{}),
		Cache:        controllers.NewCacheController(routerLogger, nil, nil),
		Task:         controllers.NewTaskController(routerLogger, handlers),
	}, stubVerifier{}, "s3cret", routerLogger)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		headers    map[string]string
		wantStatus int
		wantTask   string
	}{
		{name: "public conference read", method: http.MethodGet, target: "/conferences/c1", wantStatus: http.StatusOK},
		{name: "unknown conference", method: http.MethodGet, target: "/conferences/zz", wantStatus: http.StatusNotFound},
		{name: "registration needs a token", method: http.MethodPost, target: "/conferences/c1/registration", wantStatus: http.StatusUnauthorized},
		{name: "registration with bad token", method: http.MethodPost, target: "/conferences/c1/registration", headers: map[string]string{"Authorization": "Bearer nope"}, wantStatus: http.StatusUnauthorized},
		{name: "registration with token", method: http.MethodPost, target: "/conferences/c1/registration", headers: map[string]string{"Authorization": "Bearer good"}, wantStatus: http.StatusOK},
		{name: "profile needs a token", method: http.MethodGet, target: "/profile", wantStatus: http.StatusUnauthorized},
		{name: "task without secret", method: http.MethodPost, target: "/tasks/set_featured_speaker", body: `{"sessionKey":"s1"}`, wantStatus: http.StatusForbidden},
		{name: "task with secret", method: http.MethodPost, target: "/tasks/set_featured_speaker", body: `{"sessionKey":"s1"}`, headers: map[string]string{middleware.TaskSecretHeader: "s3cret"}, wantStatus: http.StatusOK, wantTask: domain.RouteSetFeaturedSpeaker},
		{name: "cron with secret", method: http.MethodGet, target: "/crons/set_announcement", headers: map[string]string{middleware.TaskSecretHeader: "s3cret"}, wantStatus: http.StatusOK, wantTask: domain.RouteSetAnnouncement},
		{name: "wrong method", method: http.MethodDelete, target: "/profile", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran []string
			router := newTestRouter(&ran)
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantTask == "" {
				assert.Empty(t, ran)
			} else {
				assert.Equal(t, []string{tt.wantTask}, ran)
			}
		})
	}
}
