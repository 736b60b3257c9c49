package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var alice = domain.Identity{UserID: "user-123", Email: "alice@example.com", Nickname: "alice"}

// newRequest builds a request with an optional JSON body, path values and caller identity.
func newRequest(method, target, body string, id *domain.Identity, pathValues map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, rdr)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if id != nil {
		req = req.WithContext(middleware.SetIdentity(req.Context(), *id))
	}
	return req
}

type envelope[T any] struct {
	Data  T                 `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// fakeProfileService implements domain.ProfileService for handler tests.
type fakeProfileService struct {
	profile    *domain.Profile
	err        error
	lastID     domain.Identity
	lastUpdate domain.ProfileUpdate
}

func (f *fakeProfileService) GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	f.lastID = id
	return f.profile, f.err
}

func (f *fakeProfileService) SaveProfile(ctx context.Context, id domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	f.lastID = id
	f.lastUpdate = update
	return f.profile, f.err
}

// fakeConferenceService implements domain.ConferenceService for handler tests.
type fakeConferenceService struct {
	conference   *domain.Conference
	withOrg      *domain.ConferenceWithOrganizer
	list         []*domain.ConferenceWithOrganizer
	total        int
	err          error
	lastID       domain.Identity
	lastConfID   string
	lastInput    domain.ConferenceInput
	lastFilters  []domain.Filter
	lastPage     domain.PaginationParams
	lastArgument string
}

func (f *fakeConferenceService) CreateConference(ctx context.Context, id domain.Identity, in domain.ConferenceInput) (*domain.Conference, error) {
	f.lastID, f.lastInput = id, in
	return f.conference, f.err
}

func (f *fakeConferenceService) UpdateConference(ctx context.Context, id domain.Identity, conferenceID string, in domain.ConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	f.lastID, f.lastConfID, f.lastInput = id, conferenceID, in
	return f.withOrg, f.err
}

func (f *fakeConferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	f.lastConfID = conferenceID
	return f.withOrg, f.err
}

func (f *fakeConferenceService) QueryConferences(ctx context.Context, filters []domain.Filter, page domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, int, error) {
	f.lastFilters, f.lastPage = filters, page
	return f.list, f.total, f.err
}

func (f *fakeConferenceService) ListCreated(ctx context.Context, id domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastID = id
	return f.list, f.err
}

func (f *fakeConferenceService) ListAttending(ctx context.Context, id domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastID = id
	return f.list, f.err
}

func (f *fakeConferenceService) ListStartingBefore(ctx context.Context, date string) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastArgument = date
	return f.list, f.err
}

func (f *fakeConferenceService) ListBySpeaker(ctx context.Context, speakerName string) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastArgument = speakerName
	return f.list, f.err
}

// fakeSessionService implements domain.SessionService for handler tests.
type fakeSessionService struct {
	session     *domain.Session
	list        []*domain.Session
	created     []*domain.SessionWithOrganizer
	speakers    []*domain.Speaker
	total       int
	err         error
	lastID      domain.Identity
	lastConfID  string
	lastInput   domain.SessionInput
	lastArgs    []string
	lastFilters []domain.Filter
}

func (f *fakeSessionService) CreateSession(ctx context.Context, id domain.Identity, conferenceID string, in domain.SessionInput) (*domain.Session, error) {
	f.lastID, f.lastConfID, f.lastInput = id, conferenceID, in
	return f.session, f.err
}

func (f *fakeSessionService) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	f.lastArgs = []string{conferenceID}
	return f.list, f.err
}

func (f *fakeSessionService) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	f.lastArgs = []string{conferenceID, typeOfSession}
	return f.list, f.err
}

func (f *fakeSessionService) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerName string) ([]*domain.Session, error) {
	f.lastArgs = []string{conferenceID, speakerName}
	return f.list, f.err
}

func (f *fakeSessionService) ListBySpeaker(ctx context.Context, speakerName string) ([]*domain.Session, error) {
	f.lastArgs = []string{speakerName}
	return f.list, f.err
}

func (f *fakeSessionService) ListCreated(ctx context.Context, id domain.Identity) ([]*domain.SessionWithOrganizer, error) {
	f.lastID = id
	return f.created, f.err
}

func (f *fakeSessionService) ListBefore(ctx context.Context, date string) ([]*domain.Session, error) {
	f.lastArgs = []string{date}
	return f.list, f.err
}

func (f *fakeSessionService) ListNonWorkshopsBefore(ctx context.Context, startTime string) ([]*domain.Session, error) {
	f.lastArgs = []string{startTime}
	return f.list, f.err
}

func (f *fakeSessionService) QuerySessions(ctx context.Context, filters []domain.Filter, page domain.PaginationParams) ([]*domain.Session, int, error) {
	f.lastFilters = filters
	return f.list, f.total, f.err
}

func (f *fakeSessionService) ListSpeakers(ctx context.Context) ([]*domain.Speaker, error) {
	return f.speakers, f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	result   bool
	list     []*domain.Session
	err      error
	lastCall string
	lastKey  string
}

func (f *fakeRegistrationService) record(call, key string) (bool, error) {
	f.lastCall, f.lastKey = call, key
	return f.result, f.err
}

func (f *fakeRegistrationService) RegisterForConference(ctx context.Context, id domain.Identity, conferenceID string) (bool, error) {
	return f.record("register", conferenceID)
}

func (f *fakeRegistrationService) UnregisterFromConference(ctx context.Context, id domain.Identity, conferenceID string) (bool, error) {
	return f.record("unregister", conferenceID)
}

func (f *fakeRegistrationService) AddSessionToWishlist(ctx context.Context, id domain.Identity, sessionID string) (bool, error) {
	return f.record("add", sessionID)
}

func (f *fakeRegistrationService) RemoveSessionFromWishlist(ctx context.Context, id domain.Identity, sessionID string) (bool, error) {
	return f.record("remove", sessionID)
}

func (f *fakeRegistrationService) ListWishlist(ctx context.Context, id domain.Identity) ([]*domain.Session, error) {
	f.lastCall = "list"
	return f.list, f.err
}

type fakeFeaturedService struct {
	featured *domain.FeaturedSpeaker
	err      error
}

func (f *fakeFeaturedService) Recompute(ctx context.Context, sessionID string) error { return nil }

func (f *fakeFeaturedService) Get(ctx context.Context, conferenceID string) (*domain.FeaturedSpeaker, error) {
	return f.featured, f.err
}

type fakeAnnouncementService struct {
	announcement string
	err          error
}

func (f *fakeAnnouncementService) Refresh(ctx context.Context) (string, error) {
	return f.announcement, f.err
}

func (f *fakeAnnouncementService) Get(ctx context.Context) (string, error) {
	return f.announcement, f.err
}
