package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testTimeout = 5 * time.Second

// fakeTx runs fn directly. Set err to simulate a failing commit.
type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return f.err
}

// fakeProfileRepo is an in-memory ProfileRepository for tests.
type fakeProfileRepo struct {
	byID      map[string]*domain.Profile
	updateErr error
	updates   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Ensure(ctx context.Context, p *domain.Profile) error {
	if _, ok := f.byID[p.UserID]; !ok {
		cp := *p
		f.byID[p.UserID] = &cp
	}
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	cp.SessionKeysToAttend = slices.Clone(p.SessionKeysToAttend)
	return &cp, nil
}

func (f *fakeProfileRepo) GetByIDForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	return f.GetByID(ctx, userID)
}

func (f *fakeProfileRepo) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range userIDs {
		if p, ok := f.byID[id]; ok {
			out[id] = p.DisplayName
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	f.byID[p.UserID] = &cp
	f.updates++
	return nil
}

// fakeConferenceRepo is an in-memory ConferenceRepository for tests.
type fakeConferenceRepo struct {
	byID      map[string]*domain.Conference
	createErr error
	lastPlan  *domain.QueryPlan
	lastPage  domain.PaginationParams
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{byID: make(map[string]*domain.Conference)}
}

func (f *fakeConferenceRepo) put(c *domain.Conference) *domain.Conference {
	f.byID[c.ID] = c
	return c
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConferenceRepo) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConferenceRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Conference, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeConferenceRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) Update(ctx context.Context, c *domain.Conference) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConferenceRepo) filter(keep func(c *domain.Conference) bool) []*domain.Conference {
	out := []*domain.Conference{}
	for _, c := range f.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeConferenceRepo) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return c.OrganizerUserID == userID }), nil
}

func (f *fakeConferenceRepo) ListStartingBefore(ctx context.Context, date time.Time) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return c.StartDate != nil && c.StartDate.Before(date) }), nil
}

func (f *fakeConferenceRepo) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats }), nil
}

func (f *fakeConferenceRepo) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Conference, error) {
	return nil, nil
}

func (f *fakeConferenceRepo) Query(ctx context.Context, plan *domain.QueryPlan, page domain.PaginationParams) ([]*domain.Conference, int, error) {
	f.lastPlan = plan
	f.lastPage = page
	all := f.filter(func(*domain.Conference) bool { return true })
	return all, len(all), nil
}

// fakeSessionRepo is an in-memory SessionRepository for tests. Sessions keep
// insertion order; list methods sort by name like the real repository.
type fakeSessionRepo struct {
	sessions  []*domain.Session
	createErr error
	speakers  *fakeSpeakerRepo
}

func newFakeSessionRepo(speakers *fakeSpeakerRepo) *fakeSessionRepo {
	return &fakeSessionRepo{speakers: speakers}
}

func (f *fakeSessionRepo) withSpeakerName(s *domain.Session) *domain.Session {
	cp := *s
	if f.speakers != nil && s.SpeakerID != "" {
		if sp, ok := f.speakers.byID[s.SpeakerID]; ok {
			cp.SpeakerName = sp.Name
		}
	}
	return &cp
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *s
	f.sessions = append(f.sessions, &cp)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return f.withSpeakerName(s), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	out := []*domain.Session{}
	for _, id := range ids {
		if s, err := f.GetByID(ctx, id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ExistsByName(ctx context.Context, conferenceID, name string) (bool, error) {
	for _, s := range f.sessions {
		if s.ConferenceID == conferenceID && s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionRepo) filter(keep func(s *domain.Session) bool) []*domain.Session {
	out := []*domain.Session{}
	for _, s := range f.sessions {
		if keep(s) {
			out = append(out, f.withSpeakerName(s))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeSessionRepo) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.ConferenceID == conferenceID }), nil
}

func (f *fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.TypeOfSession == typeOfSession
	}), nil
}

func (f *fakeSessionRepo) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.ConferenceID == conferenceID && s.SpeakerID == speakerID }), nil
}

func (f *fakeSessionRepo) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.SpeakerID == speakerID }), nil
}

func (f *fakeSessionRepo) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return true }), nil
}

func (f *fakeSessionRepo) ListBefore(ctx context.Context, date time.Time) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.Date != nil && s.Date.Before(date) }), nil
}

func (f *fakeSessionRepo) ListStartingBefore(ctx context.Context, startTime string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.StartTime != "" && s.StartTime < startTime }), nil
}

func (f *fakeSessionRepo) Query(ctx context.Context, plan *domain.QueryPlan, page domain.PaginationParams) ([]*domain.Session, int, error) {
	all := f.filter(func(*domain.Session) bool { return true })
	return all, len(all), nil
}

// fakeSpeakerRepo is an in-memory SpeakerRepository for tests.
type fakeSpeakerRepo struct {
	byID     map[string]*domain.Speaker
	featured string
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{byID: make(map[string]*domain.Speaker)}
}

func (f *fakeSpeakerRepo) add(id, name string) *domain.Speaker {
	sp := &domain.Speaker{ID: id, Name: name}
	f.byID[id] = sp
	return sp
}

func (f *fakeSpeakerRepo) GetOrCreateByName(ctx context.Context, name, candidateID string) (*domain.Speaker, error) {
	if sp, err := f.GetByName(ctx, name); err == nil {
		return sp, nil
	}
	return f.add(candidateID, name), nil
}

func (f *fakeSpeakerRepo) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	for _, sp := range f.byID {
		if sp.Name == name {
			return sp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSpeakerRepo) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	if sp, ok := f.byID[id]; ok {
		return sp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSpeakerRepo) List(ctx context.Context) ([]*domain.Speaker, error) {
	out := make([]*domain.Speaker, 0, len(f.byID))
	for _, sp := range f.byID {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSpeakerRepo) SetFeatured(ctx context.Context, speakerID string) error {
	for id, sp := range f.byID {
		sp.Featured = id == speakerID
	}
	f.featured = speakerID
	return nil
}

// fakeCache is an in-memory Cache for tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type enqueuedTask struct {
	route  string
	params map[string]string
}

// fakeDispatcher records enqueued tasks.
type fakeDispatcher struct {
	tasks []enqueuedTask
	err   error
}

func (f *fakeDispatcher) Enqueue(ctx context.Context, route string, params map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, enqueuedTask{route: route, params: params})
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
