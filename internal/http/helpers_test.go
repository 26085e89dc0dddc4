package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/devconnector/internal/domain"
	api "github.com/tazhibayda/devconnector/internal/http"
	"github.com/tazhibayda/devconnector/internal/repo"
	"github.com/tazhibayda/devconnector/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test_secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeStore keeps users and profiles in memory and mimics the merge semantics of the Mongo store.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User // by email
	profiles map[primitive.ObjectID]*domain.Profile

	findErr   error
	createErr error
	upsertErr error
	pingErr   error
	writes    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*domain.User{},
		profiles: map[primitive.ObjectID]*domain.Profile{},
	}
}

func (s *fakeStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.users[u.Email]; ok {
		return repo.ErrEmailExists
	}
	u.ID = primitive.NewObjectID()
	u.Date = time.Now().UTC()
	cp := *u
	s.users[u.Email] = &cp
	s.writes++
	return nil
}

func (s *fakeStore) userByID(id primitive.ObjectID) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *fakeStore) FindProfileByUser(_ context.Context, userID primitive.ObjectID) (*domain.ProfileView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	v := &domain.ProfileView{ID: p.ID, ProfileFields: p.ProfileFields, Date: p.Date}
	if u := s.userByID(userID); u != nil {
		v.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return v, nil
}

func (s *fakeStore) UpsertProfile(_ context.Context, userID primitive.ObjectID, f domain.ProfileFields) (*domain.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, false, s.upsertErr
	}
	s.writes++
	p, ok := s.profiles[userID]
	if !ok {
		p = &domain.Profile{ID: primitive.NewObjectID(), User: userID, Date: time.Now().UTC()}
		s.profiles[userID] = p
	}
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&p.Company, f.Company)
	merge(&p.Website, f.Website)
	merge(&p.Location, f.Location)
	merge(&p.Bio, f.Bio)
	merge(&p.Status, f.Status)
	merge(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != nil {
		p.Skills = f.Skills
	}
	merge(&p.Social.YouTube, f.Social.YouTube)
	merge(&p.Social.Twitter, f.Social.Twitter)
	merge(&p.Social.Facebook, f.Social.Facebook)
	merge(&p.Social.LinkedIn, f.Social.LinkedIn)
	merge(&p.Social.Instagram, f.Social.Instagram)
	cp := *p
	return &cp, !ok, nil
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type published struct {
	Key   string
	Event any
	ReqID string
}

type fakePub struct {
	mu  sync.Mutex
	got []published
	err error
}

func (p *fakePub) Publish(_ context.Context, key string, event any, reqID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, published{Key: key, Event: event, ReqID: reqID})
	return p.err
}

func (p *fakePub) Close() error { return nil }

func (p *fakePub) events() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.got...)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type testEnv struct {
	T      *testing.T
	Store  *fakeStore
	Pub    *fakePub
	Router *gin.Engine
}

func newTestEnv(t *testing.T, opts ...func(*api.RouterOptions)) *testEnv {
	t.Helper()
	store := newFakeStore()
	pub := &fakePub{}
	h := &api.Handler{
		Users:     store,
		Profiles:  store,
		DB:        store,
		JWTSecret: testSecret,
		TokenTTL:  36000 * time.Second,
		Events:    pub,
		Log:       zap.NewNop(),
	}
	o := api.RouterOptions{RequestTimeout: 5 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	return &testEnv{T: t, Store: store, Pub: pub, Router: api.NewRouter(h, o)}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, uid primitive.ObjectID) map[string]string {
	t.Helper()
	tok, err := security.MakeAccess(testSecret, uid.Hex(), time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}
