package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/model"
	"lab-reservation-backend/internal/mw"
	"lab-reservation-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu      sync.Mutex
	records []model.UsageRecord
	subs    map[string]*model.PushSubscription
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: make(map[string]*model.PushSubscription)}
}

func (f *fakeStore) ArchiveSession(_ context.Context, s lab.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := store.UsageRecordFromSession(s)
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) ListSessions(_ context.Context, filter store.SessionFilter) ([]model.UsageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.UsageRecord
	for _, r := range f.records {
		if filter.DeviceID != 0 && r.DeviceID != filter.DeviceID {
			continue
		}
		if filter.UserID != 0 && r.UserID != filter.UserID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReturnedAt.After(out[j].ReturnedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) PutSubscription(_ context.Context, sub *model.PushSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.subs[sub.Endpoint] = &cp
	return nil
}

func (f *fakeStore) GetSubscription(_ context.Context, endpoint string) (*model.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[endpoint]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeStore) DeleteSubscription(_ context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, endpoint)
	return nil
}

func (f *fakeStore) SubscriptionsForUser(_ context.Context, userID int64) ([]model.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PushSubscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

// syncArchiver writes sessions straight to the fake store so tests can read
// the history right after a return.
type syncArchiver struct {
	lab.NopObserver
	store *fakeStore
}

func (a syncArchiver) SessionClosed(s lab.Session) {
	_ = a.store.ArchiveSession(context.Background(), s)
}

type testEnv struct {
	now     time.Time
	manager *lab.Manager
	store   *fakeStore
	handler *Handler
	router  *gin.Engine

	student, teacher, admin                int64
	studentToken, teacherToken, adminToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{now: testNow, store: newFakeStore()}
	clock := func() time.Time { return env.now }

	env.manager = lab.NewManager(
		lab.WithClock(clock),
		lab.WithPasswordVerifier(func(hash, plain string) bool { return hash == plain }),
		lab.WithObserver(syncArchiver{store: env.store}),
	)

	var err error
	env.student, err = env.manager.RegisterUser("stu", "pw", lab.Student)
	require.NoError(t, err)
	env.teacher, err = env.manager.RegisterUser("tea", "pw", lab.Teacher)
	require.NoError(t, err)
	env.admin, err = env.manager.RegisterUser("adm", "pw", lab.Admin)
	require.NoError(t, err)

	env.handler = NewHandler(env.manager, env.store, mw.NewSessions(time.Hour), nil)
	env.router = NewRouter(env.handler, RouterConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000})

	env.studentToken = env.login(t, "stu")
	env.teacherToken = env.login(t, "tea")
	env.adminToken = env.login(t, "adm")
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/login", "", map[string]any{"username": username, "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
