package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/pkg/session/sessiontest"
)

type fakeBackend struct {
	mu      sync.Mutex
	queries map[string]string
	auth    map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{queries: map[string]string{}, auth: map[string]string{}}
	tok := sessiontest.Token(t, "alice", "u1", time.Now().Add(time.Hour))

	mux := http.NewServeMux()
	reply := func(pattern string, v any) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			fb.mu.Lock()
			fb.queries[r.URL.Path] = r.URL.RawQuery
			fb.auth[r.URL.Path] = r.Header.Get("Authorization")
			fb.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		})
	}
	reply("POST /auth/login", map[string]string{"id": "u1", "token": tok, "refreshToken": "R"})
	reply("GET /api/study-rooms/search", []api.Room{{RoomID: "r1", Name: "Physics", Category: "Physics", MaxParticipants: 10, IsPublic: true}})
	reply("GET /api/achievements/user/alice", []api.UserAchievement{{Key: "badge_speed_learner"}})
	reply("GET /api/achievements/stats/alice", api.DashboardStats{Hours: 3.5, Subjects: 2, Badges: 1})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	t.Setenv("APP_API_URL", u.Scheme+"://"+u.Hostname())
	t.Setenv("APP_API_PORT", u.Port())
	t.Setenv("APP_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("APP_SESSION_KEY", "test-secret")
	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("APP_KAFKA_BROKERS", "")
	return fb
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCommand(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	a.close()
	return out.String(), err
}

func TestCLI_SessionSurvivesAcrossRuns(t *testing.T) {
	fb := newFakeBackend(t)

	out, err := run(t, "secret\n", "login", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as alice@example.com")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "alice (u1)\n", out)

	out, err = run(t, "", "rooms", "search", "physics", "-c", "Physics", "-c", "Biology")
	require.NoError(t, err)
	assert.Contains(t, out, "r1")

	fb.mu.Lock()
	assert.Equal(t, "searchTerm=physics&categories=Physics&categories=Biology", fb.queries["/api/study-rooms/search"])
	assert.True(t, strings.HasPrefix(fb.auth["/api/study-rooms/search"], "Bearer "))
	fb.mu.Unlock()

	out, err = run(t, "", "achievements")
	require.NoError(t, err)
	assert.Contains(t, out, "unlocked 1 / 5")
	assert.Contains(t, out, "[x] Speed Learner")

	out, err = run(t, "", "--json", "stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hours":3.5,"subjects":2,"badges":1}`, out)

	_, err = run(t, "", "logout")
	require.NoError(t, err)

	_, err = run(t, "", "whoami")
	require.Error(t, err)
	assert.Equal(t, "You are not signed in. Please log in.", err.Error())
}

func TestCLI_RequiresSessionBeforeAnyRequest(t *testing.T) {
	fb := newFakeBackend(t)

	_, err := run(t, "", "analytics", "--range", "30d")
	require.Error(t, err)
	assert.Equal(t, "You are not signed in. Please log in.", err.Error())

	fb.mu.Lock()
	assert.Empty(t, fb.queries)
	fb.mu.Unlock()
}
