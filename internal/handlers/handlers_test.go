package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheapp/breathe-backend/internal/handlers"
	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/routes"
	"github.com/breatheapp/breathe-backend/internal/services"
	"github.com/breatheapp/breathe-backend/internal/store"
)

type stubAdvisor struct {
	quote       string
	advice      string
	fail        bool
	quoteCalls  int
	adviceCalls int
}

func (s *stubAdvisor) MotivationalQuote(context.Context, string, int, string) (string, error) {
	s.quoteCalls++
	if s.fail {
		return "", errors.New("provider down")
	}
	return s.quote, nil
}

func (s *stubAdvisor) CravingAdvice(context.Context, string, int, string) (string, error) {
	s.adviceCalls++
	if s.fail {
		return "", errors.New("provider down")
	}
	return s.advice, nil
}

type testApp struct {
	router   *chi.Mux
	sessions services.SessionService
	advisor  *stubAdvisor
}

func newTestApp(t *testing.T, advisor *stubAdvisor) *testApp {
	t.Helper()

	profiles, err := store.NewLocalStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	sessions := services.NewMemorySessions()
	messages := services.NewDailyMessageService(profiles, advisor)
	h := handlers.NewHandler(profiles, sessions, advisor, messages, metrics.DefaultRates())

	r := chi.NewRouter()
	routes.SetupRoutes(r, h)

	return &testApp{router: r, sessions: sessions, advisor: advisor}
}

func (a *testApp) signIn(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/anonymous", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.AnonymousSignInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.UID)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func onboardingBody() handlers.OnboardingRequest {
	return handlers.OnboardingRequest{
		Name:     "Sam",
		QuitDate: time.Now().Add(-54 * time.Hour).Format(time.RFC3339),
		Reason:   "my kids",
	}
}

func TestProfileRequiresSession(t *testing.T) {
	app := newTestApp(t, &stubAdvisor{})

	rec := app.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/profile", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileBeforeOnboarding(t *testing.T) {
	app := newTestApp(t, &stubAdvisor{})
	token := app.signIn(t)

	rec := app.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Onboarded)
}

func TestOnboardingThenProfile(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong.", advice: "Hold ice."}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Profile)
	assert.Equal(t, "Stay strong.", created.Profile.TodaysMessage)
	assert.Equal(t, "Sam", created.Profile.Name)
	assert.Equal(t, 2, created.Profile.Stats.Days)
	assert.Equal(t, 1, advisor.quoteCalls)

	// Reloading the dashboard on the same day reuses the cached message.
	rec = app.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.NotNil(t, fetched.Profile)
	assert.True(t, fetched.Onboarded)
	assert.Equal(t, "Stay strong.", fetched.Profile.TodaysMessage)
	assert.Equal(t, 1, advisor.quoteCalls, "fresh cache must not trigger another generation")
}

func TestOnboardingValidation(t *testing.T) {
	app := newTestApp(t, &stubAdvisor{})
	token := app.signIn(t)

	body := onboardingBody()
	body.Name = ""
	rec := app.do(t, http.MethodPost, "/api/onboarding", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = onboardingBody()
	body.QuitDate = "not a date"
	rec = app.do(t, http.MethodPost, "/api/onboarding", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingWithoutSessionAssignsGuestID(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong."}
	app := newTestApp(t, advisor)

	rec := app.do(t, http.MethodPost, "/api/onboarding", "", onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Profile)
	assert.Contains(t, resp.Profile.ID, "guest_")
}

func TestOnboardingGenerationFailureFallsBack(t *testing.T) {
	advisor := &stubAdvisor{fail: true}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Profile)
	assert.Equal(t, services.FallbackDailyMessage, resp.Profile.TodaysMessage)
	assert.Empty(t, resp.Profile.MessageDate, "failed generation must not be cached")
}

func TestCravingSOS(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong.", advice: "Hold ice."}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Every SOS call hits the provider; nothing is cached.
	for i := 1; i <= 2; i++ {
		rec = app.do(t, http.MethodPost, "/api/sos", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.SOSResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Hold ice.", resp.Advice)
		assert.Equal(t, i, advisor.adviceCalls)
	}
}

func TestCravingSOSFallback(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong."}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	advisor.fail = true
	rec = app.do(t, http.MethodPost, "/api/sos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.SOSResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success, "generation failure is never surfaced as an error")
	assert.Equal(t, services.FallbackCravingAdvice, resp.Advice)
}

func TestStatsWebSocketStreams(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong."}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stats?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// The first snapshot arrives immediately, before the first tick.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var evt struct {
		Type  string `json:"type"`
		Stats struct {
			Days      int   `json:"days"`
			ElapsedMs int64 `json:"elapsed_ms"`
		} `json:"stats"`
	}
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "stats", evt.Type)
	assert.Equal(t, 2, evt.Stats.Days)
	assert.Positive(t, evt.Stats.ElapsedMs)
}

func TestStatsWebSocketRequiresToken(t *testing.T) {
	app := newTestApp(t, &stubAdvisor{})

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stats"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetStats(t *testing.T) {
	advisor := &stubAdvisor{quote: "Stay strong."}
	app := newTestApp(t, advisor)
	token := app.signIn(t)

	rec := app.do(t, http.MethodPost, "/api/onboarding", token, onboardingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.Days)
	assert.Len(t, resp.Milestones, 6)
	assert.True(t, resp.Milestones[0].Achieved)
	assert.True(t, resp.Milestones[4].Active)
}
