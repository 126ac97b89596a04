package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/dailybible/internal/app"
	"github.com/templui/dailybible/internal/config"
	"github.com/templui/dailybible/internal/devotion"
)

const deviceID = "5f0c3c4e-8a43-4b8f-9d0e-0d7bb3b0b1a1"

func newServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		AppName:                  "Daily Bible",
		AppEnv:                   "development",
		AppURL:                   "http://localhost:8090",
		ContentPath:              filepath.Join(t.TempDir(), "missing"),
		DefaultTimezone:          "UTC",
		DBDriver:                 "sqlite",
		DBConnection:             filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)",
		JWTSecret:                "test-secret",
		JWTExpiry:                time.Hour,
		GuestSessionExpiry:       time.Hour,
		TokenPasswordResetExpiry: time.Hour,
		AuthTimeout:              5 * time.Second,
		ReminderSchedule:         "0 0 * * * *",
		ReminderHour:             8,
		TokenCleanupSchedule:     "0 0 3 * * 0",
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return SetupRoutes(a)
}

type client struct {
	t     *testing.T
	h     http.Handler
	token  string
	ip     string
	device string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	device := c.device
	if device == "" {
		device = deviceID
	}
	r.Header.Set("X-Device-ID", device)
	r.Header.Set("X-Timezone", "UTC")
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.ip != "" {
		r.Header.Set("X-Forwarded-For", c.ip)
	}

	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type sessionBody struct {
	Session struct {
		Token string `json:"token"`
		Guest bool   `json:"guest"`
	} `json:"session"`
	User *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func TestHealthAndLegal(t *testing.T) {
	h := newServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/legal/privacy", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Privacy Policy</h1>")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/legal/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeviceRoutesRequireSession(t *testing.T) {
	c := &client{t: t, h: newServer(t)}

	w := c.do(http.MethodGet, "/api/today", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/api/onboarding", nil)
	w = httptest.NewRecorder()
	c.h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing X-Device-ID")
}

func TestGuestDayFlow(t *testing.T) {
	c := &client{t: t, h: newServer(t)}

	w := c.do(http.MethodPost, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	guest := decode[sessionBody](t, w)
	assert.True(t, guest.Session.Guest)
	assert.Nil(t, guest.User)
	c.token = guest.Session.Token

	w = c.do(http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[devotion.State](t, w)
	assert.Equal(t, devotion.PhaseIncomplete, state.Phase)
	assert.Len(t, state.Tasks, devotion.TaskCount)

	for i := 0; i < devotion.TaskCount; i++ {
		w = c.do(http.MethodPost, "/api/today/tasks/"+strconv.Itoa(i)+"/toggle", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	state = decode[devotion.State](t, w)
	assert.True(t, state.JustCompleted)
	assert.Equal(t, devotion.PhaseComplete, state.Phase)
	assert.Equal(t, []int{state.Weekday}, state.CompletedDays)

	w = c.do(http.MethodPost, "/api/today/tasks/7/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.do(http.MethodPost, "/api/today/tasks/x/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/api/momentum", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[devotion.Momentum](t, w)
	assert.Contains(t, m.CompletedDays, time.Now().UTC().Day())

	// Guests cannot reach account routes or delete themselves
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/api/settings", nil).Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/api/account", nil).Code)

	// Signing out wipes the device's progress
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/auth/logout", nil).Code)
	w = c.do(http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[devotion.State](t, w)
	assert.Zero(t, state.CompletedCount)
	assert.Empty(t, state.CompletedDays)
}

func TestSessionCannotReachAnotherDevice(t *testing.T) {
	h := newServer(t)

	victim := &client{t: t, h: h, device: "0b1a1f9e-1111-4222-8333-944455556666", ip: "198.51.100.1"}
	w := victim.do(http.MethodPost, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	victim.token = decode[sessionBody](t, w).Session.Token
	for i := 0; i < devotion.TaskCount; i++ {
		require.Equal(t, http.StatusOK, victim.do(http.MethodPost, "/api/today/tasks/"+strconv.Itoa(i)+"/toggle", nil).Code)
	}

	attacker := &client{t: t, h: h, ip: "198.51.100.2"}
	w = attacker.do(http.MethodPost, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	attacker.token = decode[sessionBody](t, w).Session.Token

	// The attacker's session names the victim's device in the header
	attacker.device = victim.device
	assert.Equal(t, http.StatusForbidden, attacker.do(http.MethodGet, "/api/today", nil).Code)
	assert.Equal(t, http.StatusForbidden, attacker.do(http.MethodPost, "/api/today/tasks/0/toggle", nil).Code)
	assert.Equal(t, http.StatusForbidden, attacker.do(http.MethodGet, "/api/momentum", nil).Code)
	assert.Equal(t, http.StatusForbidden, attacker.do(http.MethodPost, "/api/auth/logout", nil).Code)

	w = victim.do(http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[devotion.State](t, w)
	assert.Equal(t, devotion.TaskCount, state.CompletedCount)
	assert.True(t, state.AllComplete)
	assert.Equal(t, []int{state.Weekday}, state.CompletedDays)

	// Back on its own device the session works as usual
	attacker.device = ""
	w = attacker.do(http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[devotion.State](t, w).CompletedCount)
}

func TestAccountFlow(t *testing.T) {
	c := &client{t: t, h: newServer(t)}

	w := c.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "anna@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "anna@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	signup := decode[sessionBody](t, w)
	require.NotNil(t, signup.User)
	assert.Equal(t, "anna@example.com", signup.User.Email)

	w = c.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "anna@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "anna@example.com", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())

	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "anna@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	c.token = decode[sessionBody](t, w).Session.Token

	w = c.do(http.MethodPost, "/api/onboarding", map[string]string{"denomination": "Catholic", "ageGroup": "18-24", "goal": "study"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodPut, "/api/settings", map[string]string{"name": "Anna", "church": "St. Luke", "ageRange": "18-24", "denomination": "Catholic"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"anna@example.com","name":"Anna","ageRange":"18-24","denomination":"Catholic","church":"St. Luke","goal":"study"}`, w.Body.String())

	w = c.do(http.MethodPost, "/api/backup", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = c.do(http.MethodPut, "/api/device/push-token", map[string]string{"token": "fcm-token"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodDelete, "/api/account", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The sixth auth request from one IP is over the limit
	c.token = ""
	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "anna@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	c.ip = "203.0.113.7"
	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "anna@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLookup(t *testing.T) {
	h := newServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devotions/1/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Devotion devotion.Record `json:"devotion"`
		Theme    devotion.Theme  `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Devotion.Month)
	assert.Equal(t, "January", body.Theme.Month)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devotions/2/30", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Devotion.Month)
	assert.Equal(t, 30, body.Devotion.Day)
	assert.Equal(t, devotion.FallbackReference, body.Devotion.Reference)
	assert.Equal(t, "February", body.Theme.Month)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devotions/13/1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devotions/1/32", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
