package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/dailybible/internal/devotion"
	"github.com/templui/dailybible/internal/push"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/testutil"
)

const testDevice = "5f0c3c4e-8a43-4b8f-9d0e-0d7bb3b0b1a1"

type sentPush struct {
	token string
	n     push.Notification
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentPush
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, token string, n push.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentPush{token: token, n: n})
	return nil
}

func (f *fakeNotifier) Sent() []sentPush {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentPush(nil), f.sent...)
}

type testEnv struct {
	db        *sqlx.DB
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	tokens    repository.TokenRepository
	prefs     repository.PreferenceRepository
	stores    *DeviceStores
	notifier  *fakeNotifier
	devotions *DevotionService
	auth      *AuthService
	mail      *recordingMailer
}

// recordingMailer keeps the secrets that would have been emailed.
type recordingMailer struct {
	mu          sync.Mutex
	resetTokens map[string]string
	deleted     []string
}

func (m *recordingMailer) SendWelcomeEmail(string) error { return nil }

func (m *recordingMailer) SendPasswordResetEmail(email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetTokens == nil {
		m.resetTokens = make(map[string]string)
	}
	m.resetTokens[email] = token
	return nil
}

func (m *recordingMailer) SendAccountDeletedEmail(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, email)
	return nil
}

func (m *recordingMailer) ResetToken(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetTokens[email]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.NewDB(t)
	env := &testEnv{
		db:       conn,
		users:    repository.NewUserRepository(conn),
		profiles: repository.NewProfileRepository(conn),
		tokens:   repository.NewTokenRepository(conn),
		prefs:    repository.NewPreferenceRepository(conn),
		notifier: &fakeNotifier{},
	}
	env.stores = NewDeviceStores(env.prefs, nil)

	catalog, err := devotion.LoadCatalog()
	require.NoError(t, err)
	env.devotions = NewDevotionService(catalog, env.stores, env.notifier)

	env.mail = &recordingMailer{}
	env.auth = NewAuthService(env.users, env.profiles, env.tokens, env.mail, "test-secret", time.Hour, 24*time.Hour, time.Hour)

	return env
}

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Save(_ context.Context, path, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[path] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://storage.example.com/" + path + "?sig=1", nil
}

// saturday is Aug 9, 2025 in UTC, ISO week 32.
func saturday() time.Time {
	return time.Date(2025, time.August, 9, 9, 30, 0, 0, time.UTC)
}
