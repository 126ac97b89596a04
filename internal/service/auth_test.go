package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/repository"
)

func TestSignUpAndLogin(t *testing.T) {
	env := newTestEnv(t)

	var events []UserEvent
	unsubscribe := env.auth.Subscribe(func(e UserEvent) { events = append(events, e) })
	defer unsubscribe()

	user, err := env.auth.SignUp("  Lydia@Example.com ", "secret1", testDevice)
	require.NoError(t, err)
	assert.Equal(t, "lydia@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = env.profiles.ByUserID(user.ID)
	require.NoError(t, err, "sign up creates an empty profile")

	_, err = env.auth.SignUp("lydia@example.com", "another", testDevice)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	got, err := env.auth.Login("LYDIA@example.com", "secret1", testDevice)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.auth.Login("lydia@example.com", "wrong-password", testDevice)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login("nobody@example.com", "secret1", testDevice)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, events, 2)
	assert.Equal(t, UserSignedUp, events[0].Type)
	assert.Equal(t, UserLoggedIn, events[1].Type)
	assert.Equal(t, testDevice, events[1].DeviceID)
}

func TestSignUpValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing email", "", "secret1", ErrMissingFields},
		{"missing password", "a@b.co", "", ErrMissingFields},
		{"bad email", "not-an-email", "secret1", ErrInvalidEmail},
		{"short password", "a@b.co", "12345", ErrWeakPassword},
		{"long password", "a@b.co", strings.Repeat("x", 73), ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.SignUp(tt.email, tt.password, testDevice)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	env := newTestEnv(t)

	count := 0
	unsubscribe := env.auth.Subscribe(func(UserEvent) { count++ })
	env.auth.Logout("", testDevice)
	unsubscribe()
	env.auth.Logout("", testDevice)

	assert.Equal(t, 1, count)
}

func TestSessions(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.auth.GenerateSession("user-1", testDevice, false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	verified, err := env.auth.VerifySession(session.Token)
	require.NoError(t, err)
	assert.Equal(t, &ctxkeys.Session{UserID: "user-1", DeviceID: testDevice}, verified)

	guest, err := env.auth.ContinueAsGuest(testDevice)
	require.NoError(t, err)
	assert.True(t, guest.Guest)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), guest.ExpiresAt, 5*time.Second)

	verified, err = env.auth.VerifySession(guest.Token)
	require.NoError(t, err)
	assert.True(t, verified.IsGuest())
	assert.Empty(t, verified.UserID)

	_, err = env.auth.VerifySession("garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other := NewAuthService(env.users, env.profiles, env.tokens, nil, "other-secret", time.Hour, time.Hour, time.Hour)
	_, err = other.VerifySession(session.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = env.auth.VerifySession(signed)
	assert.ErrorIs(t, err, ErrInvalidSession)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = env.auth.VerifySession(unsigned)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.SignUp("martha@example.com", "secret1", testDevice)
	require.NoError(t, err)

	require.NoError(t, env.auth.ResetPassword("nobody@example.com"), "unknown emails succeed silently")
	assert.ErrorIs(t, env.auth.ResetPassword(""), ErrMissingEmail)
	assert.ErrorIs(t, env.auth.ResetPassword("nope"), ErrInvalidEmail)

	require.NoError(t, env.auth.ResetPassword("martha@example.com"))

	token := env.mail.ResetToken("martha@example.com")
	require.Len(t, token, 64)

	var stored string
	err = env.db.Get(&stored, `SELECT token_hash FROM tokens WHERE user_id = $1 AND type = $2`, user.ID, model.TokenTypePasswordReset)
	require.NoError(t, err)
	assert.NotEqual(t, token, stored)

	assert.ErrorIs(t, env.auth.ConfirmPasswordReset(token, "123"), ErrWeakPassword)

	require.NoError(t, env.auth.ConfirmPasswordReset(token, "newsecret"))
	assert.ErrorIs(t, env.auth.ConfirmPasswordReset(token, "newsecret"), ErrInvalidResetToken, "tokens are single-use")

	_, err = env.auth.Login("martha@example.com", "secret1", testDevice)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login("martha@example.com", "newsecret", testDevice)
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)

	var deleted []UserEvent
	env.auth.Subscribe(func(e UserEvent) {
		if e.Type == UserDeleted {
			deleted = append(deleted, e)
		}
	})

	err := env.auth.DeleteAccount(&ctxkeys.Session{DeviceID: testDevice, Guest: true})
	assert.ErrorIs(t, err, ErrGuestAccount)
	assert.ErrorIs(t, env.auth.DeleteAccount(nil), ErrGuestAccount)

	user, err := env.auth.SignUp("phoebe@example.com", "secret1", testDevice)
	require.NoError(t, err)

	require.NoError(t, env.auth.DeleteAccount(&ctxkeys.Session{UserID: user.ID, DeviceID: testDevice}))

	_, err = env.users.ByID(user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = env.profiles.ByUserID(user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	require.Len(t, deleted, 1)
	assert.Equal(t, user.ID, deleted[0].UserID)
	assert.Equal(t, []string{"phoebe@example.com"}, env.mail.deleted)
}
