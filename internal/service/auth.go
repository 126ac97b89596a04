package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/dailybible/internal/ctxkeys"
	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("please fill in all fields")
	ErrMissingEmail       = errors.New("please enter an email address")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("invalid password")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrGuestAccount       = errors.New("guest accounts cannot be deleted")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

type UserEventType string

const (
	UserSignedUp  UserEventType = "signed_up"
	UserLoggedIn  UserEventType = "logged_in"
	UserGuest     UserEventType = "guest"
	UserSignedOut UserEventType = "signed_out"
	UserDeleted   UserEventType = "deleted"
)

// UserEvent tells listeners that the current user of a device changed.
type UserEvent struct {
	Type     UserEventType
	UserID   string
	DeviceID string
}

// SessionToken is a signed session handed to a device.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId,omitempty"`
	Guest     bool      `json:"guest"`
}

type AuthService struct {
	userRepository           repository.UserRepository
	profileRepository        repository.ProfileRepository
	tokenRepository          repository.TokenRepository
	emailService             Mailer
	jwtSecret                string
	jwtExpiry                time.Duration
	guestExpiry              time.Duration
	tokenPasswordResetExpiry time.Duration

	mu        sync.RWMutex
	listeners map[int]func(UserEvent)
	nextID    int
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	emailService Mailer,
	jwtSecret string,
	jwtExpiry time.Duration,
	guestExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		profileRepository:        profileRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		jwtExpiry:                jwtExpiry,
		guestExpiry:              guestExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		listeners:                make(map[int]func(UserEvent)),
	}
}

// Subscribe registers fn for user changes. The returned func removes it.
func (s *AuthService) Subscribe(fn func(UserEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) publish(event UserEvent) {
	s.mu.RLock()
	fns := make([]func(UserEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (s *AuthService) SignUp(email, password, deviceID string) (*model.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.profileRepository.Create(&model.Profile{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user signed up", "user_id", user.ID)
	s.publish(UserEvent{Type: UserSignedUp, UserID: user.ID, DeviceID: deviceID})
	return user, nil
}

func (s *AuthService) Login(email, password, deviceID string) (*model.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	s.publish(UserEvent{Type: UserLoggedIn, UserID: user.ID, DeviceID: deviceID})
	return user, nil
}

// ContinueAsGuest opens an anonymous session for a device. Guests have no user row.
func (s *AuthService) ContinueAsGuest(deviceID string) (*SessionToken, error) {
	session, err := s.GenerateSession("", deviceID, true)
	if err != nil {
		return nil, err
	}

	s.publish(UserEvent{Type: UserGuest, DeviceID: deviceID})
	return session, nil
}

// Logout ends the session on a device. Sessions are stateless, so this only notifies listeners.
func (s *AuthService) Logout(userID, deviceID string) {
	slog.Info("user signed out", "user_id", userID, "device_id", deviceID)
	s.publish(UserEvent{Type: UserSignedOut, UserID: userID, DeviceID: deviceID})
}

// ResetPassword emails a single-use reset link. Unknown addresses succeed silently.
func (s *AuthService) ResetPassword(email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return ErrMissingEmail
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for non-existent email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.tokenRepository.RevokeUnused(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old tokens", "error", err, "user_id", user.ID)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = s.tokenRepository.Issue(user.ID, model.TokenTypePasswordReset, resetToken, time.Now().Add(s.tokenPasswordResetExpiry))
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(user.Email, resetToken)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "email", user.Email)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("password reset link sent", "email", user.Email)
	return nil
}

// ConfirmPasswordReset redeems a reset token and sets a new password.
func (s *AuthService) ConfirmPasswordReset(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrMissingFields
	}

	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	// Consumed before hashing so a token is never redeemed twice
	t, err := s.tokenRepository.Consume(model.TokenTypePasswordReset, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to consume token: %w", err)
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(t.UserID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", "user_id", t.UserID)
	return nil
}

// DeleteAccount removes a signed-in user. Profile and tokens go with it via ON DELETE CASCADE.
func (s *AuthService) DeleteAccount(session *ctxkeys.Session) error {
	if session == nil || session.IsGuest() || session.UserID == "" {
		return ErrGuestAccount
	}

	user, err := s.userRepository.ByID(session.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(user.Email)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", user.ID, "error", err)
	}

	slog.Info("account deleted", "user_id", user.ID)
	s.publish(UserEvent{Type: UserDeleted, UserID: user.ID, DeviceID: session.DeviceID})
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateSession signs an HS256 session for a user (or a guest) on a device.
func (s *AuthService) GenerateSession(userID, deviceID string, guest bool) (*SessionToken, error) {
	now := time.Now()
	expiry := s.jwtExpiry
	if guest {
		expiry = s.guestExpiry
	}
	expiresAt := now.Add(expiry)

	claims := jwt.MapClaims{
		"user_id":   userID,
		"device_id": deviceID,
		"guest":     guest,
		"exp":       expiresAt.Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &SessionToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    userID,
		Guest:     guest,
	}, nil
}

func (s *AuthService) VerifySession(tokenString string) (*ctxkeys.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	userID, _ := claims["user_id"].(string)
	deviceID, _ := claims["device_id"].(string)
	guest, _ := claims["guest"].(bool)
	if !guest && strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidSession
	}

	return &ctxkeys.Session{UserID: userID, DeviceID: deviceID, Guest: guest}, nil
}
