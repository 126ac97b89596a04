package ctxkeys

import (
	"context"
	"time"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SessionKey  contextKey = "session"
	DeviceIDKey contextKey = "device_id"
	LocationKey contextKey = "location"
)

// Session is the verified identity of a request. Guests have no UserID.
type Session struct {
	UserID   string
	DeviceID string
	Guest    bool
}

func (s *Session) IsGuest() bool {
	return s != nil && s.Guest
}

func SessionFrom(ctx context.Context) *Session {
	session, _ := ctx.Value(SessionKey).(*Session)
	return session
}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(DeviceIDKey).(string)
	return id
}

func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, DeviceIDKey, id)
}

// Location is the device's time zone, UTC when unset.
func Location(ctx context.Context) *time.Location {
	loc, _ := ctx.Value(LocationKey).(*time.Location)
	if loc == nil {
		return time.UTC
	}
	return loc
}

func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, LocationKey, loc)
}
