// Package push delivers notifications to devices.
package push

import (
	"context"
	"errors"
	"log/slog"
)

// ErrInvalidToken means the device token is no longer registered and should be forgotten.
var ErrInvalidToken = errors.New("push token is no longer valid")

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

type Notifier interface {
	Send(ctx context.Context, token string, n Notification) error
}

// LogNotifier logs notifications instead of sending them. Used in development.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, token string, n Notification) error {
	slog.Info("push notification (dev mode)", "token", token, "title", n.Title, "body", n.Body)
	return nil
}
