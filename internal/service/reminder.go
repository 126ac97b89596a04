package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/dailybible/internal/push"
)

// ReminderService nudges devices that have not finished today's tasks.
type ReminderService struct {
	stores      *DeviceStores
	devotions   *DevotionService
	notifier    push.Notifier
	defaultZone *time.Location
	hour        int
}

// NewReminderService reminds each device at hour (0-23) of its own local time.
func NewReminderService(stores *DeviceStores, devotions *DevotionService, notifier push.Notifier, defaultZone *time.Location, hour int) *ReminderService {
	return &ReminderService{
		stores:      stores,
		devotions:   devotions,
		notifier:    notifier,
		defaultZone: defaultZone,
		hour:        hour,
	}
}

// SendDueReminders runs hourly: it reminds only the devices whose local clock
// is in the reminder hour at now.
func (s *ReminderService) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	return s.send(ctx, now, func(local time.Time) bool {
		return local.Hour() == s.hour
	})
}

// SendDailyReminders pushes a reminder to every registered device whose day is
// still incomplete, whatever its local hour. It only peeks at engine state and
// never writes it.
func (s *ReminderService) SendDailyReminders(ctx context.Context, now time.Time) (int, error) {
	return s.send(ctx, now, nil)
}

func (s *ReminderService) send(ctx context.Context, now time.Time, due func(local time.Time) bool) (int, error) {
	tokens, err := s.stores.WithPushToken()
	if err != nil {
		return 0, fmt.Errorf("failed to list push tokens: %w", err)
	}

	sent := 0
	for deviceID, token := range tokens {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		local := now.In(s.devotions.Location(deviceID, s.defaultZone))
		if due != nil && !due(local) {
			continue
		}
		state := s.devotions.Peek(deviceID, local)
		if state.AllComplete {
			continue
		}

		n := push.Notification{
			Title: "Today's devotion is waiting",
			Body:  fmt.Sprintf("%s: %s", state.Devotion.Reference, state.Devotion.Task),
			Data: map[string]string{
				"type": "daily_reminder",
				"date": state.Date,
			},
		}

		err := s.notifier.Send(ctx, token, n)
		if errors.Is(err, push.ErrInvalidToken) {
			slog.Info("dropping invalid push token", "device_id", deviceID)
			if err := s.devotions.ForgetPushToken(deviceID); err != nil {
				slog.Warn("failed to remove push token", "error", err, "device_id", deviceID)
			}
			continue
		}
		if err != nil {
			slog.Warn("failed to send reminder", "error", err, "device_id", deviceID)
			continue
		}
		sent++
	}

	slog.Info("daily reminders sent", "sent", sent, "devices", len(tokens))
	return sent, nil
}
