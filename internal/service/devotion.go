package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/dailybible/internal/devotion"
	"github.com/templui/dailybible/internal/kv"
	"github.com/templui/dailybible/internal/push"
)

var (
	ErrInvalidDate      = errors.New("invalid month or day")
	ErrMissingPushToken = errors.New("push token is required")
	ErrInvalidTimeZone  = errors.New("unknown time zone")
)

const pushTimeout = 10 * time.Second

// DailyDevotion is the catalog entry for a calendar day.
type DailyDevotion struct {
	Devotion devotion.Record `json:"devotion"`
	Theme    devotion.Theme  `json:"theme"`
}

// DevotionService runs the devotion engine of each device. Calls for the same
// device are serialized so a device sees its operations in order.
type DevotionService struct {
	catalog  *devotion.Catalog
	stores   *DeviceStores
	notifier push.Notifier
	locks    *keyedMutex
}

func NewDevotionService(catalog *devotion.Catalog, stores *DeviceStores, notifier push.Notifier) *DevotionService {
	return &DevotionService{
		catalog:  catalog,
		stores:   stores,
		notifier: notifier,
		locks:    newKeyedMutex(),
	}
}

// Today opens the device's day. now must be in the device's location.
func (s *DevotionService) Today(deviceID string, now time.Time) (devotion.State, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	state, err := devotion.NewEngine(s.catalog, s.stores.Open(deviceID)).Open(now)
	if err != nil {
		return devotion.State{}, fmt.Errorf("failed to open today: %w", err)
	}
	return state, nil
}

// Toggle flips one of today's tasks. Completing the last one sends a celebratory push.
func (s *DevotionService) Toggle(ctx context.Context, deviceID string, now time.Time, index int) (devotion.State, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	store := s.stores.Open(deviceID)
	state, err := devotion.NewEngine(s.catalog, store).Toggle(now, index)
	if err != nil {
		return devotion.State{}, fmt.Errorf("failed to toggle task: %w", err)
	}

	if state.JustCompleted {
		slog.Info("day completed", "device_id", deviceID, "date", state.Date, "weekday", state.Weekday)
		s.celebrate(ctx, deviceID, store, state)
	}

	return state, nil
}

// Peek reads the device's day without writing anything.
func (s *DevotionService) Peek(deviceID string, now time.Time) devotion.State {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	return devotion.NewEngine(s.catalog, s.stores.Open(deviceID)).Peek(now)
}

func (s *DevotionService) Momentum(deviceID string, now time.Time) devotion.Momentum {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	return devotion.NewEngine(s.catalog, s.stores.Open(deviceID)).Momentum(now)
}

// Lookup returns the catalog entry for (month, day), falling back like the engine
// does. Pairs such as (2, 30) get the fallback stamped with that date; only
// months outside 1-12 and days outside 1-31 are rejected.
func (s *DevotionService) Lookup(month, day int) (DailyDevotion, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return DailyDevotion{}, ErrInvalidDate
	}

	return DailyDevotion{
		Devotion: s.catalog.SelectMonthDay(month, day),
		Theme:    s.catalog.Theme(time.Month(month)),
	}, nil
}

// RegisterPushToken stores the device's push token and time zone for reminders.
func (s *DevotionService) RegisterPushToken(deviceID, token, timeZone string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingPushToken
	}
	if timeZone != "" {
		_, err := time.LoadLocation(timeZone)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimeZone, timeZone)
		}
	}

	unlock := s.locks.Lock(deviceID)
	defer unlock()

	store := s.stores.Open(deviceID)
	err := kv.SetJSON(store, KeyPushToken, token)
	if err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}
	if timeZone != "" {
		err = kv.SetJSON(store, KeyTimeZone, timeZone)
		if err != nil {
			return fmt.Errorf("failed to save time zone: %w", err)
		}
	}

	slog.Info("push token registered", "device_id", deviceID)
	return nil
}

// ForgetPushToken drops a token the push provider rejected.
func (s *DevotionService) ForgetPushToken(deviceID string) error {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	return s.stores.Open(deviceID).Remove(KeyPushToken)
}

// Location returns the time zone the device registered, or fallback.
func (s *DevotionService) Location(deviceID string, fallback *time.Location) *time.Location {
	var name string
	ok, err := kv.GetJSON(s.stores.Open(deviceID), KeyTimeZone, &name)
	if err != nil || !ok || name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}

// Wipe deletes the device's checklists and weekly ledger.
func (s *DevotionService) Wipe(deviceID string) error {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	removed, err := devotion.Wipe(s.stores.Open(deviceID))
	if err != nil {
		return err
	}

	slog.Info("device devotion data wiped", "device_id", deviceID, "keys", removed)
	return nil
}

func (s *DevotionService) celebrate(ctx context.Context, deviceID string, store kv.Store, state devotion.State) {
	var token string
	ok, err := kv.GetJSON(store, KeyPushToken, &token)
	if err != nil || !ok || token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	n := push.Notification{
		Title: "Day complete!",
		Body:  fmt.Sprintf("You finished all of today's tasks. %d of 7 days this week.", len(state.CompletedDays)),
		Data: map[string]string{
			"type": "day_completed",
			"date": state.Date,
		},
	}

	err = s.notifier.Send(ctx, token, n)
	if errors.Is(err, push.ErrInvalidToken) {
		// Already holding the device lock
		if err := store.Remove(KeyPushToken); err != nil {
			slog.Warn("failed to remove invalid push token", "error", err, "device_id", deviceID)
		}
		return
	}
	if err != nil {
		slog.Warn("failed to send completion push", "error", err, "device_id", deviceID)
	}
}
