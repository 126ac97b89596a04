package kv

import (
	"errors"
	"fmt"
	"time"

	"github.com/templui/dailybible/internal/model"
	"github.com/templui/dailybible/internal/repository"
)

// Device is a Store scoped to one device, backed by the preferences table.
type Device struct {
	repo     repository.PreferenceRepository
	deviceID string
}

func NewDevice(repo repository.PreferenceRepository, deviceID string) *Device {
	return &Device{repo: repo, deviceID: deviceID}
}

func (d *Device) ID() string {
	return d.deviceID
}

func (d *Device) Get(key string) ([]byte, bool, error) {
	pref, err := d.repo.Get(d.deviceID, key)
	if errors.Is(err, repository.ErrPreferenceNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return []byte(pref.Value), true, nil
}

func (d *Device) Set(key string, value []byte) error {
	pref := &model.Preference{
		DeviceID:  d.deviceID,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := d.repo.Upsert(pref)
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

func (d *Device) Remove(key string) error {
	err := d.repo.Delete(d.deviceID, key)
	if err != nil {
		return fmt.Errorf("failed to remove preference %s: %w", key, err)
	}
	return nil
}

func (d *Device) All() (map[string][]byte, error) {
	prefs, err := d.repo.ByDevice(d.deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	out := make(map[string][]byte, len(prefs))
	for _, p := range prefs {
		out[p.Key] = []byte(p.Value)
	}
	return out, nil
}

func (d *Device) Clear() error {
	err := d.repo.DeleteByDevice(d.deviceID)
	if err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}
