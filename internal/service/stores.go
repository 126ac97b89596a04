package service

import (
	"encoding/json"

	"github.com/templui/dailybible/internal/kv"
	"github.com/templui/dailybible/internal/repository"
)

// Device preference keys outside the devotion engine.
const (
	KeyPushToken              = "PushToken"
	KeyTimeZone               = "TimeZone"
	KeyOnboardingAnswers      = "OnboardingAnswers"
	KeyHasCompletedOnboarding = "hasCompletedOnboarding"
)

// DeviceStores opens the key-value store of a device: the preferences table,
// copied to a remote mirror when one is configured.
type DeviceStores struct {
	prefs  repository.PreferenceRepository
	mirror kv.Mirror
}

func NewDeviceStores(prefs repository.PreferenceRepository, mirror kv.Mirror) *DeviceStores {
	return &DeviceStores{prefs: prefs, mirror: mirror}
}

func (d *DeviceStores) Open(deviceID string) kv.DumpStore {
	store := kv.NewDevice(d.prefs, deviceID)
	if d.mirror == nil {
		return store
	}
	return kv.NewMirrored(store, d.mirror, deviceID)
}

// WithPushToken returns the devices that registered a push token, keyed by device ID.
func (d *DeviceStores) WithPushToken() (map[string]string, error) {
	prefs, err := d.prefs.ByKey(KeyPushToken)
	if err != nil {
		return nil, err
	}

	tokens := make(map[string]string, len(prefs))
	for _, p := range prefs {
		var token string
		err := json.Unmarshal([]byte(p.Value), &token)
		if err != nil || token == "" {
			continue
		}
		tokens[p.DeviceID] = token
	}
	return tokens, nil
}
