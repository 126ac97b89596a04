package model

import "time"

// Preference is one key of a device's flat key-value store.
type Preference struct {
	DeviceID  string    `db:"device_id"`
	Key       string    `db:"pref_key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
