package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/dailybible/internal/storage"
)

var ErrBackupsDisabled = errors.New("backups are not configured")

// Backup is an uploaded snapshot of a device's data.
type Backup struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Keys      int       `json:"keys"`
}

type backupFile struct {
	DeviceID  string                     `json:"deviceId"`
	CreatedAt time.Time                  `json:"createdAt"`
	Data      map[string]json.RawMessage `json:"data"`
}

type BackupService struct {
	stores  *DeviceStores
	storage storage.Storage
	expiry  time.Duration
}

// NewBackupService returns a service whose Backup fails with ErrBackupsDisabled when st is nil.
func NewBackupService(stores *DeviceStores, st storage.Storage, expiry time.Duration) *BackupService {
	return &BackupService{stores: stores, storage: st, expiry: expiry}
}

func (s *BackupService) Enabled() bool {
	return s.storage != nil
}

// Backup uploads every key of the device as one JSON document and returns a download link.
func (s *BackupService) Backup(ctx context.Context, deviceID string) (*Backup, error) {
	if !s.Enabled() {
		return nil, ErrBackupsDisabled
	}

	all, err := s.stores.Open(deviceID).All()
	if err != nil {
		return nil, fmt.Errorf("failed to read device data: %w", err)
	}

	now := time.Now().UTC()
	file := backupFile{
		DeviceID:  deviceID,
		CreatedAt: now,
		Data:      make(map[string]json.RawMessage, len(all)),
	}
	for k, v := range all {
		if json.Valid(v) {
			file.Data[k] = v
			continue
		}
		// Keep undecodable values as strings rather than dropping them
		quoted, _ := json.Marshal(string(v))
		file.Data[k] = quoted
	}

	body, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	key := fmt.Sprintf("backups/%s/%s.json", deviceID, now.Format("20060102T150405Z"))
	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, key, s.expiry)
	if err != nil {
		return nil, err
	}

	slog.Info("device backup uploaded", "device_id", deviceID, "key", key, "keys", len(all))
	return &Backup{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.expiry),
		Keys:      len(all),
	}, nil
}
