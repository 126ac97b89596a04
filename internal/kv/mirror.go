package kv

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Mirror is a remote copy of device data. Writes to it are best-effort.
type Mirror interface {
	Put(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	DeleteScope(ctx context.Context, scope string) error
}

const mirrorTimeout = 5 * time.Second

var ErrNotDumpable = errors.New("store cannot enumerate its contents")

// Mirrored writes to primary and then copies the write to mirror.
// Reads only ever hit primary.
type Mirrored struct {
	primary Store
	mirror  Mirror
	scope   string
}

func NewMirrored(primary Store, mirror Mirror, scope string) *Mirrored {
	return &Mirrored{primary: primary, mirror: mirror, scope: scope}
}

func (m *Mirrored) Get(key string) ([]byte, bool, error) {
	return m.primary.Get(key)
}

func (m *Mirrored) Set(key string, value []byte) error {
	err := m.primary.Set(key, value)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := m.mirror.Put(ctx, m.scope, key, value); err != nil {
		slog.Warn("failed to mirror preference", "error", err, "scope", m.scope, "key", key)
	}
	return nil
}

func (m *Mirrored) Remove(key string) error {
	err := m.primary.Remove(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := m.mirror.Delete(ctx, m.scope, key); err != nil {
		slog.Warn("failed to remove mirrored preference", "error", err, "scope", m.scope, "key", key)
	}
	return nil
}

func (m *Mirrored) All() (map[string][]byte, error) {
	d, ok := m.primary.(Dumper)
	if !ok {
		return nil, ErrNotDumpable
	}
	return d.All()
}

func (m *Mirrored) Clear() error {
	d, ok := m.primary.(Dumper)
	if !ok {
		return ErrNotDumpable
	}
	err := d.Clear()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := m.mirror.DeleteScope(ctx, m.scope); err != nil {
		slog.Warn("failed to clear mirrored preferences", "error", err, "scope", m.scope)
	}
	return nil
}
