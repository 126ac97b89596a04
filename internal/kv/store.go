package kv

import (
	"encoding/json"
	"fmt"
)

// Store is a flat per-device key-value store. Values are opaque bytes,
// typically JSON-encoded scalars or arrays.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Dumper is implemented by stores that can enumerate and clear their contents.
type Dumper interface {
	All() (map[string][]byte, error)
	Clear() error
}

// DumpStore is a Store that can also enumerate and clear itself.
type DumpStore interface {
	Store
	Dumper
}

// GetJSON decodes the value stored under key into v.
// It reports false when the key does not exist.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}

	err = json.Unmarshal(raw, v)
	if err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, raw)
}
