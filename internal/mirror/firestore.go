// Package mirror copies device preferences to Cloud Firestore.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const (
	devicesCollection     = "devices"
	preferencesCollection = "preferences"
)

// Firestore mirrors each preference to devices/{deviceID}/preferences/{key}.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) preferences(scope string) *firestore.CollectionRef {
	return f.client.Collection(devicesCollection).Doc(scope).Collection(preferencesCollection)
}

func (f *Firestore) Put(ctx context.Context, scope, key string, value []byte) error {
	_, err := f.preferences(scope).Doc(key).Set(ctx, map[string]any{
		"value":     string(value),
		"updatedAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", scope, key, err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, scope, key string) error {
	_, err := f.preferences(scope).Doc(key).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// DeleteScope removes every mirrored preference of a device.
func (f *Firestore) DeleteScope(ctx context.Context, scope string) error {
	iter := f.preferences(scope).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list preferences of %s: %w", scope, err)
		}

		_, err = doc.Ref.Delete(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", doc.Ref.Path, err)
		}
	}

	_, err := f.client.Collection(devicesCollection).Doc(scope).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete device %s: %w", scope, err)
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
