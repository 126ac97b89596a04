package app

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/templui/dailybible/internal/config"
	"github.com/templui/dailybible/internal/mirror"
)

type firebaseClients struct {
	messaging *messaging.Client
	mirror    *mirror.Firestore
}

func newFirebaseClients(ctx context.Context, cfg *config.Config) (*firebaseClients, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	fbApp, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	msg, err := fbApp.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	clients := &firebaseClients{messaging: msg}

	if cfg.FirestoreMirror {
		fs, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting Firestore client: %w", err)
		}
		clients.mirror = mirror.NewFirestore(fs)
	}

	slog.Info("firebase initialized", "project_id", cfg.FirebaseProjectID, "firestore_mirror", clients.mirror != nil)
	return clients, nil
}

func (c *firebaseClients) Close() {
	if c.mirror == nil {
		return
	}
	err := c.mirror.Close()
	if err != nil {
		slog.Warn("failed to close firestore client", "error", err)
	}
}
