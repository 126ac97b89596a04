package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/dailybible"
	"github.com/templui/dailybible/internal/config"
	"github.com/templui/dailybible/internal/db"
	"github.com/templui/dailybible/internal/devotion"
	"github.com/templui/dailybible/internal/kv"
	"github.com/templui/dailybible/internal/push"
	"github.com/templui/dailybible/internal/repository"
	"github.com/templui/dailybible/internal/scheduler"
	"github.com/templui/dailybible/internal/service"
	"github.com/templui/dailybible/internal/storage"
)

var timeNow = time.Now

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Catalog           *devotion.Catalog
	AuthService       *service.AuthService
	UserService       *service.UserService
	ProfileService    *service.ProfileService
	EmailService      *service.EmailService
	OnboardingService *service.OnboardingService
	DevotionService   *service.DevotionService
	ReminderService   *service.ReminderService
	BackupService     *service.BackupService
	LegalService      *service.LegalService

	tokenRepository repository.TokenRepository
	firebase        *firebaseClients
	unsubscribe     func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	catalog, err := devotion.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load devotions: %w", err)
	}
	if missing := catalog.Missing(); len(missing) > 0 {
		slog.Warn("devotion catalog has gaps, fallback content will be shown", "days", len(missing))
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	preferenceRepository := repository.NewPreferenceRepository(database)

	// Firebase (push and the Firestore mirror)
	var notifier push.Notifier = push.LogNotifier{}
	var mirror kv.Mirror
	var fb *firebaseClients
	if cfg.FirebaseEnabled() {
		fb, err = newFirebaseClients(ctx, cfg)
		if err != nil {
			return nil, err
		}
		notifier = push.NewFirebaseNotifier(fb.messaging)
		if fb.mirror != nil {
			mirror = fb.mirror
		}
	} else if cfg.IsProduction() {
		slog.Warn("firebase not configured, push notifications are logged only")
	}

	// Backups
	var backupStorage storage.Storage
	if cfg.BackupsEnabled() {
		s3Storage, err := storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		backupStorage = s3Storage
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.SupportEmail,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.GuestSessionExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	stores := service.NewDeviceStores(preferenceRepository, mirror)
	devotionService := service.NewDevotionService(catalog, stores, notifier)

	a := &App{
		Cfg:               cfg,
		DB:                database,
		Catalog:           catalog,
		AuthService:       authService,
		UserService:       service.NewUserService(userRepository),
		ProfileService:    service.NewProfileService(profileRepository, userRepository),
		EmailService:      emailService,
		OnboardingService: service.NewOnboardingService(stores, profileRepository),
		DevotionService:   devotionService,
		ReminderService:   service.NewReminderService(stores, devotionService, notifier, cfg.Location(), cfg.ReminderHour),
		BackupService:     service.NewBackupService(stores, backupStorage, cfg.S3PresignExpiry),
		LegalService:      service.NewLegalService(contentFS(cfg), cfg.IsDevelopment()),
		tokenRepository:   tokenRepository,
		firebase:          fb,
	}

	a.unsubscribe = authService.Subscribe(a.onUserChanged)
	return a, nil
}

// onUserChanged clears the device's devotion progress when its user signs out
// or deletes the account.
func (a *App) onUserChanged(e service.UserEvent) {
	if e.DeviceID == "" {
		return
	}
	switch e.Type {
	case service.UserSignedOut, service.UserDeleted:
		err := a.DevotionService.Wipe(e.DeviceID)
		if err != nil {
			slog.Error("failed to wipe device after user change", "error", err, "device_id", e.DeviceID, "event", e.Type)
		}
	}
}

// Jobs returns the background jobs for the scheduler.
func (a *App) Jobs() []scheduler.Job {
	return []scheduler.Job{
		{
			Name:     "daily-reminders",
			Schedule: a.Cfg.ReminderSchedule,
			Run: func(ctx context.Context) error {
				_, err := a.ReminderService.SendDueReminders(ctx, timeNow())
				return err
			},
		},
		{
			Name:     "token-cleanup",
			Schedule: a.Cfg.TokenCleanupSchedule,
			Run: func(ctx context.Context) error {
				n, err := a.tokenRepository.CleanupExpired(a.Cfg.TokenRetention)
				if err != nil {
					return fmt.Errorf("failed to clean up tokens: %w", err)
				}
				slog.Info("expired tokens removed", "count", n)
				return nil
			},
		},
	}
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.firebase != nil {
		a.firebase.Close()
	}
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}

// contentFS serves markdown from disk in development so edits show up without a rebuild.
func contentFS(cfg *config.Config) fs.FS {
	if cfg.IsDevelopment() {
		if info, err := os.Stat(cfg.ContentPath); err == nil && info.IsDir() {
			return os.DirFS(cfg.ContentPath)
		}
	}
	sub, err := fs.Sub(dailybible.ContentFS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}
