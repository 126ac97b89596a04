package routes

import (
	"net/http"

	"github.com/templui/dailybible/internal/app"
	"github.com/templui/dailybible/internal/handler"
	"github.com/templui/dailybible/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	legal := handler.NewLegalHandler(app.LegalService, app.Cfg.AppName)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	devotion := handler.NewDevotionHandler(app.DevotionService)
	onboarding := handler.NewOnboardingHandler(app.OnboardingService)
	settings := handler.NewSettingsHandler(app.ProfileService)
	device := handler.NewDeviceHandler(app.DevotionService, app.BackupService)

	// Every /api route except the catalog lookup is scoped to a device
	withDevice := middleware.Device(app.Cfg.Location(), app.DevotionService.Location)
	dev := func(h http.HandlerFunc) http.Handler {
		return withDevice(h)
	}

	// Auth actions are rate limited and answer within AUTH_TIMEOUT
	rateLimiter := middleware.RateLimitAuth()
	timeout := middleware.Timeout(app.Cfg.AuthTimeout)
	authAction := func(h http.HandlerFunc) http.Handler {
		return timeout(withDevice(rateLimiter(h)))
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Check)
	mux.HandleFunc("GET /legal/{page}", legal.ShowPage)
	mux.HandleFunc("GET /api/devotions/{month}/{day}", devotion.Lookup)

	// ============================================================================
	// AUTH
	// ============================================================================

	mux.Handle("POST /api/auth/signup", authAction(auth.SignUp))
	mux.Handle("POST /api/auth/login", authAction(auth.Login))
	mux.Handle("POST /api/auth/guest", authAction(auth.Guest))
	mux.Handle("POST /api/auth/password/reset", authAction(auth.ResetPassword))
	mux.Handle("POST /api/auth/password/confirm", timeout(rateLimiter(auth.ConfirmPasswordReset)))
	mux.Handle("POST /api/auth/logout", timeout(withDevice(middleware.RequireSession(auth.Logout))))

	// ============================================================================
	// DEVICE ROUTES (guest or signed in)
	// ============================================================================

	mux.Handle("GET /api/today", dev(middleware.RequireSession(devotion.Today)))
	mux.Handle("POST /api/today/tasks/{index}/toggle", dev(middleware.RequireSession(devotion.ToggleTask)))
	mux.Handle("GET /api/momentum", dev(middleware.RequireSession(devotion.Momentum)))

	// Onboarding runs before the user picks an account
	mux.Handle("GET /api/onboarding", dev(onboarding.Status))
	mux.Handle("POST /api/onboarding", dev(onboarding.Complete))

	mux.Handle("PUT /api/device/push-token", dev(middleware.RequireSession(device.RegisterPushToken)))
	mux.Handle("POST /api/backup", dev(middleware.RequireSession(device.Backup)))

	// ============================================================================
	// ACCOUNT ROUTES (signed in, not guest)
	// ============================================================================

	mux.Handle("GET /api/settings", dev(middleware.RequireAccount(settings.Show)))
	mux.Handle("PUT /api/settings", dev(middleware.RequireAccount(settings.Update)))
	mux.Handle("PUT /api/account/password", dev(rateLimiter(middleware.RequireAccount(account.ChangePassword))))
	mux.Handle("DELETE /api/account", dev(middleware.RequireAccount(account.DeleteAccount)))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.Session(app.AuthService),
	)
}
