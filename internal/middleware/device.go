package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/templui/dailybible/internal/ctxkeys"
)

const (
	DeviceIDHeader = "X-Device-ID"
	TimezoneHeader = "X-Timezone"
)

// DeviceLocator returns the time zone a device registered earlier, or fallback.
type DeviceLocator func(deviceID string, fallback *time.Location) *time.Location

// Device resolves the device ID and time zone of a request. With a session the
// ID is the session's device, and an X-Device-ID naming any other device is
// rejected with 403. Without a session the header is required and must be a UUID.
// Without a usable X-Timezone the zone comes from locate, then defaultLoc.
func Device(defaultLoc *time.Location, locate DeviceLocator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(DeviceIDHeader)
			session := ctxkeys.SessionFrom(r.Context())

			deviceID := header
			if session != nil {
				deviceID = session.DeviceID
			}

			id, err := uuid.Parse(deviceID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "X-Device-ID header must be a UUID")
				return
			}

			// A session only ever acts on the device it was issued to
			if session != nil && header != "" {
				claimed, err := uuid.Parse(header)
				if err != nil || claimed != id {
					slog.Warn("device does not match session",
						"device_id", id.String(),
						"header", header,
						"user_id", session.UserID,
					)
					writeError(w, http.StatusForbidden, "This session belongs to another device.")
					return
				}
			}

			var loc *time.Location
			if tz := r.Header.Get(TimezoneHeader); tz != "" {
				parsed, err := time.LoadLocation(tz)
				if err != nil {
					slog.Debug("unknown time zone, using default", "timezone", tz)
				} else {
					loc = parsed
				}
			}
			if loc == nil {
				loc = defaultLoc
				if locate != nil {
					loc = locate(id.String(), defaultLoc)
				}
			}

			ctx := ctxkeys.WithDeviceID(r.Context(), id.String())
			ctx = ctxkeys.WithLocation(ctx, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
