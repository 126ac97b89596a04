package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailTemplates(t *testing.T) {
	subject, body := passwordResetEmailTemplate("http://localhost:8090/reset-password?token=abc", "Daily Bible")
	assert.Equal(t, "Reset your password for Daily Bible", subject)
	assert.Contains(t, body, "http://localhost:8090/reset-password?token=abc")

	subject, body = accountDeletedEmailTemplate("Daily Bible", "hello@example.com")
	assert.Equal(t, "Your Daily Bible account has been deleted", subject)
	assert.Contains(t, body, "hello@example.com")
}

func TestEmailServiceModes(t *testing.T) {
	dev := NewEmailService("re_key", "noreply@example.com", "http://localhost:8090", "Daily Bible", "hello@example.com", true)
	assert.NoError(t, dev.SendPasswordResetEmail("ruth@example.com", "abc"), "development only logs")

	unconfigured := NewEmailService("", "noreply@example.com", "http://localhost:8090", "Daily Bible", "hello@example.com", false)
	assert.ErrorContains(t, unconfigured.SendWelcomeEmail("ruth@example.com"), "RESEND_API_KEY")
}
