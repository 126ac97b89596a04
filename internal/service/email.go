package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// Mailer sends the account emails triggered by AuthService.
type Mailer interface {
	SendWelcomeEmail(email string) error
	SendPasswordResetEmail(email, token string) error
	SendAccountDeletedEmail(email string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
	support   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName, supportEmail string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
		support:   supportEmail,
	}
}

func (s *EmailService) SendWelcomeEmail(email string) error {
	subject, body := welcomeEmailTemplate(s.appName, s.support)
	return s.send("welcome", email, subject, body, "")
}

func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, url.QueryEscape(token))
	subject, body := passwordResetEmailTemplate(resetURL, s.appName)
	return s.send("password_reset", email, subject, body, resetURL)
}

func (s *EmailService) SendAccountDeletedEmail(email string) error {
	subject, body := accountDeletedEmailTemplate(s.appName, s.support)
	return s.send("account_deleted", email, subject, body, "")
}

func (s *EmailService) send(kind, to, subject, body, link string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", link)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
