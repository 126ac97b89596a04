package service

import "fmt"

func welcomeEmailTemplate(appName, supportEmail string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi,

Your account is ready. Each day you'll find a verse, a short reflection task and
three small steps to complete. Finish all three to light up the day on your weekly tracker.

"This is the day which the Lord hath made; we will rejoice and be glad in it." Psalm 118:24

Questions? Write to %s.

Blessings,
The %s Team`, supportEmail, appName)

	return subject, body
}

func passwordResetEmailTemplate(resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`You asked to reset your password. Open this link to choose a new one:
%s

The link can only be used once and expires soon.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Blessings,
The %s Team`, resetURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(appName, supportEmail string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi,

Your account and its settings have been permanently deleted.

If you didn't do this, contact us right away at %s.

Blessings,
The %s Team`, supportEmail, appName)

	return subject, body
}
