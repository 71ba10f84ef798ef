package service

import "fmt"

func signupCodeEmailTemplate(code string, minutes int, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s verification code", appName)
	body := fmt.Sprintf(`Your verification code is %s.

It expires in %d minutes.

If you didn't request this, ignore this email.

Best,
The %s Team`, code, minutes, appName)

	return subject, body
}

func passwordResetCodeEmailTemplate(code string, minutes int, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your %s password", appName)
	body := fmt.Sprintf(`Your password reset code is %s.

It expires in %d minutes.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, code, minutes, appName)

	return subject, body
}

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your email is verified and your account is active!

Get started: %s

Set a goal for today, check in on your week, and see what others are up to in the feed.

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

All your data, including your goals, posts, photos and profile, has been removed from our systems.

If you didn't request this deletion, please contact our support team immediately, though we won't be able to recover your account.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}
