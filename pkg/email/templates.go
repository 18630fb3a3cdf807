package email

import (
	"fmt"
)

// WelcomeEmailData contains the data needed for account welcome emails.
type WelcomeEmailData struct {
	Email   string
	Role    string
	AppName string
}

// BuildWelcomeEmail creates a welcome message for newly registered accounts.
func BuildWelcomeEmail(data WelcomeEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "RehabWorks"
	}

	subject := fmt.Sprintf("Welcome to %s", appName)

	textBody := fmt.Sprintf(`Hi,

Your %s account has been created with the %s role.

You can now sign in and start using the platform.

Thanks,
The %s Team`,
		appName, data.Role, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Welcome to %s</h2>
    <p>Your account has been created with the <strong>%s</strong> role.</p>
    <p>You can now sign in and start using the platform.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		appName, data.Role, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// RoutineAssignedEmailData contains the data for routine assignment notifications.
type RoutineAssignedEmailData struct {
	Email       string
	RoutineName string
	StartDate   string
	EndDate     string
	AppName     string
}

// BuildRoutineAssignedEmail creates a notification for patients when a
// professional assigns them a new routine.
func BuildRoutineAssignedEmail(data RoutineAssignedEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "RehabWorks"
	}

	subject := fmt.Sprintf("New routine assigned: %s", data.RoutineName)

	textBody := fmt.Sprintf(`Hi,

Your professional has assigned you a new routine on %s:

  %s
  From %s to %s

Sign in to see the exercises and record your progress.

Thanks,
The %s Team`,
		appName, data.RoutineName, data.StartDate, data.EndDate, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">New routine assigned</h2>
    <p>Your professional has assigned you a new routine:</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;"><strong>%s</strong><br>From %s to %s</p>
    <p>Sign in to see the exercises and record your progress.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		data.RoutineName, data.StartDate, data.EndDate, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
