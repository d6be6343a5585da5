package services

import (
	"context"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// User-facing notification texts.
const (
	TitleSuccess = "Success"
	TitleError   = "Error"

	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgRegistered       = "Registration complete! Now sign in"
	MsgRegisterFailed   = "Could not register"
	MsgWelcome          = "Welcome!"
	MsgLoginFailed      = "Invalid sign-in data"
	MsgConnection       = "Problem connecting to the server"
	MsgSignedOut        = "You have signed out"
	MsgAvatarUpdated    = "Avatar updated"
	MsgAvatarFailed     = "Could not update avatar"
	MsgAvatarEmpty      = "Avatar image is empty"
)

// Notifier shows short messages to the user. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.Notification) {}

func success(desc string) models.Notification {
	return models.Notification{Severity: models.SeveritySuccess, Title: TitleSuccess, Description: desc}
}

func failure(desc string) models.Notification {
	return models.Notification{Severity: models.SeverityError, Title: TitleError, Description: desc}
}
