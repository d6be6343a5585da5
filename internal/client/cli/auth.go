package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// switchTo moves to target unless it is already shown.
func (a *App) switchTo(ctx context.Context, target models.View) error {
	if a.view() == target {
		return nil
	}
	if err := a.session.Navigate(ctx, target); err != nil {
		a.explain(err)
		return err
	}
	return nil
}

// Register shows the registration view, prompts for email, full name and
// password and submits them. Feedback reaches the user as notifications.
// Only the bytes read from the terminal are zeroed on return; the form holds
// its own string copy until the session service resets it.
func (a *App) Register(ctx context.Context) error {
	if err := a.switchTo(ctx, models.ViewRegister); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := &models.RegisterForm{Email: email, FullName: fullName, Password: string(password)}
	return a.submit(ctx, func() error { return a.session.Register(ctx, form) })
}

// Login prompts for credentials and signs in. On success the home view is
// rendered by the state listener.
func (a *App) Login(ctx context.Context) error {
	if err := a.switchTo(ctx, models.ViewLogin); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := &models.LoginForm{Email: email, Password: string(password)}
	return a.submit(ctx, func() error { return a.session.Login(ctx, form) })
}

// Logout signs out locally.
func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// submit runs a request and logs its failure. User-facing feedback is left
// to the notifier.
func (a *App) submit(ctx context.Context, fn func() error) error {
	err := fn()
	if err != nil {
		if errors.Is(err, services.ErrBusy) {
			a.explain(err)
		}
		a.logger.Debug(ctx, "command failed", "error", err)
	}
	return err
}

// explain prints errors the notifier does not cover.
func (a *App) explain(err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		printlnFn("Please sign in first.")
	case errors.Is(err, services.ErrInvalidTransition):
		printlnFn("Not available while signed in. Use 'logout' first.")
	case errors.Is(err, services.ErrBusy):
		printlnFn("Please wait, a request is still in progress.")
	default:
		printlnFn("Error:", err)
	}
}
