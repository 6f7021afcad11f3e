package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartcalc/internal/client/validate"
	"github.com/dmitrijs2005/smartcalc/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

func printValidation(err error) {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			printlnFn(errText("  - " + e.Error()))
		}
		return
	}
	printlnFn(errText("  - " + err.Error()))
}

// Register prompts for username, email, password and its confirmation,
// validates the form and creates the account. The user still has to log in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirmation, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if err := validate.Register(username, email, string(password), string(confirmation)); err != nil {
		printlnFn(errText("Registration form is invalid:"))
		printValidation(err)
		return err
	}

	user, err := a.authService.Register(ctx, username, email, string(password))
	if err != nil {
		return a.report(err, a.authService.State().Error)
	}

	printlnFn(okText(fmt.Sprintf("Account %s created, please log in", user.Username)))
	return nil
}

// Login prompts for email and password and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validate.Login(email, string(password)); err != nil {
		printlnFn(errText("Login form is invalid:"))
		printValidation(err)
		return err
	}

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		a.log.Debug(ctx, "login failed", "error", err)
		return a.report(err, a.authService.State().Error)
	}
	a.expired.Store(false)

	st := a.authService.State()
	printlnFn(okText(fmt.Sprintf("Logged in as %s", st.User.Username)))
	return nil
}

// Logout drops the persisted session and resets the calculator.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.report(err, "")
	}
	a.calcService.Clear()
	printlnFn("Logged out")
	return nil
}

// WhoAmI reloads the profile from the server and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.authService.RefreshUser(ctx); err != nil {
		return a.report(err, a.authService.State().Error)
	}
	st := a.authService.State()
	printlnFn(formatUser(*st.User))
	return nil
}
