// Package validate holds the client-side form rules checked before the
// registration and login requests are sent.
package validate

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 8
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is not a valid address")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameLength   = errors.New("username must be between 3 and 20 characters")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordLength   = errors.New("password must be at least 8 characters")
	ErrPasswordWeak     = errors.New("password must contain lowercase and uppercase letters and a digit")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Email accepts a bare address only; display names ("Bob <b@x.io>") are
// rejected.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return ErrEmailInvalid
	}
	at := strings.LastIndexByte(email, '@')
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return ErrEmailInvalid
	}
	return nil
}

func Username(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return ErrUsernameLength
	}
	return nil
}

// Password enforces the registration strength rule. Login only requires a
// non-empty password.
func Password(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return ErrPasswordLength
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return ErrPasswordWeak
	}
	return nil
}

// Login checks the login form. All failures are joined.
func Login(email, password string) error {
	var errs []error
	if err := Email(email); err != nil {
		errs = append(errs, err)
	}
	if password == "" {
		errs = append(errs, ErrPasswordRequired)
	}
	return errors.Join(errs...)
}

// Register checks the registration form. All failures are joined.
func Register(username, email, password, confirm string) error {
	var errs []error
	for _, err := range []error{Username(username), Email(email), Password(password)} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if password != confirm {
		errs = append(errs, ErrPasswordMismatch)
	}
	return errors.Join(errs...)
}
