package common

import "errors"

var (
	// Session errors.
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrTokenExpired  = errors.New("token expired")
	ErrCorruptedUser = errors.New("stored user profile is corrupted")

	// Input errors raised before any request is sent.
	ErrEmptyExpression = errors.New("please enter an expression")
	ErrEmptyQuery      = errors.New("please enter a query")
)
