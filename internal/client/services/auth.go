package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
)

const (
	msgLoginFailed        = "login failed"
	msgRegistrationFailed = "registration failed"
	msgProfileFailed      = "failed to load profile"
)

// Session is the persisted token/profile pair the auth service manages.
// *session.Store implements it.
type Session interface {
	Load(ctx context.Context) error
	Save(ctx context.Context, token string, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
	User() (models.User, bool)
}

type AuthState struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate and persist token and profile.
//   - Register: create an account; the user still has to log in.
//   - Logout / HandleUnauthorized: drop the persisted session.
//   - CheckAuth: restore a persisted session at startup.
//   - RefreshUser: reload the profile from the server.
type AuthService interface {
	State() AuthState
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) error
	RefreshUser(ctx context.Context) error
	HandleUnauthorized(ctx context.Context) error
	ClearError()
}

type authService struct {
	client  client.Client
	session Session

	mu    sync.Mutex
	state AuthState
}

func NewAuthService(c client.Client, s Session) AuthService {
	return &authService{client: c, session: s}
}

func (a *authService) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (a *authService) update(fn func(*AuthState)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.state)
}

func (a *authService) begin() {
	a.update(func(s *AuthState) {
		s.IsLoading = true
		s.Error = ""
	})
}

func (a *authService) fail(err error, fallback string) {
	a.update(func(s *AuthState) {
		s.IsLoading = false
		s.Error = errorMessage(err, fallback)
	})
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	a.begin()

	resp, err := a.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.fail(err, msgLoginFailed)
		return fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		err := errors.New("server returned an empty access token")
		a.fail(err, msgLoginFailed)
		return fmt.Errorf("login: %w", err)
	}

	if err := a.session.Save(ctx, resp.AccessToken, resp.User); err != nil {
		a.fail(err, msgLoginFailed)
		return fmt.Errorf("save session: %w", err)
	}

	user := resp.User
	a.update(func(s *AuthState) {
		s.User = &user
		s.IsAuthenticated = true
		s.IsLoading = false
	})
	return nil
}

func (a *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	a.begin()

	user, err := a.client.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		a.fail(err, msgRegistrationFailed)
		return nil, fmt.Errorf("register: %w", err)
	}

	a.update(func(s *AuthState) { s.IsLoading = false })
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.session.Clear(ctx)
	a.update(func(s *AuthState) { *s = AuthState{} })
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CheckAuth restores the persisted session. A missing, corrupted or expired
// session leaves the service logged out and returns the session error.
func (a *authService) CheckAuth(ctx context.Context) error {
	if err := a.session.Load(ctx); err != nil {
		a.update(func(s *AuthState) {
			s.User = nil
			s.IsAuthenticated = false
		})
		return err
	}

	user, ok := a.session.User()
	a.update(func(s *AuthState) {
		if ok {
			s.User = &user
		}
		s.IsAuthenticated = ok
	})
	return nil
}

func (a *authService) RefreshUser(ctx context.Context) error {
	a.begin()

	user, err := a.client.Me(ctx)
	if err != nil {
		a.fail(err, msgProfileFailed)
		return fmt.Errorf("refresh profile: %w", err)
	}
	if err := a.session.UpdateUser(ctx, *user); err != nil {
		a.fail(err, msgProfileFailed)
		return fmt.Errorf("refresh profile: %w", err)
	}

	u := *user
	a.update(func(s *AuthState) {
		s.User = &u
		s.IsLoading = false
	})
	return nil
}

// HandleUnauthorized is the reaction to a rejected token: the session is
// dropped and the state returns to logged out.
func (a *authService) HandleUnauthorized(ctx context.Context) error {
	err := a.session.Clear(ctx)
	a.update(func(s *AuthState) {
		s.User = nil
		s.IsAuthenticated = false
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (a *authService) ClearError() {
	a.update(func(s *AuthState) { s.Error = "" })
}
