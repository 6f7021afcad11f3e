// Package session keeps the client's authentication state: the bearer token
// issued at login and the profile of the logged-in user. Both are cached in
// memory for the request interceptor and persisted in the local metadata
// table so a restarted client stays logged in.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/smartcalc/internal/common"
	"github.com/dmitrijs2005/smartcalc/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

// Store is safe for concurrent use.
//
// Invariant: the token and the user profile are either both present or both
// absent, in memory and on disk.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load restores a persisted session. It returns nil when a usable session
// was found. Otherwise persisted state is wiped and one of
// common.ErrNotLoggedIn, common.ErrCorruptedUser or common.ErrTokenExpired
// is returned; any other error comes from the database.
func (s *Store) Load(ctx context.Context) error {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, common.MetadataKeyAccessToken)
	if err != nil {
		return err
	}
	rawUser, err := repo.Get(ctx, common.MetadataKeyUser)
	if err != nil {
		return err
	}

	if len(token) == 0 || len(rawUser) == 0 {
		if len(token) != 0 || len(rawUser) != 0 {
			if err := s.Clear(ctx); err != nil {
				return err
			}
		}
		return common.ErrNotLoggedIn
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		if cerr := s.Clear(ctx); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%w: %v", common.ErrCorruptedUser, err)
	}

	if exp, ok := TokenExpiry(string(token)); ok && !s.now().Before(exp) {
		if err := s.Clear(ctx); err != nil {
			return err
		}
		return common.ErrTokenExpired
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Save persists a fresh login atomically and makes it current.
func (s *Store) Save(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return errors.New("session: empty access token")
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.MetadataKeyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.MetadataKeyUser, rawUser)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// UpdateUser replaces the cached profile of the current session.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	if !s.IsAuthenticated() {
		return common.ErrNotLoggedIn
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := s.repo(s.db).Set(ctx, common.MetadataKeyUser, rawUser); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear forgets the session in memory first, so no further request carries
// the token even if the database delete fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return s.repo(s.db).Delete(ctx, common.MetadataKeyAccessToken, common.MetadataKeyUser)
}

// Token returns the current bearer token or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the client has no key and the server remains the authority. ok is false
// for opaque tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
