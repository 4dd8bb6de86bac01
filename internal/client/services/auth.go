// Package services sits between the CLI commands and the HTTP client. It
// owns the local session and attaches the token to protected calls.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/client/api"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

var (
	ErrNotLoggedIn = errors.New("not logged in, run \"taskboard login\" first")
	// ErrSessionRejected means the server refused the stored token. The
	// session is kept so the user can see who they were signed in as.
	ErrSessionRejected = errors.New("session rejected by server, run \"taskboard login\" again")
)

type AuthClient interface {
	Signup(ctx context.Context, name, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type AuthService struct {
	client AuthClient
	pinger Pinger
	db     *sql.DB
}

func NewAuthService(client AuthClient, pinger Pinger, db *sql.DB) *AuthService {
	return &AuthService{client: client, pinger: pinger, db: db}
}

func (s *AuthService) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *AuthService) Signup(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	sess, err := s.client.Signup(ctx, name, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	sess, err := s.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (s *AuthService) saveSession(ctx context.Context, sess *models.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return r.Set(ctx, keyUser, user)
	})
}

// Logout forgets the local session. It reports whether one existed.
func (s *AuthService) Logout(ctx context.Context) (bool, error) {
	tok, err := s.repo(s.db).Get(ctx, keyToken)
	if err != nil {
		return false, err
	}
	if err := s.repo(s.db).Clear(ctx); err != nil {
		return false, err
	}
	return len(tok) > 0, nil
}

// Token returns the stored bearer token or ErrNotLoggedIn.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	tok, err := s.repo(s.db).Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if len(tok) == 0 {
		return "", ErrNotLoggedIn
	}
	return string(tok), nil
}

// CachedUser is the user saved at login, without asking the server.
func (s *AuthService) CachedUser(ctx context.Context) (*models.User, error) {
	raw, err := s.repo(s.db).Get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNotLoggedIn
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

// WhoAmI asks the server who the stored token belongs to.
func (s *AuthService) WhoAmI(ctx context.Context) (*models.User, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.client.Me(ctx, tok)
	if err != nil {
		return nil, rejected(err)
	}
	return u, nil
}

func (s *AuthService) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

func rejected(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w (%v)", ErrSessionRejected, err)
	}
	return err
}
