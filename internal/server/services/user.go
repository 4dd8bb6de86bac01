// Package services contains the server's business rules. Each service reads
// its repositories through a repomanager.RepositoryManager, so the same code
// runs against the in-memory and PostgreSQL stores.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/cryptox"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
)

// UserService handles signup, login and token verification.
type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	bcryptCost  int
	// dummyHash is compared against on unknown emails so both login failures
	// cost one bcrypt comparison.
	dummyHash []byte
}

func NewUserService(m repomanager.RepositoryManager, tokens *auth.TokenIssuer, bcryptCost int) *UserService {
	dummy, err := cryptox.HashPassword([]byte("taskboard-dummy-password"), bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt unavailable: %v", err))
	}
	return &UserService{repomanager: m, tokens: tokens, bcryptCost: bcryptCost, dummyHash: dummy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it together with a session token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.NewValidationError("Email and password required")
	}
	if len(password) > cryptox.MaxPasswordLen {
		return nil, "", common.NewValidationError("Password too long")
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailInUse) {
			return nil, "", common.ErrEmailInUse
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials. Unknown email and wrong password both yield
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.NewValidationError("Email and password required")
	}

	verifier := s.dummyHash
	u, err := s.repomanager.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		verifier = u.PasswordHash
	case !errors.Is(err, common.ErrorNotFound):
		return nil, "", fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := cryptox.CheckPassword(verifier, []byte(password))
	if err != nil {
		return nil, "", fmt.Errorf("check password: %w", err)
	}
	if u == nil || !ok {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// Authenticate verifies token and re-resolves its user, so a token for a
// vanished account fails with common.ErrTokenUserGone.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Principal{}, err
	}

	u, err := s.repomanager.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Principal{}, common.ErrTokenUserGone
		}
		return models.Principal{}, fmt.Errorf("error resolving token user: %w", err)
	}
	return u.Principal(), nil
}
