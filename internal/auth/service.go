package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rmarconi/threadline-backend/internal/users"
	pkgauth "github.com/rmarconi/threadline-backend/pkg/auth"
	"github.com/rmarconi/threadline-backend/pkg/config"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/rmarconi/threadline-backend/pkg/security"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const invalidCredentialsMessage = "invalid credentials"

const minPasswordLength = 8

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	Insert(ctx context.Context, user *users.User) (*users.User, error)
	FindByUsername(ctx context.Context, username string) (*users.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*users.User, error)
}

type sessionManager interface {
	Register(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users       userRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates an account and logs it straight in.
func (s *service) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid registration payload").
			WithDetails(map[string]string{"username": "is required"})
	}
	if len(creds.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid registration payload").
			WithDetails(map[string]string{"password": fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find user")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	}

	hash, err := security.HashPassword(creds.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Insert(ctx, &users.User{Username: username, PasswordHash: hash})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}
	return s.issueToken(ctx, user)
}

// Login verifies credentials. Unknown usernames and wrong passwords fail the
// same way.
func (s *service) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	username := strings.TrimSpace(creds.Username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find user")
	}

	ok, err := security.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.issueToken(ctx, user)
}

// Logout revokes the session behind the presented token.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueToken(ctx context.Context, user *users.User) (*AuthResponse, error) {
	accessID := uuid.NewString()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Register(ctx, accessID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}
	return &AuthResponse{Token: token, User: users.NewUserDTO(user)}, nil
}
