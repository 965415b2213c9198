package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rmarconi/threadline-backend/internal/users"
	pkgauth "github.com/rmarconi/threadline-backend/pkg/auth"
	"github.com/rmarconi/threadline-backend/pkg/config"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepo struct {
	users []users.User
}

func (f *fakeUserRepo) Insert(_ context.Context, user *users.User) (*users.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users = append(f.users, *user)
	return user, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*users.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			found := f.users[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindByID(_ context.Context, userID primitive.ObjectID) (*users.User, error) {
	for i := range f.users {
		if f.users[i].ID == userID {
			found := f.users[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeSessions struct {
	registered []string
	revoked    []string
}

func (f *fakeSessions) Register(_ context.Context, accessID string) error {
	f.registered = append(f.registered, accessID)
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-at-least-32-characters!!",
		Issuer:            "threadline-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestAuth(t *testing.T) (Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()
	repo := &fakeUserRepo{}
	sessions := &fakeSessions{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, sessions
}

func TestRegister(t *testing.T) {
	t.Run("createsAccountAndMintsToken", func(t *testing.T) {
		svc, repo, sessions := newTestAuth(t)

		resp, err := svc.Register(context.Background(), Credentials{Username: " maria ", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if resp.User.Username != "maria" {
			t.Fatalf("expected trimmed username, got %q", resp.User.Username)
		}
		if len(repo.users) != 1 {
			t.Fatalf("expected 1 user persisted, got %d", len(repo.users))
		}
		if repo.users[0].PasswordHash == "correct-horse" || repo.users[0].PasswordHash == "" {
			t.Fatal("expected password to be hashed")
		}

		claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.Token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		if claims.UserID != resp.User.ID || claims.Username != "maria" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if len(sessions.registered) != 1 || sessions.registered[0] != claims.ID {
			t.Fatalf("expected session registered under jti %q", claims.ID)
		}
	})

	t.Run("rejectsShortPassword", func(t *testing.T) {
		svc, _, _ := newTestAuth(t)
		_, err := svc.Register(context.Background(), Credentials{Username: "maria", Password: "short"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejectsDuplicateUsername", func(t *testing.T) {
		svc, _, _ := newTestAuth(t)
		if _, err := svc.Register(context.Background(), Credentials{Username: "maria", Password: "correct-horse"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err := svc.Register(context.Background(), Credentials{Username: "maria", Password: "battery-staple"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	if _, err := svc.Register(context.Background(), Credentials{Username: "maria", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), Credentials{Username: "maria", Password: "correct-horse"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if resp.Token == "" || resp.User.Username != "maria" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("wrongPassword", func(t *testing.T) {
		_, err := svc.Login(context.Background(), Credentials{Username: "maria", Password: "battery-staple"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	})

	t.Run("unknownUserFailsIdentically", func(t *testing.T) {
		_, err := svc.Login(context.Background(), Credentials{Username: "nobody", Password: "correct-horse"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	if err := svc.Logout(context.Background(), "some-jti"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "some-jti" {
		t.Fatalf("expected jti revoked, got %v", sessions.revoked)
	}
}
