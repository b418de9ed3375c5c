package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/auth"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

func newAuthService(ttl time.Duration) *auth.Service {
	return auth.NewService(memory.NewUserRepository(memory.NewStore()), []byte("test-secret"), ttl, nil)
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}
}

func TestService_Register(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}

	if _, err := svc.Register(ctx, validRegister()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_RegisterValidates(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*auth.RegisterRequest)
		want   error
	}{
		{"missing name", func(r *auth.RegisterRequest) { r.Name = "" }, domain.ErrNameRequired},
		{"missing email", func(r *auth.RegisterRequest) { r.Email = "" }, domain.ErrEmailRequired},
		{"missing password", func(r *auth.RegisterRequest) { r.Password = "" }, domain.ErrPasswordRequired},
		{"password mismatch", func(r *auth.RegisterRequest) { r.PasswordConfirm = "other" }, domain.ErrPasswordMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegister()
			tc.mutate(&req)
			if _, err := svc.Register(ctx, req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_LoginAndParse(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_ParseTokenRejectsInvalid(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	if _, err := svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	foreign := auth.NewService(memory.NewUserRepository(memory.NewStore()), []byte("other-secret"), time.Hour, nil)
	if _, err := foreign.ParseToken(token); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}
