package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kuisin/internal/app"
	"kuisin/internal/domain"
	"kuisin/internal/infra/memory"
)

func newAuth(t *testing.T) *app.AuthService {
	t.Helper()
	auth := app.NewAuthService(memory.NewStore(), memory.NewSessionStore(), "test-secret", time.Hour)
	if _, err := auth.CreateAdmin(context.Background(), "Admin@Kuisin.id", "Admin", "rahasia123"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return auth
}

func TestLoginAuthenticateLogout(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "admin@kuisin.id", "rahasia123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.Admin.Email != "admin@kuisin.id" {
		t.Fatalf("unexpected login result %+v", res)
	}

	principal, err := auth.Authenticate(ctx, "Bearer "+res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.AdminID != res.Admin.ID {
		t.Fatalf("expected principal %s, got %s", res.Admin.ID, principal.AdminID)
	}
	me, err := auth.Me(ctx, principal)
	if err != nil || me.ID != res.Admin.ID {
		t.Fatalf("me: %+v err=%v", me, err)
	}

	if err := auth.Logout(ctx, principal); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.Authenticate(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token rejected, got %v", err)
	}
}

func TestLoginRejectsShortPasswordAndBadCredentials(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	var vErr *domain.ValidationError
	if _, err := auth.Login(ctx, "admin@kuisin.id", "123"); !errors.As(err, &vErr) || vErr.Message != "Password minimal 6 karakter" {
		t.Fatalf("expected short password validation, got %v", err)
	}
	if _, err := auth.Login(ctx, "admin@kuisin.id", "salah-sekali"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "nobody@kuisin.id", "rahasia123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateRejectsForeignAndExpiredTokens(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	res, _ := auth.Login(ctx, "admin@kuisin.id", "rahasia123")

	other := app.NewAuthService(memory.NewStore(), memory.NewSessionStore(), "other-secret", time.Hour)
	if _, err := other.Authenticate(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected foreign signature rejected, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected garbage rejected, got %v", err)
	}

	auth.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	if _, err := auth.Authenticate(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	auth := newAuth(t)
	_, err := auth.CreateAdmin(context.Background(), "admin@kuisin.id", "Again", "rahasia123")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}
