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

func TestWaitlistJoinListInvite(t *testing.T) {
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	svc := app.NewWaitlistService(memory.NewStore()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	first, err := svc.Join(ctx, domain.WaitlistInput{Name: "Sari", Email: "Sari@Sekolah.id", Organization: "SMA 1"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if first.Status != domain.WaitlistPending || first.Email != "sari@sekolah.id" {
		t.Fatalf("unexpected entry %+v", first)
	}
	now = now.Add(time.Minute)
	second, _ := svc.Join(ctx, domain.WaitlistInput{Name: "Dodi", Email: "dodi@kampus.id"})

	entries, err := svc.List(ctx)
	if err != nil || len(entries) != 2 || entries[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v err=%v", entries, err)
	}

	now = now.Add(time.Hour)
	invited, err := svc.Invite(ctx, first.ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if invited.Status != domain.WaitlistInvited || invited.InvitedAt == nil || !invited.InvitedAt.Equal(now) {
		t.Fatalf("unexpected invited entry %+v", invited)
	}
}

func TestWaitlistValidation(t *testing.T) {
	svc := app.NewWaitlistService(memory.NewStore())
	ctx := context.Background()

	var vErr *domain.ValidationError
	if _, err := svc.Join(ctx, domain.WaitlistInput{Name: "Sari", Email: "bukan-email"}); !errors.As(err, &vErr) || vErr.Field != "email" {
		t.Fatalf("expected email validation error, got %v", err)
	}
	if _, err := svc.Join(ctx, domain.WaitlistInput{Email: "a@b.id"}); !errors.As(err, &vErr) || vErr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}

	_, _ = svc.Join(ctx, domain.WaitlistInput{Name: "Sari", Email: "sari@sekolah.id"})
	if _, err := svc.Join(ctx, domain.WaitlistInput{Name: "Sari", Email: "SARI@sekolah.id"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := svc.Invite(ctx, "missing"); !errors.Is(err, domain.ErrWaitlistEntryNotFound) {
		t.Fatalf("expected ErrWaitlistEntryNotFound, got %v", err)
	}
}
